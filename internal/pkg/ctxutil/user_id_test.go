package ctxutil

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestUserIDContext(t *testing.T) {
	Convey("context 中的用户ID", t, func() {
		Convey("注入后可以取出", func() {
			ctx := WithUserID(context.Background(), "user-1")
			id, ok := GetUserID(ctx)
			So(ok, ShouldBeTrue)
			So(id, ShouldEqual, "user-1")
		})

		Convey("未注入时取不到", func() {
			_, ok := GetUserID(context.Background())
			So(ok, ShouldBeFalse)
		})

		Convey("空字符串视为无效", func() {
			ctx := WithUserID(context.Background(), "")
			_, ok := GetUserID(ctx)
			So(ok, ShouldBeFalse)
		})

		Convey("nil context 不会panic", func() {
			_, ok := GetUserID(nil)
			So(ok, ShouldBeFalse)

			ctx := WithUserID(nil, "user-1")
			id, ok := GetUserID(ctx)
			So(ok, ShouldBeTrue)
			So(id, ShouldEqual, "user-1")
		})
	})
}
