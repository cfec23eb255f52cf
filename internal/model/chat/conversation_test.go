package chat

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDeriveTitle(t *testing.T) {
	Convey("对话标题生成", t, func() {
		Convey("不超过50个字符时原样返回", func() {
			So(DeriveTitle("hello"), ShouldEqual, "hello")
			So(DeriveTitle(strings.Repeat("a", 50)), ShouldEqual, strings.Repeat("a", 50))
		})

		Convey("超过50个字符时截断并追加省略号", func() {
			title := DeriveTitle(strings.Repeat("a", 60))
			So(title, ShouldEqual, strings.Repeat("a", 50)+"...")
		})

		Convey("按可见字符截断，多字节字符不被截成半个", func() {
			title := DeriveTitle(strings.Repeat("测", 60))
			So(title, ShouldEqual, strings.Repeat("测", 50)+"...")
		})

		Convey("空消息得到空标题", func() {
			So(DeriveTitle(""), ShouldEqual, "")
		})
	})
}
