package password

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestPassword(t *testing.T) {
	Convey("密码哈希与验证", t, func() {
		Convey("哈希后可以验证原密码", func() {
			hash, err := Hash("secret1")
			So(err, ShouldBeNil)
			So(hash, ShouldNotBeEmpty)
			// 明文绝不等于哈希
			So(hash, ShouldNotEqual, "secret1")
			So(strings.HasPrefix(hash, "$2"), ShouldBeTrue)

			So(Verify("secret1", hash), ShouldBeTrue)
		})

		Convey("错误密码验证失败", func() {
			hash, err := Hash("secret1")
			So(err, ShouldBeNil)

			So(Verify("secret2", hash), ShouldBeFalse)
			So(Verify("", hash), ShouldBeFalse)
		})

		Convey("没有密码哈希的账号（OAuth账号）永远验证失败且不报错", func() {
			So(Verify("anything", ""), ShouldBeFalse)
			So(Verify("", ""), ShouldBeFalse)
		})
	})
}
