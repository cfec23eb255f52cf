package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/smartystreets/goconvey/convey"

	"chatline/internal/pkg/ctxutil"
	"chatline/internal/pkg/jwt"
)

func newAuthTestRouter(jwtUtil *jwt.JWT) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", Auth(jwtUtil), func(c *gin.Context) {
		userID, ok := ctxutil.GetUserID(c.Request.Context())
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no user in context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": userID})
	})
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	Convey("JWT 认证中间件", t, func() {
		jwtUtil := jwt.NewJWT("test-secret", time.Hour)
		r := newAuthTestRouter(jwtUtil)

		Convey("合法Token放行并注入用户ID", func() {
			token, err := jwtUtil.GenerateToken("user-42")
			So(err, ShouldBeNil)

			w := doRequest(r, "Bearer "+token)
			So(w.Code, ShouldEqual, http.StatusOK)

			var body map[string]string
			So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
			So(body["userId"], ShouldEqual, "user-42")
		})

		Convey("缺少 Authorization header 返回 401", func() {
			w := doRequest(r, "")
			So(w.Code, ShouldEqual, http.StatusUnauthorized)

			var body map[string]string
			So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
			So(body["error"], ShouldNotBeEmpty)
		})

		Convey("非 Bearer 格式返回 401", func() {
			token, _ := jwtUtil.GenerateToken("user-42")
			So(doRequest(r, token).Code, ShouldEqual, http.StatusUnauthorized)
			So(doRequest(r, "Basic "+token).Code, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("伪造Token返回 401", func() {
			w := doRequest(r, "Bearer not-a-real-token")
			So(w.Code, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("过期Token返回 401", func() {
			expired := jwt.NewJWT("test-secret", -time.Minute)
			token, err := expired.GenerateToken("user-42")
			So(err, ShouldBeNil)

			w := doRequest(r, "Bearer "+token)
			So(w.Code, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("其他密钥签发的Token返回 401", func() {
			other := jwt.NewJWT("other-secret", time.Hour)
			token, err := other.GenerateToken("user-42")
			So(err, ShouldBeNil)

			w := doRequest(r, "Bearer "+token)
			So(w.Code, ShouldEqual, http.StatusUnauthorized)
		})
	})
}
