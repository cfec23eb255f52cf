package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"chatline/internal/pkg/ctxutil"
)

// Logout 退出登录
// Token 无服务端状态，这里只是确认动作；前端负责丢弃本地 token
// @Summary      退出登录
// @Tags         认证
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /api/auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	if userID, ok := ctxutil.GetUserID(c.Request.Context()); ok {
		log.Info().Str("user_id", userID).Msg("user logged out")
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "logout successful",
		"success": true,
	})
}
