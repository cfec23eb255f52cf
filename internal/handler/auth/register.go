package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"chatline/internal/service"
)

// RegisterRequest 用户注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`       // 用户名（必填）
	Email    string `json:"email" binding:"required,email"`    // 邮箱（必填，需符合邮箱格式）
	Password string `json:"password" binding:"required,min=6"` // 密码（必填，至少6位）
}

// Register 用户注册
// @Summary      用户注册
// @Description  注册新用户并直接签发Token
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request  body      RegisterRequest  true  "注册请求"
// @Success      201      {object}  map[string]interface{}
// @Failure      400      {object}  map[string]interface{}
// @Failure      500      {object}  map[string]interface{}
// @Router       /api/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// 字段缺失和密码过短都在绑定阶段挡掉
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}

	user, token, err := h.authService.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields),
			errors.Is(err, service.ErrPasswordTooShort),
			errors.Is(err, service.ErrEmailTaken),
			errors.Is(err, service.ErrUsernameTaken):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "user registered successfully",
		"token":   token,
		"user":    toUserInfo(user),
	})
}

// bindErrorMessage 把绑定错误收敛成稳定的提示语，不回显 validator 细节
func bindErrorMessage(err error) string {
	return "all fields are required and password must be at least 6 characters"
}
