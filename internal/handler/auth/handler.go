package auth

import (
	"chatline/internal/config"
	"chatline/internal/service"
)

// Handler 认证处理器
// 所有auth相关的Handler方法都通过这个结构体访问Service
type Handler struct {
	authService  *service.AuthService
	oauthService *service.OAuthService
	cfg          *config.Config
}

// NewHandler 创建认证处理器
func NewHandler(authService *service.AuthService, oauthService *service.OAuthService, cfg *config.Config) *Handler {
	return &Handler{
		authService:  authService,
		oauthService: oauthService,
		cfg:          cfg,
	}
}
