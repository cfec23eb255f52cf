package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"chatline/internal/model/auth"
	"chatline/internal/pkg/id"
)

var ErrIncompleteProfile = errors.New("external profile is missing id or email")

// GoogleProfile Google 返回的外部身份信息
type GoogleProfile struct {
	ID      string // 外部身份ID（稳定）
	Email   string // 主邮箱
	Name    string // 显示名
	Picture string // 头像URL
}

// OAuthService 外部身份桥接
// 把 Google 身份解析成本地用户：命中外部ID直接返回，
// 命中邮箱则关联，否则新建。同一个外部ID永远只对应一行用户
type OAuthService struct {
	userRepo UserRepository
}

// NewOAuthService 创建外部身份桥接服务
func NewOAuthService(userRepo UserRepository) *OAuthService {
	return &OAuthService{userRepo: userRepo}
}

// Resolve 按 外部ID -> 邮箱 -> 新建 的优先级解析本地用户
func (s *OAuthService) Resolve(ctx context.Context, profile *GoogleProfile) (*auth.User, error) {
	if profile == nil || profile.ID == "" || profile.Email == "" {
		return nil, ErrIncompleteProfile
	}

	email := strings.ToLower(strings.TrimSpace(profile.Email))

	// 1. 外部ID已经绑定过：原样返回
	if user, err := s.userRepo.FindByGoogleID(ctx, profile.ID); err == nil {
		log.Debug().Str("email", user.Email).Msg("existing google user")
		return user, nil
	}

	// 2. 邮箱对应已有本地账号：补充外部身份字段，账号本身不变
	if user, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		if err := s.userRepo.LinkGoogleAccount(ctx, user.ID, profile.ID, profile.Picture); err != nil {
			return nil, err
		}
		user.GoogleID = profile.ID
		user.AuthProvider = auth.ProviderGoogle
		if profile.Picture != "" {
			user.ProfilePicture = profile.Picture
		}

		log.Info().Str("email", user.Email).Msg("linked google identity to existing account")
		return user, nil
	}

	// 3. 全新用户：用户名取显示名，缺失时退回邮箱本地部分；无本地密码
	username := strings.TrimSpace(profile.Name)
	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}

	user := &auth.User{
		ID:             id.New(),
		Username:       username,
		Email:          email,
		GoogleID:       profile.ID,
		ProfilePicture: profile.Picture,
		AuthProvider:   auth.ProviderGoogle,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		log.Error().Err(err).Msg("failed to create google user")
		return nil, err
	}

	log.Info().Str("email", user.Email).Msg("new google user created")
	return user, nil
}
