package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"chatline/internal/model/auth"
	"chatline/internal/pkg/id"
	"chatline/internal/pkg/jwt"
	"chatline/internal/pkg/password"
)

const minPasswordLen = 6

var (
	ErrMissingFields    = errors.New("all fields are required")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrEmailTaken       = errors.New("email already registered")
	ErrUsernameTaken    = errors.New("username already taken")
	// 登录失败统一返回同一条错误，不区分"用户不存在"和"密码错误"，
	// 避免暴露哪些邮箱已注册
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrTokenInvalid       = errors.New("invalid or expired token")
)

// AuthService 认证服务
type AuthService struct {
	userRepo UserRepository
	jwt      *jwt.JWT
}

// NewAuthService 创建认证服务
func NewAuthService(userRepo UserRepository, jwtSecret string, tokenExpiry time.Duration) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		jwt:      jwt.NewJWT(jwtSecret, tokenExpiry),
	}
}

// Register 用户注册
// 返回新用户和签发的Token；邮箱和用户名冲突返回不同的错误，
// 错误信息指明冲突的字段
func (s *AuthService) Register(ctx context.Context, username, email, pwd string) (*auth.User, string, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" || email == "" || pwd == "" {
		return nil, "", ErrMissingFields
	}
	if len(pwd) < minPasswordLen {
		return nil, "", ErrPasswordTooShort
	}

	// 检查邮箱是否已注册
	if existing, _ := s.userRepo.FindByEmail(ctx, email); existing != nil {
		return nil, "", ErrEmailTaken
	}

	// 检查用户名是否被占用
	if existing, _ := s.userRepo.FindByUsername(ctx, username); existing != nil {
		return nil, "", ErrUsernameTaken
	}

	// 加密密码，明文不落库
	hashed, err := password.Hash(pwd)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")
		return nil, "", err
	}

	user := &auth.User{
		ID:           id.New(),
		Username:     username,
		Email:        email,
		Password:     hashed,
		AuthProvider: auth.ProviderLocal,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		log.Error().Err(err).Msg("failed to create user")
		return nil, "", err
	}

	token, err := s.jwt.GenerateToken(user.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate token")
		return nil, "", err
	}

	log.Info().Str("username", user.Username).Msg("user registered")

	return user, token, nil
}

// Login 用户登录
func (s *AuthService) Login(ctx context.Context, email, pwd string) (*auth.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if email == "" || pwd == "" {
		return nil, "", ErrMissingFields
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	// OAuth账号（无密码哈希）走这里同样验证失败，不会报错
	if !password.Verify(pwd, user.Password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate token")
		return nil, "", err
	}

	log.Info().Str("username", user.Username).Msg("user logged in")

	return user, token, nil
}

// GetUserByID 根据ID获取用户信息
func (s *AuthService) GetUserByID(ctx context.Context, userID string) (*auth.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// IssueToken 为指定用户签发Token（OAuth回调等已完成身份验证的场景）
func (s *AuthService) IssueToken(userID string) (string, error) {
	return s.jwt.GenerateToken(userID)
}

// ValidateToken 验证Token并返回用户ID
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	userID, err := s.jwt.ValidateToken(tokenString)
	if err != nil {
		return "", ErrTokenInvalid
	}
	return userID, nil
}
