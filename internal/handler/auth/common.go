package auth

import (
	"chatline/internal/model/auth"
)

// UserInfo 用户信息（用于响应，所有API共用）
type UserInfo struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profilePicture,omitempty"`
	AuthProvider   string `json:"authProvider,omitempty"`
}

// toUserInfo 将User实体转换为UserInfo（所有API共用）
// 密码哈希和外部身份ID永远不出现在响应里
func toUserInfo(user *auth.User) UserInfo {
	return UserInfo{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		ProfilePicture: user.ProfilePicture,
		AuthProvider:   string(user.AuthProvider),
	}
}
