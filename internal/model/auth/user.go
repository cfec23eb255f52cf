package auth

import (
	"time"
)

// User 用户实体
// ID使用UUID格式（string），避免ObjectID转换的麻烦
// 不变量：新用户要么有密码哈希（本地注册），要么来自外部身份提供方
// （GoogleID 非空、Password 为空）；账号关联后两者可以同时存在
type User struct {
	ID             string       `bson:"_id,omitempty" json:"id"`                                  // UUID格式的ID
	Username       string       `bson:"username" json:"username"`                                 // 用户名（唯一）
	Email          string       `bson:"email" json:"email"`                                       // 邮箱（唯一，存储前统一小写）
	Password       string       `bson:"password,omitempty" json:"-"`                              // 密码哈希（OAuth账号为空，不返回）
	GoogleID       string       `bson:"google_id,omitempty" json:"-"`                             // Google 外部身份ID（唯一，可缺失）
	ProfilePicture string       `bson:"profile_picture,omitempty" json:"profilePicture,omitempty"` // 头像URL
	AuthProvider   AuthProvider `bson:"auth_provider" json:"authProvider"`                        // 账号来源
	CreatedAt      time.Time    `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time    `bson:"updated_at" json:"updatedAt"`
}

// HasPassword 是否设置了本地密码
func (u *User) HasPassword() bool {
	return u.Password != ""
}

// AuthProvider 账号来源
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "local"  // 本地注册
	ProviderGoogle AuthProvider = "google" // Google OAuth
)

// IsValid 检查来源是否有效
func (p AuthProvider) IsValid() bool {
	return p == ProviderLocal || p == ProviderGoogle
}

// String 返回来源字符串
func (p AuthProvider) String() string {
	return string(p)
}
