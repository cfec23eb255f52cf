package password

import (
	"golang.org/x/crypto/bcrypt"
)

// Hash 加密密码（bcrypt，自带盐值，不可逆）
func Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify 验证密码
// hash 为空时直接返回 false：OAuth 账号没有本地密码，
// 任何候选密码都不能匹配，也绝不报错
func Verify(candidate, hash string) bool {
	if hash == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate))
	return err == nil
}
