package adapter

import (
	"context"
	"errors"
	"strings"
)

// ErrCredentialNotFound 邮箱没有对应的凭据
var ErrCredentialNotFound = errors.New("credential not found")

// Credential 存储中的一条登录凭据
type Credential struct {
	UserID       string
	PasswordHash string
}

// CredentialStore 按邮箱查找凭据，找不到时返回 ErrCredentialNotFound
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (Credential, error)
}

// NormalizeEmail 存储和查询都使用小写、去掉首尾空白的邮箱
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
