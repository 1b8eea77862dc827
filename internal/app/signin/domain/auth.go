package domain

import "context"

// Request 是登录入口接收的抽象请求。
// nil 的 *Request 与 Body 为 nil 都视为请求结构错误；空 Body{} 表示有 body 但字段缺失。
type Request struct {
	Body *Body
}

// Body 登录请求体。空字符串视为字段缺失。
type Body struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Authenticator 校验凭据并签发访问令牌。
// 返回空字符串表示凭据不匹配；error 表示校验过程本身失败。
type Authenticator interface {
	Auth(ctx context.Context, email, password string) (string, error)
}

// EmailFormatChecker 校验邮箱格式。
type EmailFormatChecker interface {
	IsValid(email string) (bool, error)
}
