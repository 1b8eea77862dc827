package controller

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// SigninEvent 登录结果事件，不包含明文邮箱和任何凭据
type SigninEvent struct {
	Outcome    string    `json:"outcome"`
	StatusCode int       `json:"status_code"`
	TraceID    string    `json:"trace_id,omitempty"`
	EmailHash  string    `json:"email_hash,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher 登录事件发布者（在消费端定义）
type EventPublisher interface {
	PublishSigninEvent(ctx context.Context, event SigninEvent) error
}

// hashEmail 统一小写后取 sha256 前 16 位，便于关联同一账户的事件
func hashEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:])[:16]
}
