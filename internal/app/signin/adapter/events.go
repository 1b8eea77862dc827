package adapter

import (
	"context"

	"tsu-signin/internal/app/signin/controller"
)

// JSONPublisher 以 JSON 发布任意 payload，由 internal/pkg/nats.Publisher 实现
type JSONPublisher interface {
	PublishJSON(ctx context.Context, subject string, payload any) error
}

// SigninEventPublisher 把登录事件发布到固定 subject
type SigninEventPublisher struct {
	publisher JSONPublisher
	subject   string
}

// NewSigninEventPublisher 创建登录事件发布者
func NewSigninEventPublisher(publisher JSONPublisher, subject string) *SigninEventPublisher {
	return &SigninEventPublisher{publisher: publisher, subject: subject}
}

// Healthy 底层发布者能报告连接状态时透传，否则视为可用
func (p *SigninEventPublisher) Healthy() bool {
	if h, ok := p.publisher.(interface{ Healthy() bool }); ok {
		return h.Healthy()
	}
	return true
}

// PublishSigninEvent 实现 controller.EventPublisher
func (p *SigninEventPublisher) PublishSigninEvent(ctx context.Context, event controller.SigninEvent) error {
	return p.publisher.PublishJSON(ctx, p.subject, event)
}
