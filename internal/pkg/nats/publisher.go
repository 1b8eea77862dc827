package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tsu-signin/internal/pkg/xerrors"

	"github.com/nats-io/nats.go"
)

// Conn Publisher 用到的连接能力，*nats.Conn 满足该接口
type Conn interface {
	Publish(subject string, data []byte) error
	IsConnected() bool
	IsClosed() bool
}

// Connect 连接 NATS，断线后自动重连
func Connect(url, name string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(10000),
		nats.ReconnectWait(2*time.Second),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, xerrors.NewExternalServiceError("nats", err)
	}
	return nc, nil
}

// Publisher 以 JSON 发布事件
type Publisher struct {
	conn Conn
}

// NewPublisher 创建 Publisher，conn 为 nil 时所有发布静默降级为空操作
func NewPublisher(conn Conn) *Publisher {
	return &Publisher{conn: conn}
}

// PublishJSON 序列化 payload 并发布到 subject
func (p *Publisher) PublishJSON(ctx context.Context, subject string, payload any) error {
	if p == nil || p.conn == nil {
		return nil // 没有连接时静默降级
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event for %s: %w", subject, err)
	}
	if err := p.conn.Publish(subject, data); err != nil {
		return xerrors.NewWithError(xerrors.CodeMessageQueueError, "publish to "+subject, err).
			WithMetadata("subject", subject)
	}
	return nil
}

// Healthy 连接存在且处于已连接状态
func (p *Publisher) Healthy() bool {
	if p == nil || p.conn == nil {
		return false
	}
	return p.conn.IsConnected() && !p.conn.IsClosed()
}
