package adapter

import (
	"context"
	"time"

	"tsu-signin/internal/pkg/redis"
	"tsu-signin/internal/pkg/xerrors"
)

const sessionKeyPrefix = "signin:session:"

// SessionRecorder 记录已签发的访问令牌，key 的过期时间与令牌一致
type SessionRecorder interface {
	Record(ctx context.Context, tokenID, userID string, ttl time.Duration) error
}

// RedisSessionRecorder 会话记录在 signin:session:<jti>，值为用户 ID
type RedisSessionRecorder struct {
	client *redis.Client
}

// NewRedisSessionRecorder 创建会话记录器
func NewRedisSessionRecorder(client *redis.Client) *RedisSessionRecorder {
	return &RedisSessionRecorder{client: client}
}

// Record 写入会话
func (r *RedisSessionRecorder) Record(ctx context.Context, tokenID, userID string, ttl time.Duration) error {
	key := sessionKeyPrefix + tokenID
	if err := r.client.SetWithTTL(ctx, key, userID, ttl); err != nil {
		return xerrors.NewCacheError("set", key, err)
	}
	return nil
}
