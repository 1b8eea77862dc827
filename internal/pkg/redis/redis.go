package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tsu-signin/internal/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

// backend 指标中的后端标签
const backend = "redis"

// Nil key 不存在
var Nil = redis.Nil

// Config Redis 配置
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Client Redis 客户端封装，每个操作都记录存储指标
type Client struct {
	*redis.Client
	metrics *metrics.StoreMetrics
}

// NewClient 创建 Redis 客户端并测试连接
func NewClient(cfg Config, m *metrics.StoreMetrics) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	return NewFromClient(rdb, m), nil
}

// NewFromClient 包装已有的 go-redis 客户端（测试中配合 miniredis 使用）
func NewFromClient(rdb *redis.Client, m *metrics.StoreMetrics) *Client {
	if m == nil {
		m = metrics.DefaultStoreMetrics()
	}
	return &Client{Client: rdb, metrics: m}
}

// SetWithTTL 设置键值对，带过期时间
func (c *Client) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	start := time.Now()
	err := c.Set(ctx, key, value, ttl).Err()
	c.record("set", err, false, time.Since(start))
	return err
}

// HGetAll 读取整个 hash，key 不存在时返回 Nil
func (c *Client) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	start := time.Now()
	fields, err := c.Client.HGetAll(ctx, key).Result()
	if err == nil && len(fields) == 0 {
		err = Nil
	}
	c.record("hgetall", err, errors.Is(err, Nil), time.Since(start))
	return fields, err
}

// HSetFields 写入 hash 字段
func (c *Client) HSetFields(ctx context.Context, key string, fields map[string]string) error {
	values := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		values = append(values, k, v)
	}

	start := time.Now()
	err := c.HSet(ctx, key, values...).Err()
	c.record("hset", err, false, time.Since(start))
	return err
}

// DeleteKey 删除键
func (c *Client) DeleteKey(ctx context.Context, keys ...string) error {
	start := time.Now()
	err := c.Del(ctx, keys...).Err()
	c.record("del", err, false, time.Since(start))
	return err
}

func (c *Client) record(operation string, err error, miss bool, duration time.Duration) {
	result := "success"
	switch {
	case miss:
		result = "miss"
	case err != nil:
		result = "error"
	}
	c.metrics.RecordOperation(backend, operation, result, duration)
}
