package config

import (
	"fmt"
	"time"

	"tsu-signin/internal/pkg/validator"
)

// 凭据存储后端
const (
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Config 登录服务配置，全部来自环境变量
type Config struct {
	HTTPAddr        string        `validate:"required"`
	Environment     string        `validate:"required"`
	LogLevel        string        `validate:"omitempty,oneof=debug info warn warning error"`
	AuthTimeout     time.Duration `validate:"gte=0"`
	CredentialStore string        `validate:"oneof=redis postgres"`

	Redis    RedisConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Events   EventsConfig
}

// RedisConfig Redis 连接配置，会话记录和 redis 凭据存储都使用它
type RedisConfig struct {
	Host     string `validate:"required"`
	Port     int    `validate:"gt=0,lte=65535"`
	Password string
	DB       int `validate:"gte=0"`
}

// DatabaseConfig 只有 CredentialStore == postgres 时需要
type DatabaseConfig struct {
	URL string
}

// JWTConfig 访问令牌签发配置
type JWTConfig struct {
	Secret string        `validate:"required,min=32"`
	Issuer string        `validate:"required"`
	TTL    time.Duration `validate:"gt=0"`
}

// EventsConfig 登录事件发布配置，NATSURL 为空时不发布
type EventsConfig struct {
	NATSURL string
	Subject string `validate:"required"`
}

// Load 从环境变量加载配置并校验
func Load() (*Config, error) {
	var env envParser
	cfg := &Config{
		HTTPAddr:        GetEnvOrDefault("SIGNIN_HTTP_ADDR", ":8090"),
		Environment:     GetEnvOrDefault("SIGNIN_ENV", "development"),
		LogLevel:        GetEnvOrDefault("SIGNIN_LOG_LEVEL", "info"),
		AuthTimeout:     env.getDuration("SIGNIN_AUTH_TIMEOUT", 5*time.Second),
		CredentialStore: GetEnvOrDefault("SIGNIN_CREDENTIAL_STORE", StoreRedis),
		Redis: RedisConfig{
			Host:     GetEnvOrDefault("REDIS_HOST", "localhost"),
			Port:     env.getInt("REDIS_PORT", 6379),
			Password: GetEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       env.getInt("REDIS_DB", 0),
		},
		Database: DatabaseConfig{
			URL: GetEnvOrDefault("DATABASE_URL", ""),
		},
		JWT: JWTConfig{
			Secret: GetEnvOrDefault("JWT_SECRET", ""),
			Issuer: GetEnvOrDefault("JWT_ISSUER", "tsu-signin"),
			TTL:    env.getDuration("JWT_TTL", 15*time.Minute),
		},
		Events: EventsConfig{
			NATSURL: GetEnvOrDefault("NATS_URL", ""),
			Subject: GetEnvOrDefault("SIGNIN_EVENT_SUBJECT", "signin.events"),
		},
	}

	if err := env.err(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验字段规则以及字段之间的依赖
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.CredentialStore == StorePostgres && c.Database.URL == "" {
		return fmt.Errorf("invalid config: DATABASE_URL is required when SIGNIN_CREDENTIAL_STORE=%s", StorePostgres)
	}
	return nil
}

// LogFields 返回可以安全写入日志的配置摘要
func (c *Config) LogFields() map[string]any {
	return SanitizeConfigForLog(map[string]any{
		"http_addr":        c.HTTPAddr,
		"environment":      c.Environment,
		"log_level":        c.LogLevel,
		"auth_timeout":     c.AuthTimeout.String(),
		"credential_store": c.CredentialStore,
		"redis_addr":       fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port),
		"redis_db":         c.Redis.DB,
		"redis_password":   c.Redis.Password,
		"database_url":     c.Database.URL,
		"jwt_secret":       c.JWT.Secret,
		"jwt_issuer":       c.JWT.Issuer,
		"jwt_ttl":          c.JWT.TTL.String(),
		"nats_url":         c.Events.NATSURL,
		"event_subject":    c.Events.Subject,
	})
}
