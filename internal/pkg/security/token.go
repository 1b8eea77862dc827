package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// minSecretBytes HS256 密钥下限
const minSecretBytes = 32

// TokenConfig 访问令牌配置
type TokenConfig struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

// AccessClaims 访问令牌的 claims，sub 为用户 ID，jti 为会话 ID
type AccessClaims struct {
	jwt.RegisteredClaims
}

// IssuedToken 签发结果
type IssuedToken struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

// TokenIssuer 签发 HS256 访问令牌
type TokenIssuer struct {
	config TokenConfig
	now    func() time.Time
}

// NewTokenIssuer 创建 TokenIssuer
func NewTokenIssuer(cfg TokenConfig) (*TokenIssuer, error) {
	if len(cfg.Secret) < minSecretBytes {
		return nil, fmt.Errorf("security: jwt secret must be at least %d bytes", minSecretBytes)
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("security: jwt ttl must be positive")
	}
	return &TokenIssuer{config: cfg, now: time.Now}, nil
}

// TTL 令牌有效期
func (i *TokenIssuer) TTL() time.Duration {
	return i.config.TTL
}

// Issue 为用户签发访问令牌
func (i *TokenIssuer) Issue(userID string) (IssuedToken, error) {
	if userID == "" {
		return IssuedToken{}, errors.New("security: user id is empty")
	}

	now := i.now()
	expiresAt := now.Add(i.config.TTL)
	jti := uuid.NewString()

	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    i.config.Issuer,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.config.Secret)
	if err != nil {
		return IssuedToken{}, fmt.Errorf("security: sign token: %w", err)
	}

	return IssuedToken{Token: signed, ID: jti, ExpiresAt: expiresAt}, nil
}

// Parse 校验签名、签发方和有效期，返回 claims
func (i *TokenIssuer) Parse(token string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return i.config.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.config.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
