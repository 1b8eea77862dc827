package adapter

import (
	"context"
	"errors"

	"tsu-signin/internal/pkg/redis"
	"tsu-signin/internal/pkg/xerrors"
)

const (
	credentialKeyPrefix = "signin:credential:"
	fieldUserID         = "user_id"
	fieldPasswordHash   = "password_hash"
)

var errIncompleteCredential = errors.New("credential record is incomplete")

// RedisCredentialStore 凭据保存在 hash signin:credential:<email> 中。
// 错误元数据只记录 key 前缀，不记录邮箱
type RedisCredentialStore struct {
	client *redis.Client
}

// NewRedisCredentialStore 创建基于 Redis 的凭据存储
func NewRedisCredentialStore(client *redis.Client) *RedisCredentialStore {
	return &RedisCredentialStore{client: client}
}

// FindByEmail 查找凭据
func (s *RedisCredentialStore) FindByEmail(ctx context.Context, email string) (Credential, error) {
	key := credentialKey(email)
	fields, err := s.client.HGetAll(ctx, key)
	if errors.Is(err, redis.Nil) {
		return Credential{}, ErrCredentialNotFound
	}
	if err != nil {
		return Credential{}, xerrors.NewCacheError("hgetall", credentialKeyPrefix, err)
	}

	cred := Credential{UserID: fields[fieldUserID], PasswordHash: fields[fieldPasswordHash]}
	if cred.UserID == "" || cred.PasswordHash == "" {
		return Credential{}, xerrors.NewCacheError("hgetall", credentialKeyPrefix, errIncompleteCredential)
	}
	return cred, nil
}

// Put 写入或覆盖凭据，供 credential-seed 工具使用
func (s *RedisCredentialStore) Put(ctx context.Context, email string, cred Credential) error {
	if NormalizeEmail(email) == "" || cred.UserID == "" || cred.PasswordHash == "" {
		return xerrors.New(xerrors.CodeInvalidParam, "email, user id and password hash are required")
	}

	key := credentialKey(email)
	err := s.client.HSetFields(ctx, key, map[string]string{
		fieldUserID:       cred.UserID,
		fieldPasswordHash: cred.PasswordHash,
	})
	if err != nil {
		return xerrors.NewCacheError("hset", credentialKeyPrefix, err)
	}
	return nil
}

// Delete 删除凭据
func (s *RedisCredentialStore) Delete(ctx context.Context, email string) error {
	key := credentialKey(email)
	if err := s.client.DeleteKey(ctx, key); err != nil {
		return xerrors.NewCacheError("del", credentialKeyPrefix, err)
	}
	return nil
}

func credentialKey(email string) string {
	return credentialKeyPrefix + NormalizeEmail(email)
}
