package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tsu-signin/internal/pkg/log"
	"tsu-signin/internal/pkg/security"
	"tsu-signin/internal/pkg/xerrors"
)

// dummyPassword 只用于生成占位哈希，永远不会匹配任何账号
const dummyPassword = "signin-placeholder-credential"

// PasswordHasher 生成密码哈希并校验密码与存储的哈希是否匹配
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
}

// TokenIssuer 为用户签发访问令牌
type TokenIssuer interface {
	Issue(userID string) (security.IssuedToken, error)
	TTL() time.Duration
}

// CredentialAuthenticator 实现 domain.Authenticator：
// 查凭据、校验 argon2id 哈希、签发 JWT、在 Redis 中记录会话。
// 邮箱不存在或密码错误都返回空令牌，调用方无法区分两者；
// 邮箱不存在时也对占位哈希做一次完整校验，两条路径耗时一致。
type CredentialAuthenticator struct {
	store     CredentialStore
	hasher    PasswordHasher
	issuer    TokenIssuer
	sessions  SessionRecorder
	logger    log.Logger
	dummyHash string
}

// NewCredentialAuthenticator 创建认证器。sessions 可以为 nil，表示不记录会话
func NewCredentialAuthenticator(store CredentialStore, hasher PasswordHasher, issuer TokenIssuer, sessions SessionRecorder, logger log.Logger) (*CredentialAuthenticator, error) {
	if store == nil || hasher == nil || issuer == nil {
		return nil, errors.New("credential authenticator: store, hasher and issuer are required")
	}
	if logger == nil {
		logger = log.GetLogger()
	}

	// 占位哈希与真实凭据使用同一组 argon2 参数
	dummyHash, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("credential authenticator: hash placeholder: %w", err)
	}

	return &CredentialAuthenticator{
		store:     store,
		hasher:    hasher,
		issuer:    issuer,
		sessions:  sessions,
		logger:    logger.With("component", "credential_authenticator"),
		dummyHash: dummyHash,
	}, nil
}

// Auth 凭据匹配时返回访问令牌，不匹配返回 ""，校验过程失败返回 error
func (a *CredentialAuthenticator) Auth(ctx context.Context, email, password string) (string, error) {
	cred, err := a.store.FindByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, ErrCredentialNotFound) {
		// 结果丢弃，只为让耗时与密码错误的路径一致
		_, _ = a.hasher.Verify(password, a.dummyHash)
		a.rejected(ctx, "credential_not_found", "")
		return "", nil
	}
	if err != nil {
		return "", xerrors.Wrap(err, xerrors.CodeInternalError, "find credential")
	}

	// argon2 计算开销大，请求已取消就不再继续
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ok, err := a.hasher.Verify(password, cred.PasswordHash)
	if err != nil {
		return "", xerrors.Wrap(err, xerrors.CodeInternalError, "verify password")
	}
	if !ok {
		a.rejected(ctx, "password_mismatch", cred.UserID)
		return "", nil
	}

	issued, err := a.issuer.Issue(cred.UserID)
	if err != nil {
		return "", xerrors.Wrap(err, xerrors.CodeInternalError, "issue token")
	}

	if a.sessions != nil {
		if err := a.sessions.Record(ctx, issued.ID, cred.UserID, a.issuer.TTL()); err != nil {
			return "", xerrors.Wrap(err, xerrors.CodeCacheError, "record session")
		}
	}

	a.logger.InfoContext(ctx, "登录成功", log.String("user_id", cred.UserID), log.String("token_id", issued.ID))
	return issued.Token, nil
}

func (a *CredentialAuthenticator) rejected(ctx context.Context, reason, userID string) {
	appErr := xerrors.FromCode(xerrors.CodeInvalidCredentials).
		WithService("signin", "auth").
		WithMetadata("reason", reason)
	if userID != "" {
		appErr.WithMetadata("user_id", userID)
	}
	log.LogAppError(ctx, a.logger, "登录失败", appErr)
}
