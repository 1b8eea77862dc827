package adapter

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"tsu-signin/internal/pkg/log"
	"tsu-signin/internal/pkg/metrics"
	"tsu-signin/internal/pkg/redis"
	"tsu-signin/internal/pkg/security"
	"tsu-signin/internal/pkg/xerrors"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "correct horse battery staple"

type fixture struct {
	mr       *miniredis.Miniredis
	client   *redis.Client
	store    *RedisCredentialStore
	hasher   *security.Hasher
	issuer   *security.TokenIssuer
	sessions *RedisSessionRecorder
	auth     *CredentialAuthenticator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	client := redis.NewFromClient(rdb, metrics.NewStoreMetricsWithRegistry("test", prometheus.NewRegistry()))

	hasher, err := security.NewHasher(security.HasherConfig{Memory: 8 * 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	require.NoError(t, err)
	issuer, err := security.NewTokenIssuer(security.TokenConfig{
		Secret: []byte("0123456789abcdef0123456789abcdef"),
		Issuer: "tsu-signin",
		TTL:    15 * time.Minute,
	})
	require.NoError(t, err)

	f := &fixture{
		mr:       mr,
		client:   client,
		store:    NewRedisCredentialStore(client),
		hasher:   hasher,
		issuer:   issuer,
		sessions: NewRedisSessionRecorder(client),
	}
	f.auth, err = NewCredentialAuthenticator(f.store, hasher, issuer, f.sessions, log.Discard())
	require.NoError(t, err)
	return f
}

func (f *fixture) seed(t *testing.T, email, userID, password string) {
	t.Helper()
	hash, err := f.hasher.Hash(password)
	require.NoError(t, err)
	require.NoError(t, f.store.Put(context.Background(), email, Credential{UserID: userID, PasswordHash: hash}))
}

func TestCredentialAuthenticator_ValidCredentials(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "player@tsu.dev", "user-1", testPassword)

	token, err := f.auth.Auth(context.Background(), "player@tsu.dev", testPassword)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := f.issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)

	userID, err := f.mr.Get(sessionKeyPrefix + claims.ID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, 15*time.Minute, f.mr.TTL(sessionKeyPrefix+claims.ID))
}

func TestCredentialAuthenticator_EmailIsCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "Player@TSU.dev", "user-1", testPassword)

	token, err := f.auth.Auth(context.Background(), "  player@tsu.DEV ", testPassword)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestCredentialAuthenticator_RejectsWithEmptyToken(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "player@tsu.dev", "user-1", testPassword)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "密码错误", email: "player@tsu.dev", password: "wrong password"},
		{name: "邮箱不存在", email: "nobody@tsu.dev", password: testPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := f.auth.Auth(context.Background(), tt.email, tt.password)
			require.NoError(t, err)
			assert.Empty(t, token)
		})
	}

	for _, key := range f.mr.Keys() {
		assert.NotContains(t, key, sessionKeyPrefix, "失败的登录不应写入会话")
	}
}

func TestCredentialAuthenticator_Failures(t *testing.T) {
	t.Run("Redis 不可用", func(t *testing.T) {
		f := newFixture(t)
		f.mr.SetError("server down")

		token, err := f.auth.Auth(context.Background(), "player@tsu.dev", testPassword)
		require.Error(t, err)
		assert.Empty(t, token)
		assert.Equal(t, xerrors.CodeCacheError, xerrors.CodeOf(err))
	})

	t.Run("存储的哈希损坏", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.store.Put(context.Background(), "player@tsu.dev", Credential{UserID: "user-1", PasswordHash: "plaintext"}))

		_, err := f.auth.Auth(context.Background(), "player@tsu.dev", testPassword)
		assert.ErrorIs(t, err, security.ErrInvalidHash)
	})

	t.Run("请求已取消", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t, "player@tsu.dev", "user-1", testPassword)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := f.auth.Auth(ctx, "player@tsu.dev", testPassword)
		assert.Error(t, err)
	})

	t.Run("会话写入失败", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t, "player@tsu.dev", "user-1", testPassword)
		auth, err := NewCredentialAuthenticator(f.store, f.hasher, f.issuer, failingSessions{}, log.Discard())
		require.NoError(t, err)

		token, err := auth.Auth(context.Background(), "player@tsu.dev", testPassword)
		require.Error(t, err)
		assert.Empty(t, token)
		assert.Equal(t, xerrors.CodeCacheError, xerrors.CodeOf(err))
	})
}

// countingHasher 记录每次 Verify 收到的哈希
type countingHasher struct {
	*security.Hasher
	mu       sync.Mutex
	verified []string
}

func (h *countingHasher) Verify(password, encodedHash string) (bool, error) {
	h.mu.Lock()
	h.verified = append(h.verified, encodedHash)
	h.mu.Unlock()
	return h.Hasher.Verify(password, encodedHash)
}

func TestCredentialAuthenticator_UnknownEmailStillVerifies(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "player@tsu.dev", "user-1", testPassword)
	hasher := &countingHasher{Hasher: f.hasher}
	auth, err := NewCredentialAuthenticator(f.store, hasher, f.issuer, f.sessions, log.Discard())
	require.NoError(t, err)

	token, err := auth.Auth(context.Background(), "nobody@tsu.dev", testPassword)
	require.NoError(t, err)
	assert.Empty(t, token)
	require.Len(t, hasher.verified, 1)
	assert.Equal(t, auth.dummyHash, hasher.verified[0])
	assert.True(t, strings.HasPrefix(auth.dummyHash, "$argon2id$v=19$m=8192,t=1,p=1$"), "占位哈希应使用相同参数")

	// 已知邮箱同样只校验一次，校验的是存储的哈希
	token, err = auth.Auth(context.Background(), "player@tsu.dev", "wrong password")
	require.NoError(t, err)
	assert.Empty(t, token)
	require.Len(t, hasher.verified, 2)
	assert.NotEqual(t, auth.dummyHash, hasher.verified[1])

	ok, err := f.hasher.Verify(testPassword, auth.dummyHash)
	require.NoError(t, err)
	assert.False(t, ok)
}

type failingHasher struct{ *security.Hasher }

func (failingHasher) Hash(string) (string, error) {
	return "", errors.New("entropy unavailable")
}

type failingSessions struct{}

func (failingSessions) Record(context.Context, string, string, time.Duration) error {
	return errors.New("session store unavailable")
}

func TestNewCredentialAuthenticator_RequiresDependencies(t *testing.T) {
	f := newFixture(t)

	_, err := NewCredentialAuthenticator(nil, f.hasher, f.issuer, nil, nil)
	assert.Error(t, err)
	_, err = NewCredentialAuthenticator(f.store, nil, f.issuer, nil, nil)
	assert.Error(t, err)
	_, err = NewCredentialAuthenticator(f.store, f.hasher, nil, nil, nil)
	assert.Error(t, err)
	_, err = NewCredentialAuthenticator(f.store, failingHasher{f.hasher}, f.issuer, nil, nil)
	assert.ErrorContains(t, err, "hash placeholder")

	auth, err := NewCredentialAuthenticator(f.store, f.hasher, f.issuer, nil, nil)
	require.NoError(t, err)
	f.seed(t, "player@tsu.dev", "user-1", testPassword)
	token, err := auth.Auth(context.Background(), "player@tsu.dev", testPassword)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestRedisCredentialStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Put(ctx, "Player@tsu.dev", Credential{UserID: "user-1", PasswordHash: "hash"}))
	assert.Equal(t, "user-1", f.mr.HGet("signin:credential:player@tsu.dev", "user_id"))
	assert.Equal(t, "hash", f.mr.HGet("signin:credential:player@tsu.dev", "password_hash"))

	cred, err := f.store.FindByEmail(ctx, "player@tsu.dev")
	require.NoError(t, err)
	assert.Equal(t, Credential{UserID: "user-1", PasswordHash: "hash"}, cred)

	require.NoError(t, f.store.Delete(ctx, "player@tsu.dev"))
	_, err = f.store.FindByEmail(ctx, "player@tsu.dev")
	assert.ErrorIs(t, err, ErrCredentialNotFound)
}

func TestRedisCredentialStore_IncompleteRecord(t *testing.T) {
	f := newFixture(t)
	f.mr.HSet("signin:credential:player@tsu.dev", "user_id", "user-1")

	_, err := f.store.FindByEmail(context.Background(), "player@tsu.dev")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCredentialNotFound)
}

func TestRedisCredentialStore_PutValidates(t *testing.T) {
	f := newFixture(t)

	err := f.store.Put(context.Background(), " ", Credential{UserID: "user-1", PasswordHash: "hash"})
	assert.Equal(t, xerrors.CodeInvalidParam, xerrors.CodeOf(err))

	err = f.store.Put(context.Background(), "player@tsu.dev", Credential{UserID: "user-1"})
	assert.Equal(t, xerrors.CodeInvalidParam, xerrors.CodeOf(err))
}
