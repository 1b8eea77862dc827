package security

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 测试用最小参数，避免默认 64MB 拖慢测试
func testHasher(t *testing.T) *Hasher {
	t.Helper()
	h, err := NewHasher(HasherConfig{Memory: 8 * 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	require.NoError(t, err)
	return h
}

func TestHasher_HashAndVerify(t *testing.T) {
	h := testHasher(t)

	encoded, err := h.Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m=8192,t=1,p=1$"))

	ok, err := h.Verify("correct horse battery staple", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("wrong password", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasher_SaltIsRandom(t *testing.T) {
	h := testHasher(t)

	a, err := h.Hash("same password")
	require.NoError(t, err)
	b, err := h.Hash("same password")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestHasher_VerifyRejectsMalformedHash(t *testing.T) {
	h := testHasher(t)
	valid, err := h.Hash("password")
	require.NoError(t, err)
	parts := strings.Split(valid, "$")

	tests := map[string]string{
		"空字符串":    "",
		"bcrypt":  "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		"版本错误":    strings.Join([]string{"", parts[1], "v=16", parts[3], parts[4], parts[5]}, "$"),
		"缺少参数":    strings.Join([]string{"", parts[1], parts[2], "m=8192,t=1", parts[4], parts[5]}, "$"),
		"内存过低":    strings.Join([]string{"", parts[1], parts[2], "m=1,t=1,p=1", parts[4], parts[5]}, "$"),
		"salt 太短": strings.Join([]string{"", parts[1], parts[2], parts[3], "c2FsdA", parts[5]}, "$"),
		"key 非法":  strings.Join([]string{"", parts[1], parts[2], parts[3], parts[4], "!!!"}, "$"),
	}

	for name, encoded := range tests {
		t.Run(name, func(t *testing.T) {
			ok, err := h.Verify("password", encoded)
			assert.ErrorIs(t, err, ErrInvalidHash)
			assert.False(t, ok)
		})
	}
}

func TestNewHasher_RejectsWeakParameters(t *testing.T) {
	_, err := NewHasher(HasherConfig{Memory: 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	assert.Error(t, err)

	_, err = NewHasher(HasherConfig{Memory: 8 * 1024, Time: 1, Parallelism: 1, SaltLength: 8, KeyLength: 32})
	assert.Error(t, err)

	_, err = NewHasher(DefaultHasherConfig())
	assert.NoError(t, err)
}

func testIssuer(t *testing.T) *TokenIssuer {
	t.Helper()
	issuer, err := NewTokenIssuer(TokenConfig{
		Secret: []byte("0123456789abcdef0123456789abcdef"),
		Issuer: "tsu-signin",
		TTL:    15 * time.Minute,
	})
	require.NoError(t, err)
	return issuer
}

func TestTokenIssuer_IssueAndParse(t *testing.T) {
	issuer := testIssuer(t)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	issuer.now = func() time.Time { return fixed }

	issued, err := issuer.Issue("user-42")
	require.NoError(t, err)
	assert.NotEmpty(t, issued.Token)
	assert.NotEmpty(t, issued.ID)
	assert.Equal(t, fixed.Add(15*time.Minute), issued.ExpiresAt)

	claims, err := issuer.Parse(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.Subject)
	assert.Equal(t, "tsu-signin", claims.Issuer)
	assert.Equal(t, issued.ID, claims.ID)
}

func TestTokenIssuer_UniqueTokenIDs(t *testing.T) {
	issuer := testIssuer(t)

	a, err := issuer.Issue("user-42")
	require.NoError(t, err)
	b, err := issuer.Issue("user-42")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEqual(t, a.Token, b.Token)
}

func TestTokenIssuer_ParseRejects(t *testing.T) {
	issuer := testIssuer(t)
	issued, err := issuer.Issue("user-42")
	require.NoError(t, err)

	t.Run("过期", func(t *testing.T) {
		issuer.now = func() time.Time { return time.Now().Add(time.Hour) }
		defer func() { issuer.now = time.Now }()

		_, err := issuer.Parse(issued.Token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("其他密钥签发", func(t *testing.T) {
		other, err := NewTokenIssuer(TokenConfig{
			Secret: []byte("ffffffffffffffffffffffffffffffff"),
			Issuer: "tsu-signin",
			TTL:    time.Minute,
		})
		require.NoError(t, err)
		forged, err := other.Issue("user-42")
		require.NoError(t, err)

		_, err = issuer.Parse(forged.Token)
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("签发方不同", func(t *testing.T) {
		other, err := NewTokenIssuer(TokenConfig{
			Secret: []byte("0123456789abcdef0123456789abcdef"),
			Issuer: "someone-else",
			TTL:    time.Minute,
		})
		require.NoError(t, err)
		foreign, err := other.Issue("user-42")
		require.NoError(t, err)

		_, err = issuer.Parse(foreign.Token)
		assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
	})
}

func TestNewTokenIssuer_Validation(t *testing.T) {
	_, err := NewTokenIssuer(TokenConfig{Secret: []byte("short"), TTL: time.Minute})
	assert.Error(t, err)

	_, err = NewTokenIssuer(TokenConfig{Secret: []byte("0123456789abcdef0123456789abcdef")})
	assert.Error(t, err)

	_, err = testIssuer(t).Issue("")
	assert.Error(t, err)
}

func TestHeadersMiddleware(t *testing.T) {
	e := echo.New()
	for _, m := range HeadersMiddleware(DefaultHeadersConfig()) {
		e.Use(m)
	}
	e.POST("/auth/signin", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/signin", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}
