package adapter

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"tsu-signin/internal/pkg/metrics"
	"tsu-signin/internal/pkg/xerrors"

	_ "github.com/lib/pq" // postgres 驱动
)

const findCredentialQuery = `SELECT user_id, password_hash FROM auth.user_credentials WHERE email = $1`

// PostgresCredentialStore 从 auth.user_credentials 表读取凭据
type PostgresCredentialStore struct {
	db      *sql.DB
	metrics *metrics.StoreMetrics
}

// OpenPostgres 打开连接池并测试连接
func OpenPostgres(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, xerrors.NewDatabaseError("open", "auth.user_credentials", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, xerrors.NewDatabaseError("ping", "auth.user_credentials", err)
	}
	return db, nil
}

// NewPostgresCredentialStore 创建基于 Postgres 的凭据存储
func NewPostgresCredentialStore(db *sql.DB, m *metrics.StoreMetrics) *PostgresCredentialStore {
	if m == nil {
		m = metrics.DefaultStoreMetrics()
	}
	return &PostgresCredentialStore{db: db, metrics: m}
}

// FindByEmail 查找凭据
func (s *PostgresCredentialStore) FindByEmail(ctx context.Context, email string) (Credential, error) {
	start := time.Now()

	var cred Credential
	err := s.db.QueryRowContext(ctx, findCredentialQuery, NormalizeEmail(email)).Scan(&cred.UserID, &cred.PasswordHash)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.metrics.RecordOperation("postgres", "find", "miss", time.Since(start))
		return Credential{}, ErrCredentialNotFound
	case err != nil:
		s.metrics.RecordOperation("postgres", "find", "error", time.Since(start))
		return Credential{}, xerrors.NewDatabaseError("select", "auth.user_credentials", err)
	}

	s.metrics.RecordOperation("postgres", "find", "success", time.Since(start))
	return cred, nil
}
