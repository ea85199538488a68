package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultPoolSize = 10

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
type PostgresStore struct {
	pool       *pgxpool.Pool
	now        func() time.Time
	purgeBatch int
}

// PostgresOption configures a PostgresStore.
type PostgresOption func(*PostgresStore)

// WithPurgeBatch overrides the number of rows deleted per purge.
func WithPurgeBatch(n int) PostgresOption {
	return func(s *PostgresStore) {
		if n > 0 {
			s.purgeBatch = n
		}
	}
}

// WithNow overrides the clock used to compute expiry.
func WithNow(now func() time.Time) PostgresOption {
	return func(s *PostgresStore) {
		s.now = now
	}
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(
	ctx context.Context,
	connString string,
	opts ...PostgresOption,
) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	s := &PostgresStore{
		pool:       pool,
		now:        time.Now,
		purgeBatch: DefaultPurgeBatch,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

const getCacheSQL = `SELECT payload FROM search_cache
WHERE cache_key = @key AND expires_at > @now`

// Get implements cache.Cache.Get. Expired rows read as misses.
func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx, getCacheSQL, pgx.NamedArgs{
		"key": key,
		"now": s.now().UTC(),
	}).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache key %q: %w", key, err)
	}
	return payload, true, nil
}

const setCacheSQL = `INSERT INTO search_cache (cache_key, payload, expires_at, updated_at)
VALUES (@key, @payload, @expires_at, now())
ON CONFLICT (cache_key) DO UPDATE SET
	payload = EXCLUDED.payload,
	expires_at = EXCLUDED.expires_at,
	updated_at = now()`

// Set implements cache.Cache.Set.
func (s *PostgresStore) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if _, err := s.pool.Exec(ctx, setCacheSQL, pgx.NamedArgs{
		"key":        key,
		"payload":    val,
		"expires_at": expiresAt(s.now(), ttl),
	}); err != nil {
		return fmt.Errorf("writing cache key %q: %w", key, err)
	}
	return nil
}

const purgeCacheSQL = `DELETE FROM search_cache
WHERE cache_key IN (
	SELECT cache_key FROM search_cache
	WHERE expires_at <= @now
	LIMIT @batch
)`

// PurgeExpired implements Store.PurgeExpired.
func (s *PostgresStore) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, purgeCacheSQL, pgx.NamedArgs{
		"now":   s.now().UTC(),
		"batch": s.purgeBatch,
	})
	if err != nil {
		return 0, fmt.Errorf("purging expired cache rows: %w", err)
	}
	return tag.RowsAffected(), nil
}
