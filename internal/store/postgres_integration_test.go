//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/donaldgifford/catalog-search/internal/store"
)

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time { return c.t }

func setupPostgres(t *testing.T, opts ...store.PostgresOption) *store.PostgresStore {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("cs_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := store.NewPostgresStore(ctx, connStr, opts...)
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
	})

	require.NoError(t, s.Migrate(ctx))

	return s
}

func TestPostgresStore_Ping(t *testing.T) {
	s := setupPostgres(t)
	require.NoError(t, s.Ping(context.Background()))
}

func TestPostgresStore_MigrateIdempotent(t *testing.T) {
	s := setupPostgres(t)
	require.NoError(t, s.Migrate(context.Background()))
}

func TestPostgresStore_GetSet(t *testing.T) {
	clock := &testClock{t: time.Now().UTC()}
	s := setupPostgres(t, store.WithNow(clock.Now))
	ctx := context.Background()

	t.Run("miss", func(t *testing.T) {
		_, ok, err := s.Get(ctx, "search:missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("hit then overwrite", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "search:shirt", []byte(`["p1","p2"]`), time.Minute))
		got, ok, err := s.Get(ctx, "search:shirt")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.JSONEq(t, `["p1","p2"]`, string(got))

		require.NoError(t, s.Set(ctx, "search:shirt", []byte(`["p3"]`), time.Minute))
		got, _, err = s.Get(ctx, "search:shirt")
		require.NoError(t, err)
		assert.JSONEq(t, `["p3"]`, string(got))
	})

	t.Run("zero ttl stores nothing", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "search:none", []byte(`[]`), 0))
		_, ok, err := s.Get(ctx, "search:none")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestPostgresStore_PurgeExpired(t *testing.T) {
	clock := &testClock{t: time.Now().UTC()}
	s := setupPostgres(t, store.WithNow(clock.Now), store.WithPurgeBatch(1))
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", []byte(`[]`), time.Second))
	require.NoError(t, s.Set(ctx, "b", []byte(`[]`), time.Second))
	require.NoError(t, s.Set(ctx, "c", []byte(`[]`), time.Hour))

	clock.t = clock.t.Add(time.Minute)

	_, ok, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok, "expired rows read as misses")

	n, err := s.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = s.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = s.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	_, ok, err = s.Get(ctx, "c")
	require.NoError(t, err)
	assert.True(t, ok)
}
