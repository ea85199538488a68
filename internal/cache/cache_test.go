package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/catalog-search/internal/cache"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestMemory_GetSet(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := cache.NewMemory(cache.WithClock(clock.Now))
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "shirt")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "shirt", []byte(`["p1"]`), time.Minute))

	got, ok, err := c.Get(ctx, "shirt")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte(`["p1"]`), got)

	got[0] = 'x'
	again, _, _ := c.Get(ctx, "shirt")
	assert.Equal(t, []byte(`["p1"]`), again, "returned slice must be a copy")

	clock.Advance(time.Minute)
	_, ok, err = c.Get(ctx, "shirt")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestMemory_NonPositiveTTL(t *testing.T) {
	t.Parallel()

	c := cache.NewMemory()
	require.NoError(t, c.Set(context.Background(), "k", []byte("v"), 0))
	assert.Equal(t, 0, c.Len())
}

func TestMemory_PurgeExpired(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := cache.NewMemory(cache.WithClock(clock.Now))
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", []byte("a"), time.Second))
	require.NoError(t, c.Set(ctx, "long", []byte("b"), time.Hour))

	clock.Advance(2 * time.Second)
	n, err := c.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 1, c.Len())
}

func TestNoop(t *testing.T) {
	t.Parallel()

	var c cache.Cache = cache.Noop{}
	require.NoError(t, c.Set(context.Background(), "k", []byte("v"), time.Hour))
	_, ok, err := c.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
}
