// Package store holds the PostgreSQL-backed shared cache. Several
// catalog-search replicas pointed at the same database reuse each other's
// collected id lists.
package store

import (
	"context"
	"time"

	"github.com/donaldgifford/catalog-search/internal/cache"
)

// Store is the persistent cache contract used by the server and scheduler.
type Store interface {
	cache.Cache

	// PurgeExpired deletes expired rows and returns how many were removed.
	PurgeExpired(ctx context.Context) (int64, error)

	// Migrations
	Migrate(ctx context.Context) error

	// Health
	Ping(ctx context.Context) error
}

// DefaultPurgeBatch bounds the rows removed per PurgeExpired call.
const DefaultPurgeBatch = 5000

// expiresAt returns the absolute expiry for a ttl relative to now.
func expiresAt(now time.Time, ttl time.Duration) time.Time {
	return now.Add(ttl).UTC()
}
