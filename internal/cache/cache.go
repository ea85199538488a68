// Package cache defines the key/value cache the collectors memoize upstream
// id lists through. Implementations must be safe for concurrent use.
package cache

import (
	"context"
	"sync"
	"time"
)

// Cache stores opaque byte values under string keys with a TTL.
type Cache interface {
	// Get returns the value for key. The bool is false on a miss or when the
	// entry has expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores val under key. A non-positive ttl stores nothing.
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

type entry struct {
	val       []byte
	expiresAt time.Time
}

// Memory is an in-process Cache. Expired entries are dropped lazily on read
// and by PurgeExpired.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// MemoryOption configures a Memory cache.
type MemoryOption func(*Memory)

// WithClock overrides the time source.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		m.now = now
	}
}

// NewMemory creates an empty in-process cache.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		entries: make(map[string]entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get implements Cache.Get.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !m.now().Before(e.expiresAt) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return append([]byte(nil), e.val...), true, nil
}

// Set implements Cache.Set.
func (m *Memory) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = entry{
		val:       append([]byte(nil), val...),
		expiresAt: m.now().Add(ttl),
	}
	return nil
}

// PurgeExpired removes expired entries and returns how many were dropped.
func (m *Memory) PurgeExpired(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var n int64
	for k, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, k)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored entries, expired or not.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Noop is a Cache that never stores anything.
type Noop struct{}

// Get always misses.
func (Noop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set discards the value.
func (Noop) Set(context.Context, string, []byte, time.Duration) error { return nil }
