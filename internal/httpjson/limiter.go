package httpjson

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// Limiter throttles calls to a single upstream with a token bucket.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a limiter allowing perSecond calls with the given burst.
// A non-positive perSecond disables throttling.
func NewLimiter(perSecond float64, burst int) *Limiter {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{limiter: rate.NewLimiter(limit, burst)}
}

// Wait blocks until a call is allowed or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}
	return nil
}
