// Package ratelimit holds the Redis sliding-window limiter used by the HTTP
// rate limit middleware.
package ratelimit

import (
	"context"
	"time"
)

// Limits caps requests per window. A zero field disables that window.
type Limits struct {
	RequestsPerMinute int
	RequestsPerHour   int
	RequestsPerDay    int
}

// Enabled reports whether any window is capped.
func (l Limits) Enabled() bool {
	return l.RequestsPerMinute > 0 || l.RequestsPerHour > 0 || l.RequestsPerDay > 0
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, limits Limits) (bool, error)
	// Used returns the requests counted for key in the trailing window.
	Used(ctx context.Context, key string, window time.Duration) (int64, error)
	Reset(ctx context.Context, key string) error
}
