package service

import (
	"context"
	"time"
)

// RateLimiter enforces a request quota per key over a window. Allow reports
// whether the request may proceed; when it may not, retryAfter tells the
// caller how long to wait. Passing now keeps fixed-window math testable.
type RateLimiter interface {
	Allow(ctx context.Context, key string, now time.Time) (allowed bool, retryAfter time.Duration, err error)
}
