// Package rate provides fixed-window rate limiters with in-memory and
// Redis backings.
package rate

import (
	"context"
	"sync"
	"time"

	"fintrack/internal/domain/service"
)

// MemoryLimiter is a process-local fixed-window limiter. Stale entries are
// trimmed opportunistically on the next Allow after a window has passed.
type MemoryLimiter struct {
	mu           sync.Mutex
	limit        int
	window       time.Duration
	entries      map[string]*entry
	lastCleanup  time.Time
	cleanupEvery time.Duration
}

type entry struct {
	count int
	reset time.Time
}

// NewMemory is the constructor for MemoryLimiter.
func NewMemory(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:        limit,
		window:       window,
		entries:      map[string]*entry{},
		lastCleanup:  time.Now(),
		cleanupEvery: window,
	}
}

// Allow reports whether the key may proceed at time now.
func (l *MemoryLimiter) Allow(_ context.Context, key string, now time.Time) (bool, time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastCleanup) >= l.cleanupEvery {
		for k, v := range l.entries {
			if now.After(v.reset) {
				delete(l.entries, k)
			}
		}
		l.lastCleanup = now
	}

	e, ok := l.entries[key]
	if !ok || now.After(e.reset) {
		l.entries[key] = &entry{count: 1, reset: now.Add(l.window)}
		return true, 0, nil
	}

	if e.count >= l.limit {
		retryAfter := e.reset.Sub(now)
		if retryAfter < 0 {
			retryAfter = 0
		}
		return false, retryAfter, nil
	}

	e.count++
	return true, 0, nil
}

// Multi chains limiters with different windows; a request passes only when
// every limiter allows it. On denial the longest retryAfter wins.
type Multi struct {
	limiters []service.RateLimiter
}

// NewMulti is the constructor for Multi.
func NewMulti(limiters ...service.RateLimiter) *Multi {
	return &Multi{limiters: limiters}
}

// Allow consults every limiter. Each limiter still consumes a slot even when
// an earlier one denies, so the windows stay in step.
func (m *Multi) Allow(ctx context.Context, key string, now time.Time) (bool, time.Duration, error) {
	allowed := true
	var retryAfter time.Duration
	for _, limiter := range m.limiters {
		ok, retry, err := limiter.Allow(ctx, key, now)
		if err != nil {
			return false, 0, err
		}
		if !ok {
			allowed = false
			if retry > retryAfter {
				retryAfter = retry
			}
		}
	}
	return allowed, retryAfter, nil
}
