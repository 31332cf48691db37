package session

import (
	"context"
	"sync"
	"time"

	"fintrack/internal/domain/entity"
	"fintrack/internal/domain/service"
)

const (
	// maxFailures is the number of failed attempts that triggers a lockout.
	maxFailures = 5
	// lockoutDuration is how long an identifier stays locked.
	lockoutDuration = 15 * time.Minute
	// idleWindow is how long an entry may sit untouched before the sweeper
	// drops it.
	idleWindow = time.Hour
)

// memoryLoginGuard is an in-memory implementation of LoginGuard.
type memoryLoginGuard struct {
	mu      sync.Mutex
	entries map[string]*entity.LockoutState
}

// NewMemoryLoginGuard is the constructor for memoryLoginGuard.
func NewMemoryLoginGuard() service.LoginGuard {
	return &memoryLoginGuard{
		entries: make(map[string]*entity.LockoutState),
	}
}

// IsLocked reports whether the identifier is locked out. An expired lock is
// cleared on the way through, so the caller sees a clean slate.
func (g *memoryLoginGuard) IsLocked(_ context.Context, identifier string, now time.Time) (bool, time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()

	state, ok := g.entries[identifier]
	if !ok || state.LockedUntil == nil {
		return false, 0
	}
	if now.Before(*state.LockedUntil) {
		return true, state.LockedUntil.Sub(now)
	}
	// Lock expired: drop the entry entirely so the counter restarts.
	delete(g.entries, identifier)
	return false, 0
}

// RecordFailure registers a failed attempt and returns true when this failure
// crossed the lockout threshold. Failures during an active lock do not grow
// the counter; the caller rejects those before verifying credentials.
func (g *memoryLoginGuard) RecordFailure(_ context.Context, identifier string, now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	state, ok := g.entries[identifier]
	if !ok {
		state = &entity.LockoutState{}
		g.entries[identifier] = state
	}
	if state.LockedUntil != nil && now.Before(*state.LockedUntil) {
		return false
	}

	state.Count++
	state.LastAttempt = now
	if state.Count >= maxFailures {
		until := now.Add(lockoutDuration)
		state.LockedUntil = &until
		return true
	}
	return false
}

// Reset clears the failure state after a successful login.
func (g *memoryLoginGuard) Reset(_ context.Context, identifier string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.entries, identifier)
}

// SweepIdle drops entries whose last attempt is older than the idle window.
// Active locks are shorter than the window, so none are cut short.
func (g *memoryLoginGuard) SweepIdle(_ context.Context, now time.Time) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	removed := 0
	for identifier, state := range g.entries {
		if now.Sub(state.LastAttempt) > idleWindow {
			delete(g.entries, identifier)
			removed++
		}
	}
	return removed
}
