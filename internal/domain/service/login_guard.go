package service

import (
	"context"
	"time"
)

// LoginGuard tracks failed login attempts per account identifier and locks
// an identifier out after repeated failures. Identifiers are usernames or
// emails as submitted, so an attacker cannot probe which ones exist.
type LoginGuard interface {
	// IsLocked reports whether the identifier is currently locked out and,
	// if so, how long until the lock expires.
	IsLocked(ctx context.Context, identifier string, now time.Time) (bool, time.Duration)

	// RecordFailure registers a failed attempt. Returns true when this
	// failure triggered a lockout.
	RecordFailure(ctx context.Context, identifier string, now time.Time) bool

	// Reset clears the failure state after a successful login.
	Reset(ctx context.Context, identifier string)

	// SweepIdle drops entries that have been idle longer than the configured
	// idle window and returns how many were removed.
	SweepIdle(ctx context.Context, now time.Time) int
}
