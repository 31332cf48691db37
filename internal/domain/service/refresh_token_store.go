package service

import (
	"context"
	"errors"
	"time"

	"fintrack/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrRefreshRecordNotFound is returned when a token ID has no live record:
// the token was rotated away, revoked, or the process restarted.
var ErrRefreshRecordNotFound = errors.New("refresh token record not found")

// RefreshTokenStore keeps the server-side state that makes refresh tokens
// single-use. The provided implementation is process-local; the interface is
// the seam for a distributed backing store.
type RefreshTokenStore interface {
	// Save records a freshly issued refresh token.
	Save(ctx context.Context, record *entity.RefreshTokenRecord) error

	// Find returns the live record for a token ID.
	Find(ctx context.Context, tokenID uuid.UUID) (*entity.RefreshTokenRecord, error)

	// Rotate atomically revokes oldTokenID and records its replacement.
	// Fails with ErrRefreshRecordNotFound when oldTokenID is not live, so a
	// replayed token cannot rotate twice.
	Rotate(ctx context.Context, oldTokenID uuid.UUID, replacement *entity.RefreshTokenRecord) error

	// Revoke deletes a single record.
	Revoke(ctx context.Context, tokenID uuid.UUID) error

	// RevokeAllForUser deletes every record belonging to the user and
	// returns how many were dropped. Used on logout and password change.
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) (int, error)

	// DeleteExpired drops records whose expiry is before now.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
