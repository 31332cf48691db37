package entity

import (
	"time"

	"github.com/google/uuid"
)

// RefreshTokenRecord is the server-side record backing a signed refresh
// token. The JWT the client holds embeds TokenID; the record is the source
// of truth for whether that token is still live. Rotation deletes the old
// record and creates a new one, so a consumed token fails its lookup.
type RefreshTokenRecord struct {
	TokenID      uuid.UUID // Matches the tokenId claim of the signed refresh token.
	UserID       uuid.UUID // Owner of the session.
	Username     string    // Denormalized for re-signing without a user read.
	TokenVersion int       // Version embedded at issuance; must match the live user row on use.
	ExpiresAt    time.Time // Store-level expiry, mirrors the JWT exp claim.
	CreatedAt    time.Time // When this session was created or last rotated.
}

// TokenPair is an access/refresh token pair as returned by the auth
// operations.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// LockoutState describes the failed-login bookkeeping for one identity.
type LockoutState struct {
	Count       int        // Consecutive failures since the last reset.
	LastAttempt time.Time  // Timestamp of the most recent failure.
	LockedUntil *time.Time // Non-nil while the account is locked.
}
