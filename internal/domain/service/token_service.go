package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token type discriminators embedded in the `type` claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims defines the custom claims for the JWT tokens.
type Claims struct {
	UserID       uuid.UUID
	Username     string
	TokenVersion int
	Type         string
	TokenID      uuid.UUID // Set for refresh tokens only; keys the server-side record.
	jwt.RegisteredClaims
}

// TokenService defines the interface for generating and validating JWTs.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// GenerateAccessToken signs a short-lived access token embedding the
	// user's current token version.
	GenerateAccessToken(userID uuid.UUID, username string, tokenVersion int) (string, error)

	// GenerateRefreshToken signs a long-lived refresh token embedding the
	// given token ID, which keys the server-side session record.
	GenerateRefreshToken(userID uuid.UUID, username string, tokenVersion int, tokenID uuid.UUID) (string, error)

	// ValidateToken checks signature and expiry and returns the typed claims.
	ValidateToken(tokenString string) (*Claims, error)

	// AccessTokenDuration returns the configured access token lifetime.
	AccessTokenDuration() time.Duration

	// RefreshTokenDuration returns the configured refresh token lifetime.
	RefreshTokenDuration() time.Duration
}
