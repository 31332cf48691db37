// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"fintrack/config"
	"fintrack/internal/domain/service"
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	secret     string        // Shared HMAC secret for both token kinds.
	accessTTL  time.Duration // Time-to-live for access tokens.
	refreshTTL time.Duration // Time-to-live for refresh tokens.
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.JWT == "" {
		return nil, errors.New("jwt secret must be provided")
	}
	return &jwtService{
		secret:     cfg.SecretKey.JWT,
		accessTTL:  time.Hour,          // matches the access cookie lifetime
		refreshTTL: time.Hour * 24 * 7, // matches the refresh cookie lifetime
	}, nil
}

// GenerateAccessToken creates a short-lived access token carrying the user's
// current token version.
func (s *jwtService) GenerateAccessToken(userID uuid.UUID, username string, tokenVersion int) (string, error) {
	return s.generateToken(userID, username, tokenVersion, uuid.Nil, s.accessTTL, service.TokenTypeAccess)
}

// GenerateRefreshToken creates a long-lived refresh token. The token ID keys
// the server-side session record that makes the token single-use.
func (s *jwtService) GenerateRefreshToken(userID uuid.UUID, username string, tokenVersion int, tokenID uuid.UUID) (string, error) {
	return s.generateToken(userID, username, tokenVersion, tokenID, s.refreshTTL, service.TokenTypeRefresh)
}

// ValidateToken checks the signature and expiry of a token string and
// extracts the typed claims.
func (s *jwtService) ValidateToken(tokenString string) (*service.Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse token structure")
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unexpected claims format")
	}
	return s.typedClaims(mapClaims)
}

// AccessTokenDuration returns the configured duration for access tokens.
func (s *jwtService) AccessTokenDuration() time.Duration {
	return s.accessTTL
}

// RefreshTokenDuration returns the configured duration for refresh tokens.
func (s *jwtService) RefreshTokenDuration() time.Duration {
	return s.refreshTTL
}

// generateToken is a private helper to create a JWT with specific claims.
func (s *jwtService) generateToken(userID uuid.UUID, username string, tokenVersion int, tokenID uuid.UUID, ttl time.Duration, tokenType string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      userID.String(),         // Subject (who the token is for)
		"username": username,                // Display identity, avoids a DB hit on every request
		"ver":      tokenVersion,            // Token version; bumped on password change / revoke-all
		"iat":      now.Unix(),              // Issued At
		"exp":      now.Add(ttl).Unix(),     // Expiration Time
		"type":     tokenType,               // Type of token (access or refresh)
	}
	// Only refresh tokens carry a token ID, keying the server-side record.
	if tokenID != uuid.Nil {
		claims["jti"] = tokenID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// typedClaims converts raw map claims into the domain Claims type.
func (s *jwtService) typedClaims(mapClaims jwt.MapClaims) (*service.Claims, error) {
	claims := &service.Claims{}

	sub, ok := mapClaims["sub"].(string)
	if !ok {
		return nil, errors.New("token missing subject claim")
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, errors.Wrap(err, "invalid subject claim")
	}
	claims.UserID = userID

	if username, ok := mapClaims["username"].(string); ok {
		claims.Username = username
	}
	if ver, ok := mapClaims["ver"].(float64); ok {
		claims.TokenVersion = int(ver)
	}
	tokenType, ok := mapClaims["type"].(string)
	if !ok {
		return nil, errors.New("token missing type claim")
	}
	claims.Type = tokenType

	if jti, ok := mapClaims["jti"].(string); ok {
		tokenID, err := uuid.Parse(jti)
		if err != nil {
			return nil, errors.Wrap(err, "invalid token id claim")
		}
		claims.TokenID = tokenID
	}

	if exp, ok := mapClaims["exp"].(float64); ok {
		claims.ExpiresAt = jwt.NewNumericDate(time.Unix(int64(exp), 0))
	}
	if iat, ok := mapClaims["iat"].(float64); ok {
		claims.IssuedAt = jwt.NewNumericDate(time.Unix(int64(iat), 0))
	}

	return claims, nil
}
