// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"fintrack/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// SignupInput defines the data required to register a new user.
type SignupInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// LoginInput defines the data required for a user to log in. The identity
// field accepts a username or an email; an embedded '@' selects email lookup.
type LoginInput struct {
	UsernameOrEmail string
	Password        string
}

// RefreshTokenInput carries the refresh token presented for rotation.
type RefreshTokenInput struct {
	RefreshToken string
}

// LogoutInput identifies the session being terminated. The refresh token may
// be absent or invalid; logout still succeeds.
type LogoutInput struct {
	RefreshToken string
}

// UpdateProfileInput defines the optional profile changes for PATCH /auth/me.
// Nil fields are left untouched. Changing the password requires the current
// one.
type UpdateProfileInput struct {
	UserID          uuid.UUID
	Email           *string
	CurrentPassword *string
	NewPassword     *string
}

// --- Output DTOs ---

// AuthOutput returns the user and a fresh token pair.
type AuthOutput struct {
	User         *entity.User
	AccessToken  string
	RefreshToken string
}

// RefreshOutput returns the rotated token pair.
type RefreshOutput struct {
	AccessToken  string
	RefreshToken string
}

// AuthUsecase defines the interface for authentication business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	Signup(ctx context.Context, input *SignupInput) (*AuthOutput, error)
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)
	Refresh(ctx context.Context, input *RefreshTokenInput) (*RefreshOutput, error)
	Logout(ctx context.Context, input *LogoutInput) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error)
	UpdateProfile(ctx context.Context, input *UpdateProfileInput) (*entity.User, error)
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
}
