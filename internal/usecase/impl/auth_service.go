// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	deliverycontext "fintrack/internal/delivery/context"
	"fintrack/internal/domain/entity"
	domainerrors "fintrack/internal/domain/errors"
	"fintrack/internal/domain/repository"
	"fintrack/internal/domain/service"
	"fintrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface.
type authService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	refreshStore service.RefreshTokenStore
	loginGuard   service.LoginGuard
	logger       *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	RefreshStore service.RefreshTokenStore
	LoginGuard   service.LoginGuard
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		refreshStore: params.RefreshStore,
		loginGuard:   params.LoginGuard,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Signup registers a new account and issues its first token pair. Default
// categories are created in the same transaction as the user row.
func (srv *authService) Signup(ctx context.Context, input *usecase.SignupInput) (*usecase.AuthOutput, error) {
	srv.log(ctx).Info("Starting signup", slog.String("username", input.Username))

	if input.Password != input.ConfirmPassword {
		return nil, errors.Wrap(domainerrors.ErrPasswordMismatch, "signup failed")
	}

	// 1. Hash outside the transaction (bcrypt is CPU-bound). Hash also
	// enforces the strength rules.
	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Warn("Password rejected during signup", slog.Any("error", err))

		return nil, err
	}

	newUser := &entity.User{
		Username:     input.Username,
		Email:        strings.ToLower(input.Email),
		PasswordHash: hashedPassword,
		TokenVersion: 1,
	}

	// 2. Create the user and their default categories atomically.
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.UserRepo().Create(ctx, newUser); err != nil {
			return err
		}

		defaults := entity.DefaultCategories()
		categories := make([]*entity.Category, 0, len(defaults))
		for i := range defaults {
			category := defaults[i]
			category.UserID = newUser.ID
			categories = append(categories, &category)
		}

		return repoFactory.CategoryRepo().CreateBatch(ctx, categories)
	})
	if err != nil {
		srv.log(ctx).Warn("Signup failed", slog.String("username", input.Username), slog.Any("error", err))

		return nil, err
	}

	// 3. Issue the first token pair.
	accessToken, refreshToken, err := srv.issueTokenPair(ctx, newUser)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("Signup completed", slog.Any("userID", newUser.ID))

	return &usecase.AuthOutput{
		User:         newUser,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Login authenticates an identity, enforcing the failed-attempt lockout, and
// bumps the token version so earlier access tokens stop working.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	identifier := strings.ToLower(input.UsernameOrEmail)
	now := time.Now()

	// 1. Lockout check first. A locked identity gets the same generic 401 as
	// bad credentials and does not consume an attempt slot.
	if locked, remaining := srv.loginGuard.IsLocked(ctx, identifier, now); locked {
		srv.log(ctx).Warn("Login attempt on locked identity", slog.Duration("remaining", remaining))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	// 2. Resolve the identity. An '@' selects email lookup.
	user, err := srv.findByIdentity(ctx, input.UsernameOrEmail)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.loginGuard.RecordFailure(ctx, identifier, now)

			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}

		return nil, errors.Wrap(err, "failed to load user for login")
	}

	// 3. Check password (bcrypt, outside any transaction).
	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		if srv.loginGuard.RecordFailure(ctx, identifier, now) {
			srv.log(ctx).Warn("Identity locked after repeated failures", slog.Any("userID", user.ID))
		}

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	srv.loginGuard.Reset(ctx, identifier)

	// 4. Bump the token version; every token signed before this moment is
	// now invalid.
	newVersion, err := srv.userRepo.IncrementTokenVersion(ctx, user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to bump token version during login")
	}
	user.TokenVersion = newVersion

	accessToken, refreshToken, err := srv.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("User logged in", slog.Any("userID", user.ID), slog.Int("tokenVersion", newVersion))

	return &usecase.AuthOutput{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued. A token that was already rotated away fails here.
func (srv *authService) Refresh(ctx context.Context, input *usecase.RefreshTokenInput) (*usecase.RefreshOutput, error) {
	claims, err := srv.tokenService.ValidateToken(input.RefreshToken)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "refresh token validation failed")
	}
	if claims.Type != service.TokenTypeRefresh || claims.TokenID == uuid.Nil {
		return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "token is not a refresh token")
	}

	// 1. The server-side record must still be live; its absence means the
	// token was rotated, revoked, or the process restarted.
	record, err := srv.refreshStore.Find(ctx, claims.TokenID)
	if err != nil {
		srv.log(ctx).Warn("Refresh token replay or unknown token", slog.Any("userID", claims.UserID))

		return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "refresh token not found")
	}
	now := time.Now()
	if record.ExpiresAt.Before(now) {
		_ = srv.refreshStore.Revoke(ctx, claims.TokenID)

		return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "refresh token expired")
	}

	// 2. The embedded version must match the live one; a password change or
	// newer login invalidates outstanding refresh tokens.
	user, err := srv.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "user not found for refresh token")
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "token version mismatch")
	}

	// 3. Rotate under the store lock so a replayed token cannot win a race.
	newTokenID := uuid.New()
	replacement := &entity.RefreshTokenRecord{
		TokenID:      newTokenID,
		UserID:       user.ID,
		Username:     user.Username,
		TokenVersion: user.TokenVersion,
		ExpiresAt:    now.Add(srv.tokenService.RefreshTokenDuration()),
		CreatedAt:    now,
	}
	if err := srv.refreshStore.Rotate(ctx, claims.TokenID, replacement); err != nil {
		return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "refresh token already rotated")
	}

	accessToken, err := srv.tokenService.GenerateAccessToken(user.ID, user.Username, user.TokenVersion)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate access token during refresh")
	}
	refreshToken, err := srv.tokenService.GenerateRefreshToken(user.ID, user.Username, user.TokenVersion, newTokenID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate refresh token during refresh")
	}

	srv.log(ctx).Debug("Refresh token rotated", slog.Any("userID", user.ID))

	return &usecase.RefreshOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Logout revokes every refresh token belonging to the session's user. An
// invalid or absent refresh token still succeeds; there is nothing to keep
// alive.
func (srv *authService) Logout(ctx context.Context, input *usecase.LogoutInput) error {
	claims, err := srv.tokenService.ValidateToken(input.RefreshToken)
	if err != nil {
		srv.log(ctx).Warn("Logout with invalid token", slog.Any("error", err))

		return nil
	}

	removed, err := srv.refreshStore.RevokeAllForUser(ctx, claims.UserID)
	if err != nil {
		return errors.Wrap(err, "failed to revoke refresh tokens during logout")
	}
	srv.log(ctx).Info("Logged out", slog.Any("userID", claims.UserID), slog.Int("revoked", removed))

	return nil
}

// GetProfile returns the authenticated user.
func (srv *authService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to load profile")
	}

	return user, nil
}

// UpdateProfile changes email and/or password. A password change bumps the
// token version and revokes all refresh tokens, forcing re-login elsewhere.
func (srv *authService) UpdateProfile(ctx context.Context, input *usecase.UpdateProfileInput) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to load user for profile update")
	}

	changingPassword := input.NewPassword != nil
	if changingPassword {
		if input.CurrentPassword == nil || !srv.hasher.Check(*input.CurrentPassword, user.PasswordHash) {
			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "current password mismatch")
		}

		hashedPassword, err := srv.hasher.Hash(*input.NewPassword)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashedPassword
	}
	if input.Email != nil {
		user.Email = strings.ToLower(*input.Email)
	}

	if err := srv.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if changingPassword {
		newVersion, err := srv.userRepo.IncrementTokenVersion(ctx, user.ID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to bump token version after password change")
		}
		user.TokenVersion = newVersion

		removed, err := srv.refreshStore.RevokeAllForUser(ctx, user.ID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to revoke refresh tokens after password change")
		}
		srv.log(ctx).Info("Password changed", slog.Any("userID", user.ID), slog.Int("revoked", removed))
	}

	return user, nil
}

// DeleteAccount removes the user; the FK cascade takes their transactions,
// budgets and categories with them. All refresh tokens are revoked.
func (srv *authService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.UserRepo().Delete(ctx, userID)
	})
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound
		}

		return errors.Wrap(err, "failed to delete account")
	}

	if _, err := srv.refreshStore.RevokeAllForUser(ctx, userID); err != nil {
		return errors.Wrap(err, "failed to revoke refresh tokens after account deletion")
	}
	srv.log(ctx).Info("Account deleted", slog.Any("userID", userID))

	return nil
}

// findByIdentity resolves a username-or-email login identity.
func (srv *authService) findByIdentity(ctx context.Context, identity string) (*entity.User, error) {
	if strings.Contains(identity, "@") {
		return srv.userRepo.FindByEmail(ctx, strings.ToLower(identity))
	}

	return srv.userRepo.FindByUsername(ctx, identity)
}

// issueTokenPair signs an access and refresh token for the user's current
// token version and records the refresh token server-side.
func (srv *authService) issueTokenPair(ctx context.Context, user *entity.User) (string, string, error) {
	accessToken, err := srv.tokenService.GenerateAccessToken(user.ID, user.Username, user.TokenVersion)
	if err != nil {
		return "", "", errors.Wrap(err, "failed to generate access token")
	}

	tokenID := uuid.New()
	refreshToken, err := srv.tokenService.GenerateRefreshToken(user.ID, user.Username, user.TokenVersion, tokenID)
	if err != nil {
		return "", "", errors.Wrap(err, "failed to generate refresh token")
	}

	now := time.Now()
	record := &entity.RefreshTokenRecord{
		TokenID:      tokenID,
		UserID:       user.ID,
		Username:     user.Username,
		TokenVersion: user.TokenVersion,
		ExpiresAt:    now.Add(srv.tokenService.RefreshTokenDuration()),
		CreatedAt:    now,
	}
	if err := srv.refreshStore.Save(ctx, record); err != nil {
		return "", "", errors.Wrap(err, "failed to store refresh token")
	}

	return accessToken, refreshToken, nil
}
