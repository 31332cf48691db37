package impl

import (
	"context"
	"testing"

	domainerrors "fintrack/internal/domain/errors"
	"fintrack/internal/domain/service"
	"fintrack/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signupInput() *usecase.SignupInput {
	return &usecase.SignupInput{
		Username:        "alice",
		Email:           "alice@example.com",
		Password:        "StrongPhrase123!",
		ConfirmPassword: "StrongPhrase123!",
	}
}

func TestAuthService_Signup(t *testing.T) {
	fx := newAuthFixture()
	ctx := context.Background()

	out, err := fx.service.Signup(ctx, signupInput())
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.Equal(t, "alice", out.User.Username)
	assert.Equal(t, 1, out.User.TokenVersion)
	assert.NotEmpty(t, out.AccessToken)
	assert.NotEmpty(t, out.RefreshToken)

	// Default categories were created alongside the user.
	categories, err := fx.categoryRepo.ListByUserID(ctx, out.User.ID)
	require.NoError(t, err)
	assert.Len(t, categories, 12)

	// The refresh token's server-side record exists.
	claims, err := fx.tokenService.ValidateToken(out.RefreshToken)
	require.NoError(t, err)
	_, err = fx.refreshStore.Find(ctx, claims.TokenID)
	assert.NoError(t, err)
}

func TestAuthService_SignupPasswordMismatch(t *testing.T) {
	fx := newAuthFixture()

	input := signupInput()
	input.ConfirmPassword = "SomethingElse123!"
	_, err := fx.service.Signup(context.Background(), input)
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordMismatch))
}

func TestAuthService_SignupWeakPassword(t *testing.T) {
	fx := newAuthFixture()

	input := signupInput()
	input.Password = "short"
	input.ConfirmPassword = "short"
	_, err := fx.service.Signup(context.Background(), input)
	assert.Error(t, err)
}

func TestAuthService_LoginBumpsTokenVersion(t *testing.T) {
	fx := newAuthFixture()
	ctx := context.Background()

	signup, err := fx.service.Signup(ctx, signupInput())
	require.NoError(t, err)
	assert.Equal(t, 1, signup.User.TokenVersion)

	first, err := fx.service.Login(ctx, &usecase.LoginInput{UsernameOrEmail: "alice", Password: "StrongPhrase123!"})
	require.NoError(t, err)
	assert.Equal(t, 2, first.User.TokenVersion)

	second, err := fx.service.Login(ctx, &usecase.LoginInput{UsernameOrEmail: "alice", Password: "StrongPhrase123!"})
	require.NoError(t, err)
	assert.Equal(t, 3, second.User.TokenVersion)
	assert.NotEqual(t, first.AccessToken, second.AccessToken)

	// The first login's access token now carries a stale version.
	firstClaims, err := fx.tokenService.ValidateToken(first.AccessToken)
	require.NoError(t, err)
	liveUser, err := fx.userRepo.FindByID(ctx, firstClaims.UserID)
	require.NoError(t, err)
	assert.NotEqual(t, liveUser.TokenVersion, firstClaims.TokenVersion)
}

func TestAuthService_LoginByEmail(t *testing.T) {
	fx := newAuthFixture()
	ctx := context.Background()

	_, err := fx.service.Signup(ctx, signupInput())
	require.NoError(t, err)

	out, err := fx.service.Login(ctx, &usecase.LoginInput{UsernameOrEmail: "Alice@Example.com", Password: "StrongPhrase123!"})
	require.NoError(t, err)
	assert.Equal(t, "alice", out.User.Username)
}

func TestAuthService_LoginGenericUnauthorized(t *testing.T) {
	fx := newAuthFixture()
	ctx := context.Background()

	_, err := fx.service.Signup(ctx, signupInput())
	require.NoError(t, err)

	// Unknown identity and wrong password produce the same error.
	_, unknownErr := fx.service.Login(ctx, &usecase.LoginInput{UsernameOrEmail: "nobody", Password: "StrongPhrase123!"})
	_, wrongErr := fx.service.Login(ctx, &usecase.LoginInput{UsernameOrEmail: "alice", Password: "WrongPhrase123!"})

	assert.True(t, errors.Is(unknownErr, domainerrors.ErrInvalidCredentials))
	assert.True(t, errors.Is(wrongErr, domainerrors.ErrInvalidCredentials))
}

func TestAuthService_LoginLockout(t *testing.T) {
	fx := newAuthFixture()
	ctx := context.Background()

	_, err := fx.service.Signup(ctx, signupInput())
	require.NoError(t, err)

	// Five failures lock the identity.
	for range 5 {
		_, err := fx.service.Login(ctx, &usecase.LoginInput{UsernameOrEmail: "alice", Password: "WrongPhrase123!"})
		assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
	}

	// Even the correct password is rejected while locked, with the same
	// generic error.
	_, err = fx.service.Login(ctx, &usecase.LoginInput{UsernameOrEmail: "alice", Password: "StrongPhrase123!"})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAuthService_LoginSuccessResetsFailures(t *testing.T) {
	fx := newAuthFixture()
	ctx := context.Background()

	_, err := fx.service.Signup(ctx, signupInput())
	require.NoError(t, err)

	for range 4 {
		_, _ = fx.service.Login(ctx, &usecase.LoginInput{UsernameOrEmail: "alice", Password: "WrongPhrase123!"})
	}

	_, err = fx.service.Login(ctx, &usecase.LoginInput{UsernameOrEmail: "alice", Password: "StrongPhrase123!"})
	require.NoError(t, err)

	// The counter restarted: four more failures do not lock.
	for range 4 {
		_, _ = fx.service.Login(ctx, &usecase.LoginInput{UsernameOrEmail: "alice", Password: "WrongPhrase123!"})
	}
	_, err = fx.service.Login(ctx, &usecase.LoginInput{UsernameOrEmail: "alice", Password: "StrongPhrase123!"})
	assert.NoError(t, err)
}

func TestAuthService_RefreshRotation(t *testing.T) {
	fx := newAuthFixture()
	ctx := context.Background()

	signup, err := fx.service.Signup(ctx, signupInput())
	require.NoError(t, err)

	rotated, err := fx.service.Refresh(ctx, &usecase.RefreshTokenInput{RefreshToken: signup.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.AccessToken)
	assert.NotEmpty(t, rotated.RefreshToken)
	assert.NotEqual(t, signup.RefreshToken, rotated.RefreshToken)

	// Re-presenting the consumed token fails.
	_, err = fx.service.Refresh(ctx, &usecase.RefreshTokenInput{RefreshToken: signup.RefreshToken})
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))

	// The rotated token still works.
	_, err = fx.service.Refresh(ctx, &usecase.RefreshTokenInput{RefreshToken: rotated.RefreshToken})
	assert.NoError(t, err)
}

func TestAuthService_RefreshRejectsAccessToken(t *testing.T) {
	fx := newAuthFixture()
	ctx := context.Background()

	signup, err := fx.service.Signup(ctx, signupInput())
	require.NoError(t, err)

	_, err = fx.service.Refresh(ctx, &usecase.RefreshTokenInput{RefreshToken: signup.AccessToken})
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))
}

func TestAuthService_RefreshRejectsStaleVersion(t *testing.T) {
	fx := newAuthFixture()
	ctx := context.Background()

	signup, err := fx.service.Signup(ctx, signupInput())
	require.NoError(t, err)

	// A later login bumps the version, so the earlier refresh token's
	// embedded version no longer matches.
	_, err = fx.service.Login(ctx, &usecase.LoginInput{UsernameOrEmail: "alice", Password: "StrongPhrase123!"})
	require.NoError(t, err)

	_, err = fx.service.Refresh(ctx, &usecase.RefreshTokenInput{RefreshToken: signup.RefreshToken})
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))
}

func TestAuthService_LogoutRevokesAll(t *testing.T) {
	fx := newAuthFixture()
	ctx := context.Background()

	signup, err := fx.service.Signup(ctx, signupInput())
	require.NoError(t, err)

	login, err := fx.service.Login(ctx, &usecase.LoginInput{UsernameOrEmail: "alice", Password: "StrongPhrase123!"})
	require.NoError(t, err)

	require.NoError(t, fx.service.Logout(ctx, &usecase.LogoutInput{RefreshToken: login.RefreshToken}))

	// Every refresh token for the user is gone, not just the presented one.
	for _, token := range []string{signup.RefreshToken, login.RefreshToken} {
		claims, err := fx.tokenService.ValidateToken(token)
		require.NoError(t, err)
		_, err = fx.refreshStore.Find(ctx, claims.TokenID)
		assert.ErrorIs(t, err, service.ErrRefreshRecordNotFound)
	}
}

func TestAuthService_LogoutWithGarbageToken(t *testing.T) {
	fx := newAuthFixture()

	err := fx.service.Logout(context.Background(), &usecase.LogoutInput{RefreshToken: "not-a-token"})
	assert.NoError(t, err)
}

func TestAuthService_UpdateProfilePasswordChange(t *testing.T) {
	fx := newAuthFixture()
	ctx := context.Background()

	signup, err := fx.service.Signup(ctx, signupInput())
	require.NoError(t, err)

	current := "StrongPhrase123!"
	next := "AnotherPhrase456!"
	updated, err := fx.service.UpdateProfile(ctx, &usecase.UpdateProfileInput{
		UserID:          signup.User.ID,
		CurrentPassword: &current,
		NewPassword:     &next,
	})
	require.NoError(t, err)
	assert.Greater(t, updated.TokenVersion, signup.User.TokenVersion)

	// All refresh tokens were revoked by the password change.
	claims, err := fx.tokenService.ValidateToken(signup.RefreshToken)
	require.NoError(t, err)
	_, err = fx.refreshStore.Find(ctx, claims.TokenID)
	assert.ErrorIs(t, err, service.ErrRefreshRecordNotFound)

	// The new password works; the old one does not.
	_, err = fx.service.Login(ctx, &usecase.LoginInput{UsernameOrEmail: "alice", Password: next})
	assert.NoError(t, err)
	_, err = fx.service.Login(ctx, &usecase.LoginInput{UsernameOrEmail: "alice", Password: current})
	assert.Error(t, err)
}

func TestAuthService_UpdateProfileRequiresCurrentPassword(t *testing.T) {
	fx := newAuthFixture()
	ctx := context.Background()

	signup, err := fx.service.Signup(ctx, signupInput())
	require.NoError(t, err)

	wrong := "WrongPhrase123!"
	next := "AnotherPhrase456!"
	_, err = fx.service.UpdateProfile(ctx, &usecase.UpdateProfileInput{
		UserID:          signup.User.ID,
		CurrentPassword: &wrong,
		NewPassword:     &next,
	})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))

	_, err = fx.service.UpdateProfile(ctx, &usecase.UpdateProfileInput{
		UserID:      signup.User.ID,
		NewPassword: &next,
	})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAuthService_DeleteAccount(t *testing.T) {
	fx := newAuthFixture()
	ctx := context.Background()

	signup, err := fx.service.Signup(ctx, signupInput())
	require.NoError(t, err)

	require.NoError(t, fx.service.DeleteAccount(ctx, signup.User.ID))

	_, err = fx.service.GetProfile(ctx, signup.User.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))

	claims, err := fx.tokenService.ValidateToken(signup.RefreshToken)
	require.NoError(t, err)
	_, err = fx.refreshStore.Find(ctx, claims.TokenID)
	assert.ErrorIs(t, err, service.ErrRefreshRecordNotFound)
}
