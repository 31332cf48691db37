package impl

import (
	"context"
	"testing"
	"time"

	"fintrack/internal/domain/entity"
	domainerrors "fintrack/internal/domain/errors"
	"fintrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudgetService_CreateAndGet(t *testing.T) {
	fx := newBudgetFixture()
	ctx := context.Background()
	userID := uuid.New()

	created, err := fx.service.Create(ctx, &usecase.CreateBudgetInput{
		UserID: userID, Month: 8, Year: 2026, Amount: 1500,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	got, err := fx.service.Get(ctx, userID, 8, 2026)
	require.NoError(t, err)
	assert.InDelta(t, 1500, got.Amount, 0.001)

	// A second budget for the same month is a conflict.
	_, err = fx.service.Create(ctx, &usecase.CreateBudgetInput{
		UserID: userID, Month: 8, Year: 2026, Amount: 2000,
	})
	assert.True(t, errors.Is(err, domainerrors.ErrBudgetExists))
}

func TestBudgetService_CreateValidation(t *testing.T) {
	fx := newBudgetFixture()
	ctx := context.Background()

	tests := []struct {
		name  string
		input *usecase.CreateBudgetInput
	}{
		{"month too small", &usecase.CreateBudgetInput{UserID: uuid.New(), Month: 0, Year: 2026, Amount: 100}},
		{"month too large", &usecase.CreateBudgetInput{UserID: uuid.New(), Month: 13, Year: 2026, Amount: 100}},
		{"year out of range", &usecase.CreateBudgetInput{UserID: uuid.New(), Month: 6, Year: 1900, Amount: 100}},
		{"zero amount", &usecase.CreateBudgetInput{UserID: uuid.New(), Month: 6, Year: 2026, Amount: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.service.Create(ctx, tt.input)
			assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
		})
	}
}

func TestBudgetService_ListOrder(t *testing.T) {
	fx := newBudgetFixture()
	ctx := context.Background()
	userID := uuid.New()

	for _, slot := range []struct{ month, year int }{{3, 2026}, {12, 2025}, {8, 2026}} {
		_, err := fx.service.Create(ctx, &usecase.CreateBudgetInput{
			UserID: userID, Month: slot.month, Year: slot.year, Amount: 1000,
		})
		require.NoError(t, err)
	}

	listed, err := fx.service.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, 8, listed[0].Month)
	assert.Equal(t, 3, listed[1].Month)
	assert.Equal(t, 12, listed[2].Month)
	assert.Equal(t, 2025, listed[2].Year)
}

func TestBudgetService_Update(t *testing.T) {
	fx := newBudgetFixture()
	ctx := context.Background()
	userID := uuid.New()

	_, err := fx.service.Create(ctx, &usecase.CreateBudgetInput{
		UserID: userID, Month: 8, Year: 2026, Amount: 1000, Preserve: true,
	})
	require.NoError(t, err)

	updated, err := fx.service.Update(ctx, &usecase.UpdateBudgetInput{
		UserID: userID, Month: 8, Year: 2026, Amount: 1750,
	})
	require.NoError(t, err)
	assert.InDelta(t, 1750, updated.Amount, 0.001)
	assert.True(t, updated.Preserve)

	_, err = fx.service.Update(ctx, &usecase.UpdateBudgetInput{
		UserID: userID, Month: 9, Year: 2026, Amount: 500,
	})
	assert.True(t, errors.Is(err, domainerrors.ErrBudgetNotFound))
}

func TestBudgetService_Delete(t *testing.T) {
	fx := newBudgetFixture()
	ctx := context.Background()
	userID := uuid.New()

	_, err := fx.service.Create(ctx, &usecase.CreateBudgetInput{
		UserID: userID, Month: 8, Year: 2026, Amount: 1000,
	})
	require.NoError(t, err)

	require.NoError(t, fx.service.Delete(ctx, userID, 8, 2026))
	err = fx.service.Delete(ctx, userID, 8, 2026)
	assert.True(t, errors.Is(err, domainerrors.ErrBudgetNotFound))
}

func TestBudgetService_Status(t *testing.T) {
	fx := newBudgetFixture()
	ctx := context.Background()
	userID := uuid.New()
	now := time.Now()
	month, year := int(now.Month()), now.Year()

	_, err := fx.service.Create(ctx, &usecase.CreateBudgetInput{
		UserID: userID, Month: month, Year: year, Amount: 1000,
	})
	require.NoError(t, err)

	require.NoError(t, fx.transactionRepo.Create(ctx, &entity.Transaction{
		UserID: userID, Type: entity.TransactionExpense, Amount: 400, Category: "Food", Date: now,
	}))
	// Income never counts toward the budget.
	require.NoError(t, fx.transactionRepo.Create(ctx, &entity.Transaction{
		UserID: userID, Type: entity.TransactionIncome, Amount: 5000, Category: "Salary", Date: now,
	}))

	status, err := fx.service.Status(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, status.Budget)
	assert.InDelta(t, 400, status.Spent, 0.001)
	assert.InDelta(t, 600, status.Remaining, 0.001)
	assert.InDelta(t, 40, status.PercentUsed, 0.001)
	assert.False(t, status.OverBudget)
}

func TestBudgetService_StatusOverBudget(t *testing.T) {
	fx := newBudgetFixture()
	ctx := context.Background()
	userID := uuid.New()
	now := time.Now()

	_, err := fx.service.Create(ctx, &usecase.CreateBudgetInput{
		UserID: userID, Month: int(now.Month()), Year: now.Year(), Amount: 100,
	})
	require.NoError(t, err)

	require.NoError(t, fx.transactionRepo.Create(ctx, &entity.Transaction{
		UserID: userID, Type: entity.TransactionExpense, Amount: 250, Category: "Food", Date: now,
	}))

	status, err := fx.service.Status(ctx, userID)
	require.NoError(t, err)
	assert.True(t, status.OverBudget)
	assert.InDelta(t, -150, status.Remaining, 0.001)
}

func TestBudgetService_StatusWithoutBudget(t *testing.T) {
	fx := newBudgetFixture()
	ctx := context.Background()
	userID := uuid.New()
	now := time.Now()

	require.NoError(t, fx.transactionRepo.Create(ctx, &entity.Transaction{
		UserID: userID, Type: entity.TransactionExpense, Amount: 75, Category: "Food", Date: now,
	}))

	status, err := fx.service.Status(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, status.Budget)
	assert.InDelta(t, 75, status.Spent, 0.001)
	assert.Zero(t, status.Remaining)
	assert.False(t, status.OverBudget)
}

func TestBudgetService_Preserve(t *testing.T) {
	fx := newBudgetFixture()
	ctx := context.Background()
	userID := uuid.New()

	_, err := fx.service.Create(ctx, &usecase.CreateBudgetInput{
		UserID: userID, Month: 8, Year: 2026, Amount: 1200, Preserve: true,
	})
	require.NoError(t, err)

	copied, err := fx.service.Preserve(ctx, userID, 8, 2026)
	require.NoError(t, err)
	assert.Equal(t, 9, copied.Month)
	assert.Equal(t, 2026, copied.Year)
	assert.InDelta(t, 1200, copied.Amount, 0.001)
	assert.True(t, copied.Preserve)

	// Preserving again collides with the copy.
	_, err = fx.service.Preserve(ctx, userID, 8, 2026)
	assert.True(t, errors.Is(err, domainerrors.ErrBudgetExists))
}

func TestBudgetService_PreserveDecemberRollsYear(t *testing.T) {
	fx := newBudgetFixture()
	ctx := context.Background()
	userID := uuid.New()

	_, err := fx.service.Create(ctx, &usecase.CreateBudgetInput{
		UserID: userID, Month: 12, Year: 2026, Amount: 900,
	})
	require.NoError(t, err)

	copied, err := fx.service.Preserve(ctx, userID, 12, 2026)
	require.NoError(t, err)
	assert.Equal(t, 1, copied.Month)
	assert.Equal(t, 2027, copied.Year)
}

func TestBudgetService_PreserveMissingSource(t *testing.T) {
	fx := newBudgetFixture()

	_, err := fx.service.Preserve(context.Background(), uuid.New(), 8, 2026)
	assert.True(t, errors.Is(err, domainerrors.ErrBudgetNotFound))
}

func TestBudgetService_TogglePreserve(t *testing.T) {
	fx := newBudgetFixture()
	ctx := context.Background()
	userID := uuid.New()

	_, err := fx.service.Create(ctx, &usecase.CreateBudgetInput{
		UserID: userID, Month: 8, Year: 2026, Amount: 1000,
	})
	require.NoError(t, err)

	toggled, err := fx.service.TogglePreserve(ctx, userID, 8, 2026)
	require.NoError(t, err)
	assert.True(t, toggled.Preserve)

	toggled, err = fx.service.TogglePreserve(ctx, userID, 8, 2026)
	require.NoError(t, err)
	assert.False(t, toggled.Preserve)
}
