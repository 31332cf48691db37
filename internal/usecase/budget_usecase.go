package usecase

import (
	"context"

	"fintrack/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateBudgetInput defines the data required to set a monthly budget.
type CreateBudgetInput struct {
	UserID   uuid.UUID
	Month    int
	Year     int
	Amount   float64
	Preserve bool
}

// UpdateBudgetInput changes the amount of an existing budget.
type UpdateBudgetInput struct {
	UserID uuid.UUID
	Month  int
	Year   int
	Amount float64
}

// BudgetUsecase defines the business operations on monthly budgets.
type BudgetUsecase interface {
	Create(ctx context.Context, input *CreateBudgetInput) (*entity.Budget, error)
	List(ctx context.Context, userID uuid.UUID) ([]*entity.Budget, error)
	Get(ctx context.Context, userID uuid.UUID, month, year int) (*entity.Budget, error)
	Update(ctx context.Context, input *UpdateBudgetInput) (*entity.Budget, error)
	Delete(ctx context.Context, userID uuid.UUID, month, year int) error

	// Status compares the current month's budget against actual spending.
	Status(ctx context.Context, userID uuid.UUID) (*entity.BudgetStatus, error)

	// Preserve copies the budget into the following month; fails with a
	// conflict when the target month already has one.
	Preserve(ctx context.Context, userID uuid.UUID, month, year int) (*entity.Budget, error)

	// TogglePreserve flips the budget's preserve flag.
	TogglePreserve(ctx context.Context, userID uuid.UUID, month, year int) (*entity.Budget, error)
}
