package repository

import (
	"context"
	"errors"

	"fintrack/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for budget persistence.
var (
	// ErrBudgetNotFound is returned when a budget is not found.
	ErrBudgetNotFound = errors.New("budget not found")
	// ErrBudgetExists is returned when a budget already exists for the month.
	ErrBudgetExists = errors.New("budget already exists for this month")
)

// BudgetRepository defines persistence operations for monthly budgets.
type BudgetRepository interface {
	// Create persists a new budget; (userID, month, year) is unique.
	Create(ctx context.Context, budget *entity.Budget) error

	// FindByMonth retrieves the user's budget for one month.
	FindByMonth(ctx context.Context, userID uuid.UUID, month, year int) (*entity.Budget, error)

	// ListByUserID retrieves all budgets for a user, newest month first.
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Budget, error)

	// Update modifies an existing budget.
	Update(ctx context.Context, budget *entity.Budget) error

	// Delete removes the user's budget for one month.
	Delete(ctx context.Context, userID uuid.UUID, month, year int) error
}
