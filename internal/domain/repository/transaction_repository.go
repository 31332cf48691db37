package repository

import (
	"context"
	"errors"

	"fintrack/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrTransactionNotFound is returned when a transaction does not exist or is
// not owned by the caller. Ownership violations are indistinguishable from
// missing rows on purpose.
var ErrTransactionNotFound = errors.New("transaction not found")

// TransactionRepository defines persistence operations for income/expense records.
type TransactionRepository interface {
	// Create persists a new transaction.
	Create(ctx context.Context, tx *entity.Transaction) error

	// FindByID retrieves a transaction owned by the given user.
	FindByID(ctx context.Context, userID, id uuid.UUID) (*entity.Transaction, error)

	// ListByUserID retrieves the user's transactions newest first, narrowed
	// by the filter.
	ListByUserID(ctx context.Context, userID uuid.UUID, filter entity.TransactionFilter) ([]*entity.Transaction, error)

	// Update modifies a transaction owned by the given user.
	Update(ctx context.Context, tx *entity.Transaction) error

	// Delete removes a transaction owned by the given user.
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
