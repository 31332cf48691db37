package usecase

import (
	"context"
	"time"

	"fintrack/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateTransactionInput defines the data required to record a transaction.
type CreateTransactionInput struct {
	UserID      uuid.UUID
	Type        string
	Amount      float64
	Category    string
	Description string
	Date        time.Time
}

// UpdateTransactionInput replaces every mutable field of a transaction.
type UpdateTransactionInput struct {
	UserID      uuid.UUID
	ID          uuid.UUID
	Type        string
	Amount      float64
	Category    string
	Description string
	Date        time.Time
}

// ListTransactionsInput narrows the listing; zero values mean no filter.
type ListTransactionsInput struct {
	UserID   uuid.UUID
	Type     string
	Category string
	From     *time.Time
	To       *time.Time
}

// CreateCategoryInput defines a user-defined category.
type CreateCategoryInput struct {
	UserID uuid.UUID
	Name   string
	Kind   string
}

// TransactionUsecase defines the business operations on transactions and the
// categories that label them.
type TransactionUsecase interface {
	Create(ctx context.Context, input *CreateTransactionInput) (*entity.Transaction, error)
	List(ctx context.Context, input *ListTransactionsInput) ([]*entity.Transaction, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*entity.Transaction, error)
	Update(ctx context.Context, input *UpdateTransactionInput) (*entity.Transaction, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error

	ListCategories(ctx context.Context, userID uuid.UUID) ([]*entity.Category, error)
	CreateCategory(ctx context.Context, input *CreateCategoryInput) (*entity.Category, error)
	DeleteCategory(ctx context.Context, userID, id uuid.UUID) error
}
