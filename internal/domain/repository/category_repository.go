package repository

import (
	"context"
	"errors"

	"fintrack/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for category persistence.
var (
	// ErrCategoryNotFound is returned when a category is not found.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrCategoryExists is returned on a duplicate (name, kind) for the user.
	ErrCategoryExists = errors.New("category already exists")
)

// CategoryRepository defines persistence operations for transaction categories.
type CategoryRepository interface {
	// Create persists a single category.
	Create(ctx context.Context, category *entity.Category) error

	// CreateBatch persists several categories at once; used for the default
	// set at signup.
	CreateBatch(ctx context.Context, categories []*entity.Category) error

	// ListByUserID retrieves all of the user's categories ordered by name.
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Category, error)

	// Delete removes a category owned by the given user.
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
