package impl

import (
	"context"
	"log/slog"

	deliverycontext "fintrack/internal/delivery/context"
	"fintrack/internal/domain/entity"
	domainerrors "fintrack/internal/domain/errors"
	"fintrack/internal/domain/repository"
	"fintrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// transactionService implements the TransactionUsecase interface.
type transactionService struct {
	transactionRepo repository.TransactionRepository
	categoryRepo    repository.CategoryRepository
	logger          *slog.Logger
}

// TransactionServiceParams holds dependencies for transactionService, injected by Fx.
type TransactionServiceParams struct {
	fx.In

	TransactionRepo repository.TransactionRepository
	CategoryRepo    repository.CategoryRepository
	Logger          *slog.Logger
}

// NewTransactionService is the constructor for transactionService.
func NewTransactionService(params TransactionServiceParams) usecase.TransactionUsecase {
	return &transactionService{
		transactionRepo: params.TransactionRepo,
		categoryRepo:    params.CategoryRepo,
		logger:          params.Logger,
	}
}

func (srv *transactionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Create records a new transaction after validating type and amount.
func (srv *transactionService) Create(ctx context.Context, input *usecase.CreateTransactionInput) (*entity.Transaction, error) {
	transactionType := entity.TransactionType(input.Type)
	if !transactionType.Valid() {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "transaction type must be income or expense")
	}
	if input.Amount <= 0 {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "amount must be positive")
	}

	transaction := &entity.Transaction{
		UserID:      input.UserID,
		Type:        transactionType,
		Amount:      input.Amount,
		Category:    input.Category,
		Description: input.Description,
		Date:        input.Date,
	}
	if err := srv.transactionRepo.Create(ctx, transaction); err != nil {
		srv.log(ctx).Error("Failed to create transaction", slog.Any("userID", input.UserID), slog.Any("error", err))

		return nil, err
	}

	return transaction, nil
}

// List returns the caller's transactions narrowed by the filter.
func (srv *transactionService) List(ctx context.Context, input *usecase.ListTransactionsInput) ([]*entity.Transaction, error) {
	if input.Type != "" && !entity.TransactionType(input.Type).Valid() {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "transaction type must be income or expense")
	}

	filter := entity.TransactionFilter{
		Type:     entity.TransactionType(input.Type),
		Category: input.Category,
		From:     input.From,
		To:       input.To,
	}

	return srv.transactionRepo.ListByUserID(ctx, input.UserID, filter)
}

// Get returns one transaction owned by the caller.
func (srv *transactionService) Get(ctx context.Context, userID, id uuid.UUID) (*entity.Transaction, error) {
	transaction, err := srv.transactionRepo.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, domainerrors.ErrTransactionNotFound
		}

		return nil, err
	}

	return transaction, nil
}

// Update replaces the mutable fields of a transaction owned by the caller.
func (srv *transactionService) Update(ctx context.Context, input *usecase.UpdateTransactionInput) (*entity.Transaction, error) {
	transactionType := entity.TransactionType(input.Type)
	if !transactionType.Valid() {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "transaction type must be income or expense")
	}
	if input.Amount <= 0 {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "amount must be positive")
	}

	transaction := &entity.Transaction{
		ID:          input.ID,
		UserID:      input.UserID,
		Type:        transactionType,
		Amount:      input.Amount,
		Category:    input.Category,
		Description: input.Description,
		Date:        input.Date,
	}
	if err := srv.transactionRepo.Update(ctx, transaction); err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, domainerrors.ErrTransactionNotFound
		}

		return nil, err
	}

	return srv.transactionRepo.FindByID(ctx, input.UserID, input.ID)
}

// Delete removes a transaction owned by the caller.
func (srv *transactionService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := srv.transactionRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return domainerrors.ErrTransactionNotFound
		}

		return err
	}

	return nil
}

// ListCategories returns the caller's categories.
func (srv *transactionService) ListCategories(ctx context.Context, userID uuid.UUID) ([]*entity.Category, error) {
	return srv.categoryRepo.ListByUserID(ctx, userID)
}

// CreateCategory adds a user-defined category.
func (srv *transactionService) CreateCategory(ctx context.Context, input *usecase.CreateCategoryInput) (*entity.Category, error) {
	kind := entity.TransactionType(input.Kind)
	if !kind.Valid() {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "category kind must be income or expense")
	}
	if input.Name == "" {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "category name is required")
	}

	category := &entity.Category{
		UserID: input.UserID,
		Name:   input.Name,
		Kind:   kind,
	}
	if err := srv.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrCategoryExists) {
			return nil, domainerrors.ErrCategoryExists
		}

		return nil, err
	}

	return category, nil
}

// DeleteCategory removes a category owned by the caller. Existing
// transactions keep their category string.
func (srv *transactionService) DeleteCategory(ctx context.Context, userID, id uuid.UUID) error {
	if err := srv.categoryRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return domainerrors.ErrCategoryNotFound
		}

		return err
	}

	return nil
}
