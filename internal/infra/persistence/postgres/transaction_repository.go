package postgres

import (
	"context"

	"fintrack/internal/domain/entity"
	domainerrors "fintrack/internal/domain/errors"
	"fintrack/internal/domain/repository"
	"fintrack/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// transactionRepository implements the domain's TransactionRepository interface using GORM.
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository is the constructor for transactionRepository.
func NewTransactionRepository(db *gorm.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

// Create persists a new transaction.
func (repo *transactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	txM := fromTransactionDomain(transaction)

	if err := repo.db.WithContext(ctx).Create(txM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create transaction")
	}

	transaction.ID = txM.ID
	transaction.CreatedAt = txM.CreatedAt
	transaction.UpdatedAt = txM.UpdatedAt

	return nil
}

// FindByID retrieves one transaction. Scoping by user ID keeps one user's
// rows invisible to another even with a guessed ID.
func (repo *transactionRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*entity.Transaction, error) {
	var txM model.TransactionModel
	err := repo.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&txM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTransactionNotFound
		}

		return nil, errors.Wrap(err, "failed to find transaction by id")
	}

	return toTransactionDomain(&txM), nil
}

// ListByUserID returns the user's transactions newest first, narrowed by the
// optional filter fields.
func (repo *transactionRepository) ListByUserID(ctx context.Context, userID uuid.UUID, filter entity.TransactionFilter) ([]*entity.Transaction, error) {
	query := repo.db.WithContext(ctx).Where("user_id = ?", userID)

	if filter.Type != "" {
		query = query.Where("type = ?", string(filter.Type))
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date <= ?", *filter.To)
	}

	var models []model.TransactionModel
	if err := query.Order("date DESC, created_at DESC").Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list transactions")
	}

	transactions := make([]*entity.Transaction, 0, len(models))
	for i := range models {
		transactions = append(transactions, toTransactionDomain(&models[i]))
	}

	return transactions, nil
}

// Update modifies an existing transaction owned by the user.
func (repo *transactionRepository) Update(ctx context.Context, transaction *entity.Transaction) error {
	result := repo.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Where("id = ? AND user_id = ?", transaction.ID, transaction.UserID).
		Updates(map[string]any{
			"type":        string(transaction.Type),
			"amount":      transaction.Amount,
			"category":    transaction.Category,
			"description": transaction.Description,
			"date":        transaction.Date,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update transaction")
	}
	if result.RowsAffected == 0 {
		return repository.ErrTransactionNotFound
	}

	return nil
}

// Delete removes a transaction owned by the user.
func (repo *transactionRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.TransactionModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete transaction")
	}
	if result.RowsAffected == 0 {
		return repository.ErrTransactionNotFound
	}

	return nil
}

// toTransactionDomain converts a GORM TransactionModel to a domain Transaction entity.
func toTransactionDomain(data *model.TransactionModel) *entity.Transaction {
	if data == nil {
		return nil
	}

	return &entity.Transaction{
		ID:          data.ID,
		UserID:      data.UserID,
		Type:        entity.TransactionType(data.Type),
		Amount:      data.Amount,
		Category:    data.Category,
		Description: data.Description,
		Date:        data.Date,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

// fromTransactionDomain converts a domain Transaction entity to a GORM TransactionModel.
func fromTransactionDomain(data *entity.Transaction) *model.TransactionModel {
	if data == nil {
		return nil
	}

	return &model.TransactionModel{
		ID:          data.ID,
		UserID:      data.UserID,
		Type:        string(data.Type),
		Amount:      data.Amount,
		Category:    data.Category,
		Description: data.Description,
		Date:        data.Date,
		CreatedAt:   data.CreatedAt,
	}
}
