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

// budgetRepository implements the domain's BudgetRepository interface using GORM.
type budgetRepository struct {
	db *gorm.DB
}

// NewBudgetRepository is the constructor for budgetRepository.
func NewBudgetRepository(db *gorm.DB) repository.BudgetRepository {
	return &budgetRepository{db: db}
}

// Create persists a new budget. The (user, month, year) unique index makes
// one budget per month a database-level guarantee.
func (repo *budgetRepository) Create(ctx context.Context, budget *entity.Budget) error {
	budgetM := fromBudgetDomain(budget)

	if err := repo.db.WithContext(ctx).Create(budgetM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrBudgetExists
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create budget")
	}

	budget.ID = budgetM.ID
	budget.CreatedAt = budgetM.CreatedAt
	budget.UpdatedAt = budgetM.UpdatedAt

	return nil
}

// FindByMonth retrieves the user's budget for one calendar month.
func (repo *budgetRepository) FindByMonth(ctx context.Context, userID uuid.UUID, month, year int) (*entity.Budget, error) {
	var budgetM model.BudgetModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ? AND month = ? AND year = ?", userID, month, year).
		First(&budgetM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrBudgetNotFound
		}

		return nil, errors.Wrap(err, "failed to find budget by month")
	}

	return toBudgetDomain(&budgetM), nil
}

// ListByUserID returns all of the user's budgets, newest month first.
func (repo *budgetRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Budget, error) {
	var models []model.BudgetModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("year DESC, month DESC").
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list budgets")
	}

	budgets := make([]*entity.Budget, 0, len(models))
	for i := range models {
		budgets = append(budgets, toBudgetDomain(&models[i]))
	}

	return budgets, nil
}

// Update modifies an existing budget owned by the user.
func (repo *budgetRepository) Update(ctx context.Context, budget *entity.Budget) error {
	result := repo.db.WithContext(ctx).
		Model(&model.BudgetModel{}).
		Where("id = ? AND user_id = ?", budget.ID, budget.UserID).
		Updates(map[string]any{
			"amount":   budget.Amount,
			"preserve": budget.Preserve,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update budget")
	}
	if result.RowsAffected == 0 {
		return repository.ErrBudgetNotFound
	}

	return nil
}

// Delete removes the user's budget for one month.
func (repo *budgetRepository) Delete(ctx context.Context, userID uuid.UUID, month, year int) error {
	result := repo.db.WithContext(ctx).
		Where("user_id = ? AND month = ? AND year = ?", userID, month, year).
		Delete(&model.BudgetModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete budget")
	}
	if result.RowsAffected == 0 {
		return repository.ErrBudgetNotFound
	}

	return nil
}

// toBudgetDomain converts a GORM BudgetModel to a domain Budget entity.
func toBudgetDomain(data *model.BudgetModel) *entity.Budget {
	if data == nil {
		return nil
	}

	return &entity.Budget{
		ID:        data.ID,
		UserID:    data.UserID,
		Month:     data.Month,
		Year:      data.Year,
		Amount:    data.Amount,
		Preserve:  data.Preserve,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

// fromBudgetDomain converts a domain Budget entity to a GORM BudgetModel.
func fromBudgetDomain(data *entity.Budget) *model.BudgetModel {
	if data == nil {
		return nil
	}

	return &model.BudgetModel{
		ID:        data.ID,
		UserID:    data.UserID,
		Month:     data.Month,
		Year:      data.Year,
		Amount:    data.Amount,
		Preserve:  data.Preserve,
		CreatedAt: data.CreatedAt,
	}
}
