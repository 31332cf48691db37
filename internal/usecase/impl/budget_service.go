package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "fintrack/internal/delivery/context"
	"fintrack/internal/domain/entity"
	domainerrors "fintrack/internal/domain/errors"
	"fintrack/internal/domain/repository"
	"fintrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// budgetService implements the BudgetUsecase interface.
type budgetService struct {
	txManager     repository.TransactionManager
	budgetRepo    repository.BudgetRepository
	analyticsRepo repository.AnalyticsRepository
	logger        *slog.Logger
}

// BudgetServiceParams holds dependencies for budgetService, injected by Fx.
type BudgetServiceParams struct {
	fx.In

	TxManager     repository.TransactionManager
	BudgetRepo    repository.BudgetRepository
	AnalyticsRepo repository.AnalyticsRepository
	Logger        *slog.Logger
}

// NewBudgetService is the constructor for budgetService.
func NewBudgetService(params BudgetServiceParams) usecase.BudgetUsecase {
	return &budgetService{
		txManager:     params.TxManager,
		budgetRepo:    params.BudgetRepo,
		analyticsRepo: params.AnalyticsRepo,
		logger:        params.Logger,
	}
}

func (srv *budgetService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Create sets the budget for one month; a second budget for the same month
// is a conflict.
func (srv *budgetService) Create(ctx context.Context, input *usecase.CreateBudgetInput) (*entity.Budget, error) {
	if err := validateMonthYear(input.Month, input.Year); err != nil {
		return nil, err
	}
	if input.Amount <= 0 {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "budget amount must be positive")
	}

	budget := &entity.Budget{
		UserID:   input.UserID,
		Month:    input.Month,
		Year:     input.Year,
		Amount:   input.Amount,
		Preserve: input.Preserve,
	}
	if err := srv.budgetRepo.Create(ctx, budget); err != nil {
		if errors.Is(err, repository.ErrBudgetExists) {
			return nil, domainerrors.ErrBudgetExists
		}

		return nil, err
	}
	srv.log(ctx).Debug("Budget created", slog.Any("userID", input.UserID), slog.Int("month", input.Month), slog.Int("year", input.Year))

	return budget, nil
}

// List returns all of the caller's budgets.
func (srv *budgetService) List(ctx context.Context, userID uuid.UUID) ([]*entity.Budget, error) {
	return srv.budgetRepo.ListByUserID(ctx, userID)
}

// Get returns the caller's budget for one month.
func (srv *budgetService) Get(ctx context.Context, userID uuid.UUID, month, year int) (*entity.Budget, error) {
	if err := validateMonthYear(month, year); err != nil {
		return nil, err
	}

	budget, err := srv.budgetRepo.FindByMonth(ctx, userID, month, year)
	if err != nil {
		if errors.Is(err, repository.ErrBudgetNotFound) {
			return nil, domainerrors.ErrBudgetNotFound
		}

		return nil, err
	}

	return budget, nil
}

// Update changes the amount of an existing budget.
func (srv *budgetService) Update(ctx context.Context, input *usecase.UpdateBudgetInput) (*entity.Budget, error) {
	if err := validateMonthYear(input.Month, input.Year); err != nil {
		return nil, err
	}
	if input.Amount <= 0 {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "budget amount must be positive")
	}

	budget, err := srv.Get(ctx, input.UserID, input.Month, input.Year)
	if err != nil {
		return nil, err
	}

	budget.Amount = input.Amount
	if err := srv.budgetRepo.Update(ctx, budget); err != nil {
		return nil, err
	}

	return budget, nil
}

// Delete removes the caller's budget for one month.
func (srv *budgetService) Delete(ctx context.Context, userID uuid.UUID, month, year int) error {
	if err := validateMonthYear(month, year); err != nil {
		return err
	}

	if err := srv.budgetRepo.Delete(ctx, userID, month, year); err != nil {
		if errors.Is(err, repository.ErrBudgetNotFound) {
			return domainerrors.ErrBudgetNotFound
		}

		return err
	}

	return nil
}

// Status compares the current month's budget against actual spending. A
// month without a budget still reports the spend, with a nil budget.
func (srv *budgetService) Status(ctx context.Context, userID uuid.UUID) (*entity.BudgetStatus, error) {
	now := time.Now()
	month, year := int(now.Month()), now.Year()

	spent, err := srv.analyticsRepo.ExpenseSumForMonth(ctx, userID, month, year)
	if err != nil {
		return nil, err
	}

	status := &entity.BudgetStatus{
		Month: month,
		Year:  year,
		Spent: spent,
	}

	budget, err := srv.budgetRepo.FindByMonth(ctx, userID, month, year)
	if err != nil {
		if errors.Is(err, repository.ErrBudgetNotFound) {
			return status, nil
		}

		return nil, err
	}

	status.Budget = budget
	status.Remaining = budget.Amount - spent
	if budget.Amount > 0 {
		status.PercentUsed = spent / budget.Amount * 100
	}
	status.OverBudget = spent > budget.Amount

	return status, nil
}

// Preserve copies the budget into the following month. The copy keeps the
// preserve flag so the chain can continue month over month.
func (srv *budgetService) Preserve(ctx context.Context, userID uuid.UUID, month, year int) (*entity.Budget, error) {
	if err := validateMonthYear(month, year); err != nil {
		return nil, err
	}

	nextMonth, nextYear := month+1, year
	if nextMonth > 12 {
		nextMonth, nextYear = 1, year+1
	}

	var copied *entity.Budget
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		budgetRepo := repoFactory.BudgetRepo()

		source, err := budgetRepo.FindByMonth(ctx, userID, month, year)
		if err != nil {
			if errors.Is(err, repository.ErrBudgetNotFound) {
				return domainerrors.ErrBudgetNotFound
			}

			return err
		}

		copied = &entity.Budget{
			UserID:   userID,
			Month:    nextMonth,
			Year:     nextYear,
			Amount:   source.Amount,
			Preserve: source.Preserve,
		}
		if err := budgetRepo.Create(ctx, copied); err != nil {
			if errors.Is(err, repository.ErrBudgetExists) {
				return domainerrors.ErrBudgetExists
			}

			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	srv.log(ctx).Debug("Budget preserved into next month", slog.Any("userID", userID), slog.Int("month", nextMonth), slog.Int("year", nextYear))

	return copied, nil
}

// TogglePreserve flips the budget's preserve flag.
func (srv *budgetService) TogglePreserve(ctx context.Context, userID uuid.UUID, month, year int) (*entity.Budget, error) {
	budget, err := srv.Get(ctx, userID, month, year)
	if err != nil {
		return nil, err
	}

	budget.Preserve = !budget.Preserve
	if err := srv.budgetRepo.Update(ctx, budget); err != nil {
		return nil, err
	}

	return budget, nil
}

func validateMonthYear(month, year int) error {
	if month < 1 || month > 12 {
		return errors.Wrap(domainerrors.ErrValidationFailed, "month must be between 1 and 12")
	}
	if year < 1970 || year > 9999 {
		return errors.Wrap(domainerrors.ErrValidationFailed, "year is out of range")
	}

	return nil
}
