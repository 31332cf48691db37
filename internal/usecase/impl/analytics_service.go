package impl

import (
	"context"
	"time"

	"fintrack/internal/domain/entity"
	domainerrors "fintrack/internal/domain/errors"
	"fintrack/internal/domain/repository"
	"fintrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	defaultMonthlyRange = 6
	maxMonthlyRange     = 24
)

// analyticsService implements the AnalyticsUsecase interface.
type analyticsService struct {
	analyticsRepo repository.AnalyticsRepository
}

// AnalyticsServiceParams holds dependencies for analyticsService, injected by Fx.
type AnalyticsServiceParams struct {
	fx.In

	AnalyticsRepo repository.AnalyticsRepository
}

// NewAnalyticsService is the constructor for analyticsService.
func NewAnalyticsService(params AnalyticsServiceParams) usecase.AnalyticsUsecase {
	return &analyticsService{analyticsRepo: params.AnalyticsRepo}
}

// Overview returns all-time and current-month totals.
func (srv *analyticsService) Overview(ctx context.Context, userID uuid.UUID) (*entity.Overview, error) {
	return srv.analyticsRepo.Overview(ctx, userID, time.Now())
}

// Monthly returns per-month totals for the trailing months window.
func (srv *analyticsService) Monthly(ctx context.Context, userID uuid.UUID, months int) ([]*entity.MonthlyTotal, error) {
	if months <= 0 {
		months = defaultMonthlyRange
	}
	if months > maxMonthlyRange {
		months = maxMonthlyRange
	}

	return srv.analyticsRepo.MonthlyTotals(ctx, userID, time.Now(), months)
}

// Categories breaks down one month's expenses by category. Omitted month and
// year select the current month.
func (srv *analyticsService) Categories(ctx context.Context, userID uuid.UUID, month, year int) ([]*entity.CategoryTotal, error) {
	month, year, err := monthOrNow(month, year)
	if err != nil {
		return nil, err
	}

	return srv.analyticsRepo.CategoryTotals(ctx, userID, month, year)
}

// Daily returns one month's expenses by day. Omitted month and year select
// the current month.
func (srv *analyticsService) Daily(ctx context.Context, userID uuid.UUID, month, year int) ([]*entity.DailyTotal, error) {
	month, year, err := monthOrNow(month, year)
	if err != nil {
		return nil, err
	}

	return srv.analyticsRepo.DailyTotals(ctx, userID, month, year)
}

// monthOrNow fills missing month/year query parameters with the current month.
func monthOrNow(month, year int) (int, int, error) {
	now := time.Now()
	if month == 0 && year == 0 {
		return int(now.Month()), now.Year(), nil
	}
	if month < 1 || month > 12 {
		return 0, 0, errors.Wrap(domainerrors.ErrValidationFailed, "month must be between 1 and 12")
	}
	if year < 1970 || year > 9999 {
		return 0, 0, errors.Wrap(domainerrors.ErrValidationFailed, "year is out of range")
	}

	return month, year, nil
}
