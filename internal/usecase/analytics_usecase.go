package usecase

import (
	"context"

	"fintrack/internal/domain/entity"

	"github.com/google/uuid"
)

// AnalyticsUsecase defines the read-only reporting operations.
type AnalyticsUsecase interface {
	Overview(ctx context.Context, userID uuid.UUID) (*entity.Overview, error)

	// Monthly returns per-month totals for the trailing `months` months
	// (default 6, capped at 24).
	Monthly(ctx context.Context, userID uuid.UUID, months int) ([]*entity.MonthlyTotal, error)

	// Categories breaks down one month's expenses by category.
	Categories(ctx context.Context, userID uuid.UUID, month, year int) ([]*entity.CategoryTotal, error)

	// Daily returns one month's expenses by day.
	Daily(ctx context.Context, userID uuid.UUID, month, year int) ([]*entity.DailyTotal, error)
}
