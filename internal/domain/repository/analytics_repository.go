package repository

import (
	"context"
	"time"

	"fintrack/internal/domain/entity"

	"github.com/google/uuid"
)

// AnalyticsRepository exposes the read-only aggregate queries backing the
// analytics endpoints. All sums are scoped to one user.
type AnalyticsRepository interface {
	// Overview returns all-time totals plus the totals for the month
	// containing now.
	Overview(ctx context.Context, userID uuid.UUID, now time.Time) (*entity.Overview, error)

	// MonthlyTotals returns per-month income/expense sums for the `months`
	// calendar months ending at the month containing now, oldest first.
	MonthlyTotals(ctx context.Context, userID uuid.UUID, now time.Time, months int) ([]*entity.MonthlyTotal, error)

	// CategoryTotals returns the expense sum per category for one month,
	// largest first.
	CategoryTotals(ctx context.Context, userID uuid.UUID, month, year int) ([]*entity.CategoryTotal, error)

	// DailyTotals returns the expense sum per day for one month.
	DailyTotals(ctx context.Context, userID uuid.UUID, month, year int) ([]*entity.DailyTotal, error)

	// ExpenseSumForMonth returns the total spent in one month; used by the
	// budget status endpoint.
	ExpenseSumForMonth(ctx context.Context, userID uuid.UUID, month, year int) (float64, error)
}
