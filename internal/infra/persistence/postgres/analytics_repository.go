package postgres

import (
	"context"
	"time"

	"fintrack/internal/domain/entity"
	"fintrack/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// analyticsRepository implements the domain's AnalyticsRepository with
// aggregate SQL, so sums happen in the database rather than in Go.
type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository is the constructor for analyticsRepository.
func NewAnalyticsRepository(db *gorm.DB) repository.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

// Overview returns all-time totals plus the totals for the month containing now.
func (repo *analyticsRepository) Overview(ctx context.Context, userID uuid.UUID, now time.Time) (*entity.Overview, error) {
	var row struct {
		TotalIncome      float64
		TotalExpense     float64
		TransactionCount int64
		MonthIncome      float64
		MonthExpense     float64
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	nextMonth := monthStart.AddDate(0, 1, 0)

	err := repo.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0)  AS total_income,
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0) AS total_expense,
			COUNT(*)                                                 AS transaction_count,
			COALESCE(SUM(amount) FILTER (WHERE type = 'income'  AND date >= ? AND date < ?), 0) AS month_income,
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense' AND date >= ? AND date < ?), 0) AS month_expense
		FROM transactions
		WHERE user_id = ?`,
		monthStart, nextMonth, monthStart, nextMonth, userID,
	).Scan(&row).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute overview")
	}

	return &entity.Overview{
		TotalIncome:      row.TotalIncome,
		TotalExpense:     row.TotalExpense,
		Balance:          row.TotalIncome - row.TotalExpense,
		TransactionCount: row.TransactionCount,
		MonthIncome:      row.MonthIncome,
		MonthExpense:     row.MonthExpense,
	}, nil
}

// MonthlyTotals returns per-month sums for the `months` calendar months
// ending at the month containing now, oldest first. Months without any
// transactions still appear, zero-filled.
func (repo *analyticsRepository) MonthlyTotals(ctx context.Context, userID uuid.UUID, now time.Time, months int) ([]*entity.MonthlyTotal, error) {
	if months <= 0 {
		return []*entity.MonthlyTotal{}, nil
	}

	currentMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	rangeStart := currentMonth.AddDate(0, -(months - 1), 0)
	rangeEnd := currentMonth.AddDate(0, 1, 0)

	var rows []struct {
		Month   int
		Year    int
		Income  float64
		Expense float64
	}
	err := repo.db.WithContext(ctx).Raw(`
		SELECT
			EXTRACT(MONTH FROM date)::int AS month,
			EXTRACT(YEAR FROM date)::int  AS year,
			COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0)  AS income,
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0) AS expense
		FROM transactions
		WHERE user_id = ? AND date >= ? AND date < ?
		GROUP BY 1, 2`,
		userID, rangeStart, rangeEnd,
	).Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute monthly totals")
	}

	type monthKey struct{ month, year int }
	byMonth := make(map[monthKey]*entity.MonthlyTotal, len(rows))
	for _, row := range rows {
		byMonth[monthKey{row.Month, row.Year}] = &entity.MonthlyTotal{
			Month:   row.Month,
			Year:    row.Year,
			Income:  row.Income,
			Expense: row.Expense,
		}
	}

	totals := make([]*entity.MonthlyTotal, 0, months)
	for cursor := rangeStart; cursor.Before(rangeEnd); cursor = cursor.AddDate(0, 1, 0) {
		key := monthKey{int(cursor.Month()), cursor.Year()}
		if total, ok := byMonth[key]; ok {
			totals = append(totals, total)
		} else {
			totals = append(totals, &entity.MonthlyTotal{Month: key.month, Year: key.year})
		}
	}

	return totals, nil
}

// CategoryTotals returns the expense sum per category for one month, largest
// first, with each category's share of the month's spend.
func (repo *analyticsRepository) CategoryTotals(ctx context.Context, userID uuid.UUID, month, year int) ([]*entity.CategoryTotal, error) {
	start, end := monthBounds(month, year)

	var rows []struct {
		Category string
		Amount   float64
	}
	err := repo.db.WithContext(ctx).Raw(`
		SELECT category, COALESCE(SUM(amount), 0) AS amount
		FROM transactions
		WHERE user_id = ? AND type = 'expense' AND date >= ? AND date < ?
		GROUP BY category
		ORDER BY amount DESC`,
		userID, start, end,
	).Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute category totals")
	}

	var total float64
	for _, row := range rows {
		total += row.Amount
	}

	totals := make([]*entity.CategoryTotal, 0, len(rows))
	for _, row := range rows {
		percent := 0.0
		if total > 0 {
			percent = row.Amount / total * 100
		}
		totals = append(totals, &entity.CategoryTotal{
			Category: row.Category,
			Amount:   row.Amount,
			Percent:  percent,
		})
	}

	return totals, nil
}

// DailyTotals returns the expense sum per day for one month.
func (repo *analyticsRepository) DailyTotals(ctx context.Context, userID uuid.UUID, month, year int) ([]*entity.DailyTotal, error) {
	start, end := monthBounds(month, year)

	var rows []struct {
		Day    int
		Amount float64
	}
	err := repo.db.WithContext(ctx).Raw(`
		SELECT EXTRACT(DAY FROM date)::int AS day, COALESCE(SUM(amount), 0) AS amount
		FROM transactions
		WHERE user_id = ? AND type = 'expense' AND date >= ? AND date < ?
		GROUP BY 1
		ORDER BY 1`,
		userID, start, end,
	).Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute daily totals")
	}

	totals := make([]*entity.DailyTotal, 0, len(rows))
	for _, row := range rows {
		totals = append(totals, &entity.DailyTotal{Day: row.Day, Amount: row.Amount})
	}

	return totals, nil
}

// ExpenseSumForMonth returns the total spent in one month.
func (repo *analyticsRepository) ExpenseSumForMonth(ctx context.Context, userID uuid.UUID, month, year int) (float64, error) {
	start, end := monthBounds(month, year)

	var sum float64
	err := repo.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = ? AND type = 'expense' AND date >= ? AND date < ?`,
		userID, start, end,
	).Scan(&sum).Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to compute expense sum")
	}

	return sum, nil
}

func monthBounds(month, year int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)

	return start, start.AddDate(0, 1, 0)
}
