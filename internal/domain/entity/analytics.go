package entity

// Overview summarizes a user's finances, all-time and for the current month.
type Overview struct {
	TotalIncome      float64
	TotalExpense     float64
	Balance          float64
	TransactionCount int64
	MonthIncome      float64
	MonthExpense     float64
}

// MonthlyTotal holds per-month income/expense sums for trend charts.
type MonthlyTotal struct {
	Month   int
	Year    int
	Income  float64
	Expense float64
}

// CategoryTotal is an expense sum aggregated by category name.
type CategoryTotal struct {
	Category string
	Amount   float64
	Percent  float64
}

// DailyTotal is the expense sum for one day of a month.
type DailyTotal struct {
	Day    int
	Amount float64
}
