package entity

import (
	"time"

	"github.com/google/uuid"
)

// Budget is a per-user spending cap for one calendar month.
// Preserve marks the budget for carry-over into following months.
type Budget struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Month     int // 1-12
	Year      int
	Amount    float64
	Preserve  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BudgetStatus compares the current month's budget against actual spending.
type BudgetStatus struct {
	Budget      *Budget // Nil when no budget is set for the month.
	Month       int
	Year        int
	Spent       float64
	Remaining   float64
	PercentUsed float64
	OverBudget  bool
}
