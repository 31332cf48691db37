package model

import (
	"time"

	"github.com/google/uuid"
)

// BudgetModel mirrors the 'budgets' table. One budget per user per month.
type BudgetModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_budgets_user_month"`
	Month     int       `gorm:"not null;uniqueIndex:idx_budgets_user_month"`
	Year      int       `gorm:"not null;uniqueIndex:idx_budgets_user_month"`
	Amount    float64   `gorm:"type:numeric(14,2);not null"`
	Preserve  bool      `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (BudgetModel) TableName() string {
	return "budgets"
}
