package model

import (
	"time"

	"github.com/google/uuid"
)

// TransactionModel mirrors the 'transactions' table.
type TransactionModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_transactions_user_date"`
	Type        string    `gorm:"type:varchar(10);not null"`
	Amount      float64   `gorm:"type:numeric(14,2);not null"`
	Category    string    `gorm:"type:varchar(100);not null"`
	Description string    `gorm:"type:text"`
	Date        time.Time `gorm:"not null;index:idx_transactions_user_date"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (TransactionModel) TableName() string {
	return "transactions"
}
