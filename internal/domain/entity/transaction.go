package entity

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType discriminates income from expense rows.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// Valid reports whether the type is one of the two known kinds.
func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// Transaction represents a single income or expense record owned by a user.
type Transaction struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Type        TransactionType
	Amount      float64 // Always positive; Type carries the sign.
	Category    string
	Description string
	Date        time.Time // The day the transaction occurred, not when it was recorded.
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TransactionFilter narrows transaction listings.
type TransactionFilter struct {
	Type     TransactionType // Empty means both kinds.
	Category string
	From     *time.Time
	To       *time.Time
}
