package entity

import (
	"time"

	"github.com/google/uuid"
)

// Category labels transactions; each user gets a default set at signup and
// can add their own. (UserID, Name, Kind) is unique.
type Category struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Kind      TransactionType
	CreatedAt time.Time
}

// DefaultCategories returns the starter set created for every new user.
func DefaultCategories() []Category {
	expense := []string{"Food", "Transport", "Housing", "Utilities", "Entertainment", "Health", "Shopping", "Other"}
	income := []string{"Salary", "Freelance", "Investments", "Other"}

	categories := make([]Category, 0, len(expense)+len(income))
	for _, name := range expense {
		categories = append(categories, Category{Name: name, Kind: TransactionExpense})
	}
	for _, name := range income {
		categories = append(categories, Category{Name: name, Kind: TransactionIncome})
	}

	return categories
}
