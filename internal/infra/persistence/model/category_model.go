package model

import (
	"time"

	"github.com/google/uuid"
)

// CategoryModel mirrors the 'categories' table.
type CategoryModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_categories_user_name_kind"`
	Name      string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_categories_user_name_kind"`
	Kind      string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_categories_user_name_kind"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (CategoryModel) TableName() string {
	return "categories"
}
