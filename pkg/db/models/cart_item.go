package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rentiva/rentiva-backend/pkg/enums"
)

// CartItem holds at most one row per user/product pair. Quantity changes
// overwrite in place; setting quantity to zero deletes the row.
type CartItem struct {
	UserID          uuid.UUID             `gorm:"column:user_id;type:uuid;primaryKey"`
	ProductID       int64                 `gorm:"column:product_id;primaryKey"`
	Quantity        int                   `gorm:"column:quantity;not null"`
	TransactionType enums.TransactionType `gorm:"column:transaction_type;not null"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
