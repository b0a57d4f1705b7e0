package models

import "time"

// ProductVideo is owned exclusively by its product and is removed with it.
type ProductVideo struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID int64     `gorm:"column:product_id;not null;index:product_videos_product_id_idx"`
	Name      string    `gorm:"column:name;not null"`
	Bio       string    `gorm:"column:bio;not null;default:''"`
	URL       string    `gorm:"column:url;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
