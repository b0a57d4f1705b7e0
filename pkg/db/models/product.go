package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product is the canonical catalog entry. Items can be offered for rent, for
// sale, or both; each offer mode keeps its own price and stock pool.
type Product struct {
	ID               int64            `gorm:"column:id;primaryKey;autoIncrement"`
	NameEn           string           `gorm:"column:name_en;not null"`
	NameAr           string           `gorm:"column:name_ar;not null"`
	Company          string           `gorm:"column:company;not null"`
	Category         string           `gorm:"column:category;not null;index:products_category_idx"`
	Description      string           `gorm:"column:description;not null"`
	Rate             float64          `gorm:"column:rate;not null;default:0"`
	CostPrice        decimal.Decimal  `gorm:"column:cost_price;type:numeric(12,2);not null"`
	RentPrice        *decimal.Decimal `gorm:"column:rent_price;type:numeric(12,2)"`
	SellPrice        *decimal.Decimal `gorm:"column:sell_price;type:numeric(12,2)"`
	AvailableForRent bool             `gorm:"column:available_for_rent;not null;default:false"`
	AvailableForSale bool             `gorm:"column:available_for_sale;not null;default:false"`
	RentStock        int              `gorm:"column:rent_stock;not null;default:0"`
	SaleStock        int              `gorm:"column:sale_stock;not null;default:0"`
	Images           pq.StringArray   `gorm:"column:images;type:text[]"`
	QRCode           *string          `gorm:"column:qr_code"`
	Videos           []ProductVideo   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
