package product

import (
	"testing"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rentiva/rentiva-backend/pkg/db/models"
)

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, category string) *models.Product {
	t.Helper()
	sell := decimal.NewFromInt(150)
	product := &models.Product{
		NameEn:           "Test Drill",
		NameAr:           "مثقاب اختبار",
		Company:          "Bosch",
		Category:         category,
		Description:      "Cordless drill for repo tests",
		Rate:             4,
		CostPrice:        decimal.NewFromInt(100),
		SellPrice:        &sell,
		AvailableForSale: true,
		SaleStock:        5,
		Images:           pq.StringArray{"/uploads/images/test.png"},
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}
