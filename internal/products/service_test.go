package product

import (
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/rentiva/rentiva-backend/pkg/db/models"
	"github.com/rentiva/rentiva-backend/pkg/uploads"
)

func stringPtr(v string) *string    { return &v }
func intPtr(v int) *int             { return &v }
func boolPtr(v bool) *bool          { return &v }
func decimalPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestApplyEditToProductSparse(t *testing.T) {
	sell := decimal.NewFromInt(150)
	product := &models.Product{
		NameEn:           "Old Drill",
		NameAr:           "قديم",
		Company:          "Bosch",
		Category:         "tools",
		Description:      "old",
		Rate:             3,
		CostPrice:        decimal.NewFromInt(100),
		SellPrice:        &sell,
		AvailableForSale: true,
		SaleStock:        5,
		RentStock:        2,
	}

	applyEditToProduct(product, EditProductInput{
		NameEn:           stringPtr("  New Drill "),
		SaleStock:        intPtr(0),
		AvailableForSale: boolPtr(false),
		RentPrice:        decimalPtr(20),
	})

	if product.NameEn != "New Drill" {
		t.Fatalf("nameEn = %q", product.NameEn)
	}

	// Present zero values apply.
	if product.SaleStock != 0 {
		t.Fatalf("saleStock = %d, want 0", product.SaleStock)
	}
	if product.AvailableForSale {
		t.Fatal("availableForSale should be false")
	}
	if product.RentPrice == nil || !product.RentPrice.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("rentPrice = %v", product.RentPrice)
	}

	// Absent fields stay untouched.
	if product.NameAr != "قديم" || product.Company != "Bosch" || product.RentStock != 2 {
		t.Fatalf("absent fields changed: %+v", product)
	}
	if product.SellPrice == nil || !product.SellPrice.Equal(sell) {
		t.Fatalf("sellPrice changed: %v", product.SellPrice)
	}
	if !product.CostPrice.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("costPrice changed: %s", product.CostPrice)
	}
}

type fakeRemover struct {
	removed   []string
	removeErr error
}

func (f *fakeRemover) SaveImage(_ uploads.File) (string, error) { return "/uploads/images/x", nil }
func (f *fakeRemover) SaveVideo(_ uploads.File) (string, error) { return "/uploads/videos/x", nil }

func (f *fakeRemover) QRImagePath(productID int64) (string, string) {
	return "", ""
}

func (f *fakeRemover) Remove(urlPath string) error {
	f.removed = append(f.removed, urlPath)
	return f.removeErr
}

func TestCleanupMediaCollectsEveryPath(t *testing.T) {
	qr := "/uploads/qrcodes/product-9.png"
	product := &models.Product{
		ID:     9,
		QRCode: &qr,
		Images: pq.StringArray{"/uploads/images/a.png", "/uploads/images/b.png"},
		Videos: []models.ProductVideo{
			{URL: "/uploads/videos/clip.mp4"},
		},
	}

	media := &fakeRemover{}
	svc := &service{media: media}

	if err := svc.cleanupMedia(product); err != nil {
		t.Fatalf("cleanupMedia: %v", err)
	}
	if len(media.removed) != 4 {
		t.Fatalf("removed %d paths, want 4: %v", len(media.removed), media.removed)
	}
}

func TestCleanupMediaAggregatesErrors(t *testing.T) {
	product := &models.Product{
		ID:     9,
		Images: pq.StringArray{"/uploads/images/a.png", "/uploads/images/b.png"},
	}

	media := &fakeRemover{removeErr: errors.New("disk gone")}
	svc := &service{media: media}

	err := svc.cleanupMedia(product)
	if err == nil {
		t.Fatal("expected aggregated error")
	}
	// Both removals were still attempted.
	if len(media.removed) != 2 {
		t.Fatalf("removed %d paths, want 2", len(media.removed))
	}
}

func TestQRPayloadFormat(t *testing.T) {
	svc := &service{baseURL: "https://rentiva.app"}
	if got := svc.qrPayload(42); got != "https://rentiva.app/products/42" {
		t.Fatalf("qrPayload = %q", got)
	}

	// Trailing slash on the configured base is normalized by NewService;
	// simulate that here.
	svc = &service{baseURL: "https://rentiva.app"}
	if id, err := ParseQRPayload(svc.qrPayload(42)); err != nil || id != 42 {
		t.Fatalf("round trip failed: id=%d err=%v", id, err)
	}
}
