package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rentiva/rentiva-backend/pkg/db"
	"github.com/rentiva/rentiva-backend/pkg/db/models"
	"github.com/rentiva/rentiva-backend/pkg/enums"
	pkgerrors "github.com/rentiva/rentiva-backend/pkg/errors"
	"github.com/rentiva/rentiva-backend/pkg/logger"
)

type fakeProductReader struct {
	products map[int64]*models.Product
}

func (f *fakeProductReader) FindByID(_ context.Context, id int64) (*models.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newTestService(t *testing.T, products map[int64]*models.Product) Service {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.Migrator().DropTable(&models.CartItem{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}
	if err := conn.AutoMigrate(&models.CartItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	svc, err := NewService(ServiceParams{
		Repo:        NewRepository(conn),
		DBClient:    db.NewFromConn(conn),
		ProductRepo: &fakeProductReader{products: products},
		Logger:      logger.New(logger.Options{ServiceName: "cart-test"}),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func saleProduct(id int64, saleStock int) *models.Product {
	sell := decimal.NewFromInt(150)
	return &models.Product{
		ID:               id,
		NameEn:           "Drill",
		CostPrice:        decimal.NewFromInt(100),
		SellPrice:        &sell,
		AvailableForSale: true,
		SaleStock:        saleStock,
		RentStock:        2,
	}
}

func TestAddToCartCreatesAndOverwrites(t *testing.T) {
	svc := newTestService(t, map[int64]*models.Product{1: saleProduct(1, 5)})
	userID := uuid.New()
	ctx := context.Background()

	result, err := svc.AddToCart(ctx, userID, AddToCartInput{
		ProductID:       1,
		Quantity:        3,
		TransactionType: enums.TransactionTypeSale,
	})
	if err != nil {
		t.Fatalf("add to cart: %v", err)
	}
	if result.Item == nil || result.Item.Quantity != 3 {
		t.Fatalf("unexpected result: %+v", result)
	}

	// A second add overwrites the quantity rather than accumulating.
	result, err = svc.AddToCart(ctx, userID, AddToCartInput{
		ProductID:       1,
		Quantity:        5,
		TransactionType: enums.TransactionTypeSale,
	})
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if result.Item.Quantity != 5 {
		t.Fatalf("quantity = %d, want 5", result.Item.Quantity)
	}

	items, err := svc.GetCart(ctx, userID)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("cart rows = %d, want 1", len(items))
	}
}

func TestAddToCartStockCheckByTransactionType(t *testing.T) {
	svc := newTestService(t, map[int64]*models.Product{1: saleProduct(1, 5)})
	userID := uuid.New()
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, userID, AddToCartInput{
		ProductID:       1,
		Quantity:        10,
		TransactionType: enums.TransactionTypeSale,
	})
	if err == nil {
		t.Fatal("expected insufficient stock error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("unexpected error: %v", err)
	}
	if typed.Message() != "Not enough stock. Only 5 units available." {
		t.Fatalf("message = %q", typed.Message())
	}

	// The rent pool is separate: 3 exceeds rentStock=2.
	_, err = svc.AddToCart(ctx, userID, AddToCartInput{
		ProductID:       1,
		Quantity:        3,
		TransactionType: enums.TransactionTypeRent,
	})
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("unexpected error: %v", err)
	}
	if typed.Message() != "Not enough stock. Only 2 units available." {
		t.Fatalf("message = %q", typed.Message())
	}
}

func TestAddToCartZeroQuantityPaths(t *testing.T) {
	svc := newTestService(t, map[int64]*models.Product{1: saleProduct(1, 5)})
	userID := uuid.New()
	ctx := context.Background()

	result, err := svc.AddToCart(ctx, userID, AddToCartInput{
		ProductID:       1,
		Quantity:        0,
		TransactionType: enums.TransactionTypeSale,
	})
	if err != nil {
		t.Fatalf("zero quantity with empty cart: %v", err)
	}
	if result.Message != "Product not found in cart, nothing to remove." {
		t.Fatalf("message = %q", result.Message)
	}

	if _, err := svc.AddToCart(ctx, userID, AddToCartInput{
		ProductID:       1,
		Quantity:        2,
		TransactionType: enums.TransactionTypeSale,
	}); err != nil {
		t.Fatalf("add: %v", err)
	}

	result, err = svc.AddToCart(ctx, userID, AddToCartInput{
		ProductID:       1,
		Quantity:        0,
		TransactionType: enums.TransactionTypeSale,
	})
	if err != nil {
		t.Fatalf("zero quantity with row: %v", err)
	}
	if result.Message != "Product removed from cart." {
		t.Fatalf("message = %q", result.Message)
	}

	items, err := svc.GetCart(ctx, userID)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("cart rows = %d, want 0", len(items))
	}
}

func TestAddToCartValidation(t *testing.T) {
	svc := newTestService(t, map[int64]*models.Product{1: saleProduct(1, 5)})
	userID := uuid.New()
	ctx := context.Background()

	cases := []struct {
		name  string
		input AddToCartInput
		code  pkgerrors.Code
	}{
		{
			name:  "negative quantity",
			input: AddToCartInput{ProductID: 1, Quantity: -1, TransactionType: enums.TransactionTypeSale},
			code:  pkgerrors.CodeValidation,
		},
		{
			name:  "unknown transaction type",
			input: AddToCartInput{ProductID: 1, Quantity: 1, TransactionType: enums.TransactionType("LEASE")},
			code:  pkgerrors.CodeValidation,
		},
		{
			name:  "missing product",
			input: AddToCartInput{ProductID: 99, Quantity: 1, TransactionType: enums.TransactionTypeSale},
			code:  pkgerrors.CodeNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.AddToCart(ctx, userID, tc.input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != tc.code {
				t.Fatalf("expected code %s, got %v", tc.code, err)
			}
		})
	}
}

func TestUpsertErrorClassification(t *testing.T) {
	dup := errors.New(`ERROR: duplicate key value violates unique constraint "cart_items_pkey" (SQLSTATE 23505)`)
	typed := pkgerrors.As(upsertError(dup))
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("duplicate key mapped to %v, want conflict", typed)
	}

	typed = pkgerrors.As(upsertError(errors.New("connection refused")))
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("generic failure mapped to %v, want dependency", typed)
	}
}
