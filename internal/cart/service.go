package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentiva/rentiva-backend/pkg/db"
	"github.com/rentiva/rentiva-backend/pkg/db/models"
	"github.com/rentiva/rentiva-backend/pkg/enums"
	pkgerrors "github.com/rentiva/rentiva-backend/pkg/errors"
	"github.com/rentiva/rentiva-backend/pkg/logger"
)

const (
	msgNothingToRemove = "Product not found in cart, nothing to remove."
	msgRemoved         = "Product removed from cart."
)

// AddToCartInput is the validated payload for a cart mutation.
type AddToCartInput struct {
	ProductID       int64
	Quantity        int
	TransactionType enums.TransactionType
}

// CartResult is the outcome of a cart mutation: either a removal message or
// the written cart row.
type CartResult struct {
	Message string       `json:"message,omitempty"`
	Item    *CartItemDTO `json:"item,omitempty"`
}

// CartItemDTO is one cart row returned to clients.
type CartItemDTO struct {
	UserID          uuid.UUID `json:"userId"`
	ProductID       int64     `json:"productId"`
	Quantity        int       `json:"quantity"`
	TransactionType string    `json:"transactionType"`
}

type productReader interface {
	FindByID(ctx context.Context, id int64) (*models.Product, error)
}

// Service exposes shopping cart operations.
type Service interface {
	AddToCart(ctx context.Context, userID uuid.UUID, input AddToCartInput) (*CartResult, error)
	GetCart(ctx context.Context, userID uuid.UUID) ([]CartItemDTO, error)
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	Repo        *Repository
	DBClient    *db.Client
	ProductRepo productReader
	Logger      *logger.Logger
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	products productReader
	logg     *logger.Logger
}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.DBClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if params.ProductRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     params.Repo,
		dbClient: params.DBClient,
		products: params.ProductRepo,
		logg:     params.Logger,
	}, nil
}

// AddToCart sets the cart quantity for a user/product pair. A zero quantity
// removes the row; a positive quantity overwrites it after checking the stock
// pool matching the transaction type. The lookup-then-write runs inside a
// transaction so concurrent adds for the same pair converge.
func (s *service) AddToCart(ctx context.Context, userID uuid.UUID, input AddToCartInput) (*CartResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Invalid quantity")
	}
	if !input.TransactionType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid transaction type")
	}

	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	stock := product.RentStock
	if input.TransactionType == enums.TransactionTypeSale {
		stock = product.SaleStock
	}
	if input.Quantity > stock {
		return nil, pkgerrors.New(
			pkgerrors.CodeInsufficientStock,
			fmt.Sprintf("Not enough stock. Only %d units available.", stock),
		).WithDetails(map[string]any{"available": stock})
	}

	if input.Quantity == 0 {
		return s.removeItem(ctx, userID, input.ProductID)
	}

	item := &models.CartItem{
		UserID:          userID,
		ProductID:       input.ProductID,
		Quantity:        input.Quantity,
		TransactionType: input.TransactionType,
	}
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).UpsertItem(ctx, item)
	}); err != nil {
		return nil, upsertError(err)
	}

	return &CartResult{Item: newCartItemDTO(item)}, nil
}

// upsertError classifies a failed cart write. The upsert resolves conflicts on
// the composite key itself, so a duplicate key error escaping it means the row
// was written concurrently under an isolation level the conflict clause does
// not cover. That case is retryable and surfaces as a conflict.
func upsertError(err error) error {
	if db.IsUniqueViolation(err, "cart_items") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "Cart was updated concurrently, retry the request.")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: upsert cart item")
}

// GetCart lists the user's cart rows.
func (s *service) GetCart(ctx context.Context, userID uuid.UUID) ([]CartItemDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	items, err := s.repo.ListItems(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list cart items")
	}
	dtos := make([]CartItemDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *newCartItemDTO(&items[i]))
	}
	return dtos, nil
}

func (s *service) removeItem(ctx context.Context, userID uuid.UUID, productID int64) (*CartResult, error) {
	result := &CartResult{}
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.FindItem(ctx, userID, productID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result.Message = msgNothingToRemove
				return nil
			}
			return err
		}
		if err := txRepo.DeleteItem(ctx, userID, productID); err != nil {
			return err
		}
		result.Message = msgRemoved
		return nil
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: remove cart item")
	}
	return result, nil
}

func newCartItemDTO(item *models.CartItem) *CartItemDTO {
	return &CartItemDTO{
		UserID:          item.UserID,
		ProductID:       item.ProductID,
		Quantity:        item.Quantity,
		TransactionType: item.TransactionType.String(),
	}
}
