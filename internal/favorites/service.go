package favorites

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	products "github.com/rentiva/rentiva-backend/internal/products"
	"github.com/rentiva/rentiva-backend/pkg/db"
	pkgerrors "github.com/rentiva/rentiva-backend/pkg/errors"
	"github.com/rentiva/rentiva-backend/pkg/logger"
)

// UserFavoritesDTO is the favorites list returned after a mutation.
type UserFavoritesDTO struct {
	UserID    uuid.UUID             `json:"userId"`
	Favorites []products.ProductDTO `json:"favorites"`
}

// Service exposes favorites management.
type Service interface {
	Add(ctx context.Context, userID uuid.UUID, productID int64) (*UserFavoritesDTO, error)
	Remove(ctx context.Context, userID uuid.UUID, productID int64) (*UserFavoritesDTO, error)
}

// ServiceParams groups dependencies for the favorites service.
type ServiceParams struct {
	Repo   *Repository
	Logger *logger.Logger
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService builds a favorites service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("favorites repository required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: params.Repo, logg: params.Logger}, nil
}

// Add links the product to the user's favorites and returns the full list.
// The insert is idempotent; favoriting twice is not an error.
func (s *service) Add(ctx context.Context, userID uuid.UUID, productID int64) (*UserFavoritesDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	if err := s.repo.AddFavorite(ctx, userID, productID); err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "Product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: add favorite")
	}

	return s.loadFavorites(ctx, userID)
}

// Remove drops the link regardless of prior state and returns the full list.
func (s *service) Remove(ctx context.Context, userID uuid.UUID, productID int64) (*UserFavoritesDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	if err := s.repo.RemoveFavorite(ctx, userID, productID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: remove favorite")
	}

	return s.loadFavorites(ctx, userID)
}

func (s *service) loadFavorites(ctx context.Context, userID uuid.UUID) (*UserFavoritesDTO, error) {
	user, err := s.repo.FindUserWithFavorites(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load favorites")
	}

	return &UserFavoritesDTO{
		UserID:    user.ID,
		Favorites: products.NewProductDTOs(user.Favorites),
	}, nil
}
