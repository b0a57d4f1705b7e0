package favorites

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentiva/rentiva-backend/pkg/db/models"
)

// Repository encapsulates favorites persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a favorites repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AddFavorite inserts the user/product link and ignores duplicates. There is
// no product existence pre-check; a missing product comes back as the foreign
// key violation from the database.
func (r *Repository) AddFavorite(ctx context.Context, userID uuid.UUID, productID int64) error {
	return r.db.WithContext(ctx).
		Exec(`INSERT INTO user_favorites (user_id, product_id) VALUES (?, ?) ON CONFLICT (user_id, product_id) DO NOTHING`, userID, productID).
		Error
}

// RemoveFavorite deletes the link if it exists.
func (r *Repository) RemoveFavorite(ctx context.Context, userID uuid.UUID, productID int64) error {
	return r.db.WithContext(ctx).
		Exec(`DELETE FROM user_favorites WHERE user_id = ? AND product_id = ?`, userID, productID).
		Error
}

// FindUserWithFavorites loads the user together with the favorited products.
func (r *Repository) FindUserWithFavorites(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Favorites").
		First(&user, "id = ?", userID).
		Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
