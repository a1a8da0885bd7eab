package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/podomall/podomall-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence operations for the cart tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindCartByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	FindCartByUserForUpdate(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	CreateCart(ctx context.Context, cart *models.Cart) (*models.Cart, error)
	FindItems(ctx context.Context, cartID int64) ([]models.CartItem, error)
	FindItem(ctx context.Context, cartID, itemID int64) (*models.CartItem, error)
	FindItemByProduct(ctx context.Context, cartID, productID int64) (*models.CartItem, error)
	CreateItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	UpdateItem(ctx context.Context, itemID int64, updates map[string]any) error
	DeleteItem(ctx context.Context, cartID, itemID int64) error
	DeleteItems(ctx context.Context, cartID int64) error
}
