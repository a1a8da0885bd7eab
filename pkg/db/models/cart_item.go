package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one (cart, product) line with a captured unit price. The
// composite unique index guarantees at most one row per pair; repeated adds
// increment the quantity instead.
type CartItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	CartID    int64     `gorm:"column:cart_id;not null;uniqueIndex:idx_cart_items_cart_product"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID int64     `gorm:"column:product_id;not null;uniqueIndex:idx_cart_items_cart_product"`
	Quantity  int       `gorm:"not null"`
	PriceKRW  int64     `gorm:"column:price_krw;not null"`
	Product   *Product  `gorm:"foreignKey:ProductID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
