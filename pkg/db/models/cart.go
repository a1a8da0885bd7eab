package models

import (
	"time"

	"github.com/google/uuid"
)

// Cart is owned 1:1 by a user. It is created lazily on the first add-to-cart
// and never deleted; a successful checkout clears its items only. The unique
// index on user_id is what makes concurrent provisioning safe.
type Cart struct {
	ID        int64      `gorm:"primaryKey;autoIncrement"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_carts_user_id"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
