package models

import (
	"time"

	"github.com/google/uuid"
)

// UserAddress is a saved shipping destination. Orders copy the fields at
// checkout time rather than referencing the row.
type UserAddress struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Recipient    string    `gorm:"type:text;not null"`
	Phone        string    `gorm:"type:text;not null"`
	PostalCode   string    `gorm:"column:postal_code;type:text;not null"`
	AddressLine1 string    `gorm:"column:address_line1;type:text;not null"`
	AddressLine2 *string   `gorm:"column:address_line2;type:text"`
	IsDefault    bool      `gorm:"column:is_default;not null;default:false"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
