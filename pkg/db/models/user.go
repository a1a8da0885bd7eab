package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents the shopper identity provisioned from the auth collaborator.
type User struct {
	ID                    uuid.UUID     `gorm:"type:uuid;primaryKey"`
	Email                 string        `gorm:"type:text;not null;uniqueIndex"`
	Name                  *string       `gorm:"column:name"`
	Phone                 *string       `gorm:"column:phone"`
	PersonalCustomsNumber *string       `gorm:"column:personal_customs_number"`
	Addresses             []UserAddress `gorm:"foreignKey:UserID"`
	CreatedAt             time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}
