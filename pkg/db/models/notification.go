package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/podomall/podomall-backend/pkg/enums"
)

// Notification stores outcome events surfaced to the shopper.
type Notification struct {
	ID        int64                   `gorm:"primaryKey;autoIncrement"`
	UserID    uuid.UUID               `gorm:"type:uuid;not null;index"`
	Level     enums.NotificationLevel `gorm:"type:text;not null"`
	Message   string                  `gorm:"type:text;not null"`
	ReadAt    *time.Time              `gorm:"column:read_at"`
	CreatedAt time.Time               `gorm:"column:created_at;autoCreateTime"`
}
