package models

import (
	"time"

	"github.com/podomall/podomall-backend/pkg/enums"
)

// Shipment is created together with its order in PREPARING state and advanced
// by carrier updates. Timestamps are set when the matching status is reached.
type Shipment struct {
	ID                 int64                `gorm:"primaryKey;autoIncrement"`
	OrderID            int64                `gorm:"column:order_id;not null;uniqueIndex:idx_shipments_order_id"`
	TrackingNumber     *string              `gorm:"column:tracking_number;type:text"`
	CarrierCode        *string              `gorm:"column:carrier_code;type:text"`
	CarrierName        *string              `gorm:"column:carrier_name;type:text"`
	Status             enums.ShipmentStatus `gorm:"type:text;not null;default:'PREPARING'"`
	OriginCountry      *string              `gorm:"column:origin_country;type:text"`
	DestinationCountry *string              `gorm:"column:destination_country;type:text"`
	ShippedAt          *time.Time           `gorm:"column:shipped_at"`
	DeliveredAt        *time.Time           `gorm:"column:delivered_at"`
	LastUpdatedAt      *time.Time           `gorm:"column:last_updated_at"`
	CreatedAt          time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
