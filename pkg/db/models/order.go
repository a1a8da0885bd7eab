package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/podomall/podomall-backend/pkg/enums"
	"github.com/podomall/podomall-backend/pkg/types"
)

// Order is the immutable record of a checkout event. The five money fields are
// fixed at checkout from the pricing calculator and never recomputed:
// TotalPayKRW == TotalProductKRW + TotalShippingKRW + TotalDutyKRW + TotalFeeKRW.
type Order struct {
	ID               int64                 `gorm:"primaryKey;autoIncrement"`
	OrderNumber      string                `gorm:"column:order_number;type:text;not null;uniqueIndex:idx_orders_order_number"`
	UserID           uuid.UUID             `gorm:"type:uuid;not null;index"`
	Status           enums.OrderStatus     `gorm:"type:text;not null;default:'PENDING'"`
	AddressID        *int64                `gorm:"column:address_id"`
	ShippingAddress  types.ShippingAddress `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	PaymentMethod    *enums.PaymentMethod  `gorm:"column:payment_method;type:text"`
	PaymentStatus    *enums.PaymentStatus  `gorm:"column:payment_status;type:text"`
	TotalProductKRW  int64                 `gorm:"column:total_product_krw;not null"`
	TotalShippingKRW int64                 `gorm:"column:total_shipping_krw;not null"`
	TotalDutyKRW     int64                 `gorm:"column:total_duty_krw;not null"`
	TotalFeeKRW      int64                 `gorm:"column:total_fee_krw;not null"`
	TotalPayKRW      int64                 `gorm:"column:total_pay_krw;not null"`
	PaidAt           *time.Time            `gorm:"column:paid_at"`
	Items            []OrderItem           `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Shipment         *Shipment             `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
