package models

import "time"

// OrderItem snapshots one purchased line at checkout time.
// SubtotalKRW == UnitPriceKRW * Quantity.
type OrderItem struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	OrderID      int64     `gorm:"column:order_id;not null;index"`
	ProductID    int64     `gorm:"column:product_id;not null"`
	MallCode     *string   `gorm:"column:mall_code;type:text"`
	ExternalID   *string   `gorm:"column:external_id;type:text"`
	NameSnapshot string    `gorm:"column:name_snapshot;type:text;not null"`
	Quantity     int       `gorm:"not null"`
	UnitPriceKRW int64     `gorm:"column:unit_price_krw;not null"`
	SubtotalKRW  int64     `gorm:"column:subtotal_krw;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
