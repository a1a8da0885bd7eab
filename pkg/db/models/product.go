package models

import (
	"time"

	"github.com/podomall/podomall-backend/pkg/enums"
)

// Product is a catalog entry sourced from partner malls. Prices are stored in
// KRW alongside the optional original-currency listing price. Orders snapshot
// the fields they need, so a product row is effectively immutable once
// referenced by an order.
type Product struct {
	ID            int64             `gorm:"primaryKey;autoIncrement"`
	ExternalID    *string           `gorm:"column:external_id;type:text"`
	MallCode      *string           `gorm:"column:mall_code;type:text"`
	NameKo        string            `gorm:"column:name_ko;type:text;not null"`
	NameOriginal  *string           `gorm:"column:name_original;type:text"`
	Brand         *string           `gorm:"type:text"`
	Category      *string           `gorm:"type:text"`
	ImageURL      *string           `gorm:"column:image_url;type:text"`
	Currency      *string           `gorm:"type:text"`
	PriceOriginal *int64            `gorm:"column:price_original"`
	PriceKRW      int64             `gorm:"column:price_krw;not null"`
	StockStatus   enums.StockStatus `gorm:"column:stock_status;type:text;not null;default:'IN_STOCK'"`
	IsActive      bool              `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
