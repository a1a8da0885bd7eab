package enums

import "fmt"

// StockStatus flags catalog availability. Inventory counts are not tracked.
type StockStatus string

const (
	StockStatusInStock    StockStatus = "IN_STOCK"
	StockStatusLimited    StockStatus = "LIMITED"
	StockStatusOutOfStock StockStatus = "OUT_OF_STOCK"
)

var validStockStatuses = []StockStatus{
	StockStatusInStock,
	StockStatusLimited,
	StockStatusOutOfStock,
}

// String implements fmt.Stringer.
func (s StockStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StockStatus.
func (s StockStatus) IsValid() bool {
	for _, candidate := range validStockStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// Purchasable reports whether items with this status can be added to a cart.
func (s StockStatus) Purchasable() bool {
	return s == StockStatusInStock || s == StockStatusLimited
}

// ParseStockStatus converts raw input into a StockStatus.
func ParseStockStatus(value string) (StockStatus, error) {
	for _, candidate := range validStockStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock status %q", value)
}
