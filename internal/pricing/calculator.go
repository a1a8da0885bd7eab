package pricing

import (
	"fmt"

	"github.com/podomall/podomall-backend/pkg/config"
	"github.com/shopspring/decimal"
)

// Line is one priced row entering the calculator.
type Line struct {
	UnitPriceKRW int64
	Quantity     int
}

// Totals breaks down the amount a shopper pays at checkout. All values are KRW.
type Totals struct {
	ProductKRW  int64 `json:"total_product_krw"`
	ShippingKRW int64 `json:"total_shipping_krw"`
	DutyKRW     int64 `json:"total_duty_krw"`
	FeeKRW      int64 `json:"total_fee_krw"`
	PayKRW      int64 `json:"total_pay_krw"`
}

// Calculator computes checkout totals from the configured fee schedule.
type Calculator struct {
	shippingFeeKRW int64
	serviceFeeKRW  int64
	dutyRate       decimal.Decimal
}

// NewCalculator builds a calculator from the pricing configuration.
func NewCalculator(cfg config.PricingConfig) (*Calculator, error) {
	if cfg.ShippingFeeKRW < 0 {
		return nil, fmt.Errorf("shipping fee must not be negative")
	}
	if cfg.ServiceFeeKRW < 0 {
		return nil, fmt.Errorf("service fee must not be negative")
	}
	rate, err := decimal.NewFromString(cfg.DutyRate)
	if err != nil {
		return nil, fmt.Errorf("parsing duty rate %q: %w", cfg.DutyRate, err)
	}
	if rate.IsNegative() {
		return nil, fmt.Errorf("duty rate must not be negative")
	}
	return &Calculator{
		shippingFeeKRW: cfg.ShippingFeeKRW,
		serviceFeeKRW:  cfg.ServiceFeeKRW,
		dutyRate:       rate,
	}, nil
}

// Quote derives the totals for the given lines. An empty input quotes zero for
// every component; shipping and service fees apply only to non-empty carts.
func (c *Calculator) Quote(lines []Line) Totals {
	if len(lines) == 0 {
		return Totals{}
	}

	var product int64
	for _, line := range lines {
		product += line.UnitPriceKRW * int64(line.Quantity)
	}

	duty := c.dutyFor(product)
	totals := Totals{
		ProductKRW:  product,
		ShippingKRW: c.shippingFeeKRW,
		DutyKRW:     duty,
		FeeKRW:      c.serviceFeeKRW,
	}
	totals.PayKRW = totals.ProductKRW + totals.ShippingKRW + totals.DutyKRW + totals.FeeKRW
	return totals
}

// dutyFor rounds the duty down to a whole KRW amount.
func (c *Calculator) dutyFor(productKRW int64) int64 {
	return c.dutyRate.Mul(decimal.NewFromInt(productKRW)).Floor().IntPart()
}
