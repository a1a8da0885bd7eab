package pricing

import (
	"testing"

	"github.com/podomall/podomall-backend/pkg/config"
)

func defaultCalculator(t *testing.T) *Calculator {
	t.Helper()
	calc, err := NewCalculator(config.PricingConfig{
		ShippingFeeKRW: 15000,
		ServiceFeeKRW:  3000,
		DutyRate:       "0.10",
	})
	if err != nil {
		t.Fatalf("new calculator: %v", err)
	}
	return calc
}

func TestQuoteSingleLine(t *testing.T) {
	calc := defaultCalculator(t)

	totals := calc.Quote([]Line{{UnitPriceKRW: 129900, Quantity: 1}})

	if totals.ProductKRW != 129900 {
		t.Fatalf("expected product 129900, got %d", totals.ProductKRW)
	}
	if totals.ShippingKRW != 15000 {
		t.Fatalf("expected shipping 15000, got %d", totals.ShippingKRW)
	}
	if totals.DutyKRW != 12990 {
		t.Fatalf("expected duty 12990, got %d", totals.DutyKRW)
	}
	if totals.FeeKRW != 3000 {
		t.Fatalf("expected fee 3000, got %d", totals.FeeKRW)
	}
	if totals.PayKRW != 160890 {
		t.Fatalf("expected pay 160890, got %d", totals.PayKRW)
	}
}

func TestQuoteEmptyCart(t *testing.T) {
	calc := defaultCalculator(t)

	totals := calc.Quote(nil)
	if totals != (Totals{}) {
		t.Fatalf("expected all zeros for empty input, got %+v", totals)
	}
}

func TestQuoteMultipleLines(t *testing.T) {
	calc := defaultCalculator(t)

	totals := calc.Quote([]Line{
		{UnitPriceKRW: 10000, Quantity: 2},
		{UnitPriceKRW: 5500, Quantity: 3},
	})

	if totals.ProductKRW != 36500 {
		t.Fatalf("expected product 36500, got %d", totals.ProductKRW)
	}
	if totals.DutyKRW != 3650 {
		t.Fatalf("expected duty 3650, got %d", totals.DutyKRW)
	}
	if totals.PayKRW != 36500+15000+3650+3000 {
		t.Fatalf("unexpected pay amount %d", totals.PayKRW)
	}
}

func TestQuoteDutyRoundsDown(t *testing.T) {
	calc, err := NewCalculator(config.PricingConfig{
		ShippingFeeKRW: 15000,
		ServiceFeeKRW:  3000,
		DutyRate:       "0.13",
	})
	if err != nil {
		t.Fatalf("new calculator: %v", err)
	}

	totals := calc.Quote([]Line{{UnitPriceKRW: 999, Quantity: 1}})
	// 999 * 0.13 = 129.87, floors to 129
	if totals.DutyKRW != 129 {
		t.Fatalf("expected duty 129, got %d", totals.DutyKRW)
	}
}

func TestNewCalculatorRejectsBadRate(t *testing.T) {
	if _, err := NewCalculator(config.PricingConfig{DutyRate: "abc"}); err == nil {
		t.Fatalf("expected error for invalid duty rate")
	}
	if _, err := NewCalculator(config.PricingConfig{DutyRate: "-0.1"}); err == nil {
		t.Fatalf("expected error for negative duty rate")
	}
}
