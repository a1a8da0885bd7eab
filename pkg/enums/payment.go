package enums

import "fmt"

// PaymentMethod names the instrument the buyer selected at checkout. Payment is
// acknowledged, not processed; the method is recorded for display only.
type PaymentMethod string

const (
	PaymentMethodCard     PaymentMethod = "CARD"
	PaymentMethodKakaoPay PaymentMethod = "KAKAO_PAY"
	PaymentMethodNaverPay PaymentMethod = "NAVER_PAY"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCard,
	PaymentMethodKakaoPay,
	PaymentMethodNaverPay,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}

// PaymentStatus tracks the simulated payment acknowledgment.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
)

// String implements fmt.Stringer.
func (p PaymentStatus) String() string {
	return string(p)
}
