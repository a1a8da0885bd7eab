package checkout

import (
	"strings"

	"github.com/podomall/podomall-backend/internal/pricing"
	"github.com/podomall/podomall-backend/pkg/enums"
	pkgerrors "github.com/podomall/podomall-backend/pkg/errors"
)

// Input carries everything the shopper submits at checkout.
type Input struct {
	Recipient     string              `json:"recipient"`
	Phone         string              `json:"phone"`
	PostalCode    string              `json:"postal_code"`
	AddressLine1  string              `json:"address_line1"`
	AddressLine2  *string             `json:"address_line2,omitempty"`
	CustomsID     string              `json:"personal_customs_number"`
	AddressID     *int64              `json:"address_id,omitempty"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
}

// Result is returned on a committed checkout.
type Result struct {
	OrderID     int64          `json:"order_id"`
	OrderNumber string         `json:"order_number"`
	Totals      pricing.Totals `json:"totals"`
}

// validate checks field presence up front; each failure names the offending
// field. When an address id is supplied the inline address fields are
// resolved from the stored address instead.
func (in Input) validate() error {
	if in.AddressID == nil {
		for _, check := range []struct {
			field string
			value string
		}{
			{field: "recipient", value: in.Recipient},
			{field: "phone", value: in.Phone},
			{field: "postal_code", value: in.PostalCode},
			{field: "address_line1", value: in.AddressLine1},
		} {
			if strings.TrimSpace(check.value) == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, check.field+" required").
					WithDetails(map[string]any{"field": check.field})
			}
		}
	}
	if strings.TrimSpace(in.CustomsID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "personal customs number required").
			WithDetails(map[string]any{"field": "personal_customs_number"})
	}
	if !in.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method").
			WithDetails(map[string]any{"field": "payment_method"})
	}
	return nil
}
