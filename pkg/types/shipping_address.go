package types

import "strings"

// ShippingAddress is the value snapshot stored on an order. Orders copy the
// fields at checkout time, so later edits to the source address never change a
// placed order.
type ShippingAddress struct {
	Recipient    string  `json:"recipient"`
	Phone        string  `json:"phone"`
	PostalCode   string  `json:"postal_code"`
	AddressLine1 string  `json:"address_line1"`
	AddressLine2 *string `json:"address_line2,omitempty"`
	CustomsID    string  `json:"customs_id,omitempty"`
}

// Complete reports whether every required shipping field carries a value.
func (a ShippingAddress) Complete() bool {
	return strings.TrimSpace(a.Recipient) != "" &&
		strings.TrimSpace(a.Phone) != "" &&
		strings.TrimSpace(a.PostalCode) != "" &&
		strings.TrimSpace(a.AddressLine1) != ""
}
