package enums

import "fmt"

// ShipmentStatus mirrors the carrier-facing subset of the order lifecycle.
type ShipmentStatus string

const (
	ShipmentStatusPreparing ShipmentStatus = "PREPARING"
	ShipmentStatusShipped   ShipmentStatus = "SHIPPED"
	ShipmentStatusInTransit ShipmentStatus = "IN_TRANSIT"
	ShipmentStatusCustoms   ShipmentStatus = "CUSTOMS"
	ShipmentStatusDelivered ShipmentStatus = "DELIVERED"
)

var validShipmentStatuses = []ShipmentStatus{
	ShipmentStatusPreparing,
	ShipmentStatusShipped,
	ShipmentStatusInTransit,
	ShipmentStatusCustoms,
	ShipmentStatusDelivered,
}

// String implements fmt.Stringer.
func (s ShipmentStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ShipmentStatus.
func (s ShipmentStatus) IsValid() bool {
	for _, candidate := range validShipmentStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// OrderStatus maps the shipment status onto the order lifecycle.
func (s ShipmentStatus) OrderStatus() OrderStatus {
	switch s {
	case ShipmentStatusPreparing:
		return OrderStatusPreparing
	case ShipmentStatusShipped:
		return OrderStatusShipped
	case ShipmentStatusInTransit:
		return OrderStatusInTransit
	case ShipmentStatusCustoms:
		return OrderStatusCustoms
	case ShipmentStatusDelivered:
		return OrderStatusDelivered
	default:
		return OrderStatusPreparing
	}
}

// ParseShipmentStatus converts raw input into a ShipmentStatus.
func ParseShipmentStatus(value string) (ShipmentStatus, error) {
	for _, candidate := range validShipmentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shipment status %q", value)
}
