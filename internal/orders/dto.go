package orders

import (
	"time"

	"github.com/podomall/podomall-backend/internal/shipping"
	"github.com/podomall/podomall-backend/pkg/db/models"
	"github.com/podomall/podomall-backend/pkg/enums"
)

// Summary exposes the aggregated fields returned in the order list.
type Summary struct {
	ID          int64             `json:"id"`
	OrderNumber string            `json:"order_number"`
	Status      enums.OrderStatus `json:"status"`
	TotalPayKRW int64             `json:"total_pay_krw"`
	TotalItems  int               `json:"total_items"`
	CreatedAt   time.Time         `json:"created_at"`
}

// List wraps the paginated orders plus the next page cursor.
type List struct {
	Orders     []Summary `json:"orders"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// Detail is the single-order snapshot: the order with its items and shipment,
// plus the derived timeline.
type Detail struct {
	Order    *models.Order           `json:"order"`
	Shipment *models.Shipment        `json:"shipment,omitempty"`
	Timeline []shipping.TimelineStep `json:"timeline"`
}
