package shipping

import (
	"time"

	"github.com/podomall/podomall-backend/pkg/db/models"
	"github.com/podomall/podomall-backend/pkg/enums"
)

// TimelineStep is one display row of the shipment progress view.
type TimelineStep struct {
	Key            string     `json:"key"`
	Label          string     `json:"label"`
	Status         string     `json:"status"`
	Complete       bool       `json:"complete"`
	Timestamp      *time.Time `json:"timestamp,omitempty"`
	TrackingNumber *string    `json:"tracking_number,omitempty"`
}

type timelineTemplate struct {
	key    string
	label  string
	status enums.OrderStatus
}

// The seven canonical display steps in lifecycle order.
var timelineTemplates = []timelineTemplate{
	{key: "ordered", label: "주문 접수", status: enums.OrderStatusPending},
	{key: "paid", label: "결제 완료", status: enums.OrderStatusPaid},
	{key: "preparing", label: "상품 준비중", status: enums.OrderStatusPreparing},
	{key: "shipped", label: "발송 완료", status: enums.OrderStatusShipped},
	{key: "in_transit", label: "현지 도착", status: enums.OrderStatusInTransit},
	{key: "customs", label: "통관 진행중", status: enums.OrderStatusCustoms},
	{key: "delivered", label: "배송 완료", status: enums.OrderStatusDelivered},
}

// BuildTimeline projects the order and shipment onto the seven canonical
// steps. A step is complete when the effective status is at or past it in the
// forward ordering. The projection never writes.
func BuildTimeline(order *models.Order, shipment *models.Shipment) []TimelineStep {
	if order == nil {
		return nil
	}

	current := effectiveStatus(order, shipment)
	currentRank := Rank(current)

	steps := make([]TimelineStep, 0, len(timelineTemplates))
	for _, tpl := range timelineTemplates {
		step := TimelineStep{
			Key:      tpl.key,
			Label:    tpl.label,
			Status:   tpl.status.String(),
			Complete: currentRank >= Rank(tpl.status),
		}
		step.Timestamp = stepTimestamp(tpl.status, order, shipment)
		if tpl.status == enums.OrderStatusShipped && shipment != nil {
			step.TrackingNumber = shipment.TrackingNumber
		}
		steps = append(steps, step)
	}
	return steps
}

// effectiveStatus prefers the shipment status when it is ahead of the order
// status, which covers carrier updates the order row has not mirrored yet.
func effectiveStatus(order *models.Order, shipment *models.Shipment) enums.OrderStatus {
	status := order.Status
	if status == enums.OrderStatusCancelled {
		return status
	}
	if shipment != nil {
		if mirrored := shipment.Status.OrderStatus(); Rank(mirrored) > Rank(status) {
			return mirrored
		}
	}
	return status
}

func stepTimestamp(status enums.OrderStatus, order *models.Order, shipment *models.Shipment) *time.Time {
	switch status {
	case enums.OrderStatusPending:
		created := order.CreatedAt
		return &created
	case enums.OrderStatusPaid:
		return order.PaidAt
	case enums.OrderStatusShipped:
		if shipment != nil {
			return shipment.ShippedAt
		}
	case enums.OrderStatusDelivered:
		if shipment != nil {
			return shipment.DeliveredAt
		}
	}
	return nil
}
