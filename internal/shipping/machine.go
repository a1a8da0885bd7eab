package shipping

import "github.com/podomall/podomall-backend/pkg/enums"

// orderStatusRank fixes the forward ordering of the lifecycle. CANCELLED is
// deliberately absent: it is reachable from any non-terminal state but never
// part of the forward chain.
var orderStatusRank = map[enums.OrderStatus]int{
	enums.OrderStatusPending:   0,
	enums.OrderStatusPaid:      1,
	enums.OrderStatusPreparing: 2,
	enums.OrderStatusShipped:   3,
	enums.OrderStatusInTransit: 4,
	enums.OrderStatusCustoms:   5,
	enums.OrderStatusDelivered: 6,
}

// Rank returns the position of the status in the forward chain, or -1 for
// CANCELLED and unknown values.
func Rank(status enums.OrderStatus) int {
	rank, ok := orderStatusRank[status]
	if !ok {
		return -1
	}
	return rank
}

// CanTransition reports whether an order may move from one status to another.
// Transitions only run forward; CANCELLED is allowed from any non-terminal
// state; terminal states accept nothing.
func CanTransition(from, to enums.OrderStatus) bool {
	if !from.IsValid() || !to.IsValid() {
		return false
	}
	if from.IsTerminal() {
		return false
	}
	if to == enums.OrderStatusCancelled {
		return true
	}
	fromRank, ok := orderStatusRank[from]
	if !ok {
		return false
	}
	toRank, ok := orderStatusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

// CanTransitionShipment applies the same forward-only rule to the carrier
// facing subset.
func CanTransitionShipment(from, to enums.ShipmentStatus) bool {
	if !from.IsValid() || !to.IsValid() {
		return false
	}
	return CanTransition(from.OrderStatus(), to.OrderStatus())
}
