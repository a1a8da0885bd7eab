package shipping

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/podomall/podomall-backend/pkg/enums"
	pkgerrors "github.com/podomall/podomall-backend/pkg/errors"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CarrierUpdate is one tracking event reported by the logistics carrier.
type CarrierUpdate struct {
	OrderNumber    string               `json:"order_number" validate:"required"`
	Status         enums.ShipmentStatus `json:"status" validate:"required"`
	TrackingNumber *string              `json:"tracking_number,omitempty"`
	CarrierCode    *string              `json:"carrier_code,omitempty"`
	CarrierName    *string              `json:"carrier_name,omitempty"`
	OccurredAt     *time.Time           `json:"occurred_at,omitempty"`
}

// Service applies carrier updates to shipments and mirrors order status.
type Service interface {
	ApplyCarrierUpdate(ctx context.Context, update CarrierUpdate) error
}

type service struct {
	repo Repository
	tx   txRunner
	now  func() time.Time
}

// NewService builds a shipping service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("shipping repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo: repo,
		tx:   tx,
		now:  time.Now,
	}, nil
}

// ApplyCarrierUpdate advances the shipment to the reported status. Repeats of
// the current status are treated as already-applied and succeed without
// writing; backwards or otherwise illegal moves are STATE_CONFLICT.
func (s *service) ApplyCarrierUpdate(ctx context.Context, update CarrierUpdate) error {
	if strings.TrimSpace(update.OrderNumber) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order number required").
			WithDetails(map[string]any{"field": "order_number"})
	}
	if !update.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown shipment status").
			WithDetails(map[string]any{"field": "status"})
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrderByNumber(ctx, update.OrderNumber)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
		}

		shipment, err := repo.FindShipmentByOrderID(ctx, order.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "shipment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading shipment")
		}

		if shipment.Status == update.Status {
			return nil
		}
		if !CanTransitionShipment(shipment.Status, update.Status) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "illegal shipment transition").
				WithDetails(map[string]any{
					"from": shipment.Status.String(),
					"to":   update.Status.String(),
				})
		}

		occurred := s.now().UTC()
		if update.OccurredAt != nil {
			occurred = update.OccurredAt.UTC()
		}

		updates := map[string]any{
			"status":          update.Status,
			"last_updated_at": occurred,
		}
		if update.TrackingNumber != nil {
			updates["tracking_number"] = *update.TrackingNumber
		}
		if update.CarrierCode != nil {
			updates["carrier_code"] = *update.CarrierCode
		}
		if update.CarrierName != nil {
			updates["carrier_name"] = *update.CarrierName
		}
		switch update.Status {
		case enums.ShipmentStatusShipped:
			updates["shipped_at"] = occurred
		case enums.ShipmentStatusDelivered:
			updates["delivered_at"] = occurred
		}

		if err := repo.UpdateShipment(ctx, shipment.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating shipment")
		}

		// Mirror the order status forward only; a cancelled order stays put.
		mirrored := update.Status.OrderStatus()
		if CanTransition(order.Status, mirrored) {
			if err := repo.UpdateOrderStatus(ctx, order.ID, mirrored); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order status")
			}
		}
		return nil
	})
}
