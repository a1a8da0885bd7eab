package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/podomall/podomall-backend/internal/shipping"
	pkgerrors "github.com/podomall/podomall-backend/pkg/errors"
	"github.com/podomall/podomall-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Service serves order history reads.
type Service interface {
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*List, error)
	Detail(ctx context.Context, userID uuid.UUID, orderID int64) (*Detail, error)
}

type service struct {
	repo Repository
}

// NewService builds an orders service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*List, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	rows, nextCursor, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return &List{
		Orders:     rows,
		NextCursor: nextCursor,
	}, nil
}

// Detail returns NOT_FOUND both for a missing order and for another user's
// order; callers cannot distinguish the two.
func (s *service) Detail(ctx context.Context, userID uuid.UUID, orderID int64) (*Detail, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if orderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	order, err := s.repo.FindDetail(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}

	return &Detail{
		Order:    order,
		Shipment: order.Shipment,
		Timeline: shipping.BuildTimeline(order, order.Shipment),
	}, nil
}
