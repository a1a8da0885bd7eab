package checkout

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/podomall/podomall-backend/internal/cart"
	"github.com/podomall/podomall-backend/internal/notifications"
	"github.com/podomall/podomall-backend/internal/pricing"
	"github.com/podomall/podomall-backend/internal/users"
	"github.com/podomall/podomall-backend/pkg/db"
	"github.com/podomall/podomall-backend/pkg/db/models"
	"github.com/podomall/podomall-backend/pkg/enums"
	pkgerrors "github.com/podomall/podomall-backend/pkg/errors"
	"github.com/podomall/podomall-backend/pkg/logger"
	"github.com/podomall/podomall-backend/pkg/metrics"
	"github.com/podomall/podomall-backend/pkg/types"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type quoter interface {
	Quote(lines []pricing.Line) pricing.Totals
}

type notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, level enums.NotificationLevel, message string) error
}

// Service converts a cart into an order, shipment and cleared cart in one
// transaction.
type Service interface {
	Execute(ctx context.Context, userID uuid.UUID, input Input) (*Result, error)
}

type service struct {
	orders   Repository
	carts    cart.Repository
	users    users.Repository
	tx       txRunner
	pricing  quoter
	notifier notifier
	metrics  *metrics.CheckoutMetrics
	logg     *logger.Logger
	now      func() time.Time

	// rng backs order number generation and is not safe for concurrent use.
	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewService builds a checkout service with the required dependencies.
func NewService(
	orders Repository,
	carts cart.Repository,
	userRepo users.Repository,
	tx txRunner,
	calc quoter,
	notifier notifications.Service,
	checkoutMetrics *metrics.CheckoutMetrics,
	logg *logger.Logger,
) (Service, error) {
	if orders == nil {
		return nil, fmt.Errorf("checkout repository required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if calc == nil {
		return nil, fmt.Errorf("pricing calculator required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifications service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		orders:   orders,
		carts:    carts,
		users:    userRepo,
		tx:       tx,
		pricing:  calc,
		notifier: notifier,
		metrics:  checkoutMetrics,
		logg:     logg,
		now:      time.Now,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Execute runs the checkout transaction. On commit the cart is empty and the
// order, its item snapshots and a PREPARING shipment exist; on any failure the
// transaction rolls back and the cart is untouched. Notifications and metrics
// are emitted after the transaction settles so they never roll back with it.
func (s *service) Execute(ctx context.Context, userID uuid.UUID, input Input) (*Result, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	started := s.now()
	result, err := s.run(ctx, userID, input)
	elapsed := s.now().Sub(started)

	if err != nil {
		s.metrics.ObserveDuration("failure", elapsed)
		s.metrics.IncFailure(string(pkgerrors.As(err).Code()))
		if notifyErr := s.notifier.Notify(ctx, userID, enums.NotificationLevelError, "주문 결제에 실패했습니다. 장바구니는 그대로 유지됩니다."); notifyErr != nil {
			s.logg.Error(ctx, "sending checkout failure notification", notifyErr)
		}
		return nil, err
	}

	s.metrics.ObserveDuration("success", elapsed)
	s.metrics.IncSuccess()
	ctx = s.logg.WithOrderNumber(ctx, result.OrderNumber)
	s.logg.Info(ctx, "checkout committed")
	message := fmt.Sprintf("주문이 완료되었습니다. 주문번호 %s", result.OrderNumber)
	if notifyErr := s.notifier.Notify(ctx, userID, enums.NotificationLevelSuccess, message); notifyErr != nil {
		s.logg.Error(ctx, "sending checkout success notification", notifyErr)
	}
	return result, nil
}

func (s *service) run(ctx context.Context, userID uuid.UUID, input Input) (*Result, error) {
	var result *Result
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		orders := s.orders.WithTx(tx)
		carts := s.carts.WithTx(tx)
		userRepo := s.users.WithTx(tx)

		// The FOR UPDATE lock on the cart row serializes concurrent
		// checkouts for the same user; the loser re-reads an empty cart.
		cartRow, err := carts.FindCartByUserForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return stepError("loading cart", pkgerrors.New(pkgerrors.CodeValidation, "cart is empty"))
			}
			return stepError("loading cart", err)
		}

		items, err := carts.FindItems(ctx, cartRow.ID)
		if err != nil {
			return stepError("loading cart items", err)
		}
		if len(items) == 0 {
			return stepError("loading cart items", pkgerrors.New(pkgerrors.CodeValidation, "cart is empty"))
		}

		address, err := s.resolveAddress(ctx, userRepo, userID, input)
		if err != nil {
			return stepError("resolving address", err)
		}

		if err := userRepo.UpdateCustomsNumber(ctx, userID, strings.TrimSpace(input.CustomsID)); err != nil {
			return stepError("saving customs number", err)
		}

		lines := make([]pricing.Line, 0, len(items))
		for _, item := range items {
			lines = append(lines, pricing.Line{UnitPriceKRW: item.PriceKRW, Quantity: item.Quantity})
		}
		totals := s.pricing.Quote(lines)

		order, err := s.createOrder(ctx, orders, userID, input, address, totals)
		if err != nil {
			return stepError("creating order", err)
		}

		orderItems := make([]models.OrderItem, 0, len(items))
		for _, item := range items {
			snapshot := models.OrderItem{
				OrderID:      order.ID,
				ProductID:    item.ProductID,
				NameSnapshot: fmt.Sprintf("product %d", item.ProductID),
				Quantity:     item.Quantity,
				UnitPriceKRW: item.PriceKRW,
				SubtotalKRW:  item.PriceKRW * int64(item.Quantity),
			}
			if item.Product != nil {
				snapshot.NameSnapshot = item.Product.NameKo
				snapshot.MallCode = item.Product.MallCode
				snapshot.ExternalID = item.Product.ExternalID
			}
			orderItems = append(orderItems, snapshot)
		}
		if err := orders.CreateOrderItems(ctx, orderItems); err != nil {
			return stepError("creating order items", err)
		}

		if _, err := orders.CreateShipment(ctx, &models.Shipment{
			OrderID: order.ID,
			Status:  enums.ShipmentStatusPreparing,
		}); err != nil {
			return stepError("creating shipment", err)
		}

		if err := carts.DeleteItems(ctx, cartRow.ID); err != nil {
			return stepError("clearing cart", err)
		}

		result = &Result{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			Totals:      totals,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// resolveAddress returns the shipping destination for the order. A supplied
// address id must belong to the user; inline fields are saved as a new address
// that becomes the default when the user had none.
func (s *service) resolveAddress(ctx context.Context, userRepo users.Repository, userID uuid.UUID, input Input) (*models.UserAddress, error) {
	if input.AddressID != nil {
		address, err := userRepo.FindAddressByID(ctx, userID, *input.AddressID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "address not found").
					WithDetails(map[string]any{"field": "address_id"})
			}
			return nil, err
		}
		return address, nil
	}

	count, err := userRepo.CountAddresses(ctx, userID)
	if err != nil {
		return nil, err
	}
	address, err := userRepo.CreateAddress(ctx, &models.UserAddress{
		UserID:       userID,
		Recipient:    strings.TrimSpace(input.Recipient),
		Phone:        strings.TrimSpace(input.Phone),
		PostalCode:   strings.TrimSpace(input.PostalCode),
		AddressLine1: strings.TrimSpace(input.AddressLine1),
		AddressLine2: input.AddressLine2,
		IsDefault:    count == 0,
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

// createOrder inserts the order row, retrying once with a fresh number when
// the generated order number collides.
// orderNumber serializes access to the generator so overlapping checkouts do
// not corrupt its state.
func (s *service) orderNumber(now time.Time) string {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return GenerateOrderNumber(now, s.rng)
}

func (s *service) createOrder(
	ctx context.Context,
	orders Repository,
	userID uuid.UUID,
	input Input,
	address *models.UserAddress,
	totals pricing.Totals,
) (*models.Order, error) {
	now := s.now().UTC()
	method := input.PaymentMethod
	paymentStatus := enums.PaymentStatusPaid

	for attempt := 0; attempt < 2; attempt++ {
		order := &models.Order{
			OrderNumber: s.orderNumber(now),
			UserID:      userID,
			Status:      enums.OrderStatusPaid,
			AddressID:   &address.ID,
			ShippingAddress: types.ShippingAddress{
				Recipient:    address.Recipient,
				Phone:        address.Phone,
				PostalCode:   address.PostalCode,
				AddressLine1: address.AddressLine1,
				AddressLine2: address.AddressLine2,
				CustomsID:    strings.TrimSpace(input.CustomsID),
			},
			PaymentMethod:    &method,
			PaymentStatus:    &paymentStatus,
			TotalProductKRW:  totals.ProductKRW,
			TotalShippingKRW: totals.ShippingKRW,
			TotalDutyKRW:     totals.DutyKRW,
			TotalFeeKRW:      totals.FeeKRW,
			TotalPayKRW:      totals.PayKRW,
			PaidAt:           &now,
		}
		created, err := orders.CreateOrder(ctx, order)
		if err == nil {
			return created, nil
		}
		if !db.IsUniqueViolation(err, "idx_orders_order_number") || attempt == 1 {
			return nil, err
		}
	}
	return nil, fmt.Errorf("unreachable")
}

// stepError classifies a failure inside the checkout transaction. Validation
// and quantity failures keep their code for the client; everything else
// becomes CHECKOUT_FAILED with the failing step named in the details.
func stepError(step string, err error) error {
	if pkgerrors.IsCode(err, pkgerrors.CodeValidation) || pkgerrors.IsCode(err, pkgerrors.CodeInvalidQuantity) {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeCheckoutFailed, err, "checkout failed").
		WithDetails(map[string]any{"step": step})
}
