package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/podomall/podomall-backend/internal/pricing"
	"github.com/podomall/podomall-backend/pkg/db"
	"github.com/podomall/podomall-backend/pkg/db/models"
	pkgerrors "github.com/podomall/podomall-backend/pkg/errors"
	"gorm.io/gorm"
)

type productFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Product, error)
}

type quoter interface {
	Quote(lines []pricing.Line) pricing.Totals
}

// View is the cart projection returned to controllers: items plus the totals
// the shopper would pay if they checked out right now.
type View struct {
	CartID int64             `json:"cart_id"`
	Items  []models.CartItem `json:"items"`
	Totals pricing.Totals    `json:"totals"`
}

// Service defines the cart operations.
type Service interface {
	GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	GetCart(ctx context.Context, userID uuid.UUID) (*View, error)
	AddItem(ctx context.Context, userID uuid.UUID, productID int64, quantity int) (*models.CartItem, error)
	UpdateQuantity(ctx context.Context, userID uuid.UUID, itemID int64, quantity int) (*models.CartItem, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, itemID int64) error
}

type service struct {
	repo     Repository
	products productFinder
	pricer   quoter
}

// NewService builds a cart service with the required dependencies.
func NewService(repo Repository, products productFinder, pricer quoter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	if pricer == nil {
		return nil, fmt.Errorf("pricing calculator required")
	}
	return &service{
		repo:     repo,
		products: products,
		pricer:   pricer,
	}, nil
}

// GetOrCreateCart relies on the carts.user_id unique index instead of a
// check-then-create: a losing racer re-fetches the winner's row.
func (s *service) GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	cart, err := s.repo.FindCartByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}

	created, err := s.repo.CreateCart(ctx, &models.Cart{UserID: userID})
	if err != nil {
		if db.IsUniqueViolation(err, "idx_carts_user_id") {
			existing, findErr := s.repo.FindCartByUser(ctx, userID)
			if findErr != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, findErr, "loading cart after create race")
			}
			return existing, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating cart")
	}
	return created, nil
}

func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*View, error) {
	cart, err := s.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.FindItems(ctx, cart.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart items")
	}

	lines := make([]pricing.Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, pricing.Line{UnitPriceKRW: item.PriceKRW, Quantity: item.Quantity})
	}

	return &View{
		CartID: cart.ID,
		Items:  items,
		Totals: s.pricer.Quote(lines),
	}, nil
}

func (s *service) AddItem(ctx context.Context, userID uuid.UUID, productID int64, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidQuantity, "quantity must be at least 1").
			WithDetails(map[string]any{"quantity": quantity})
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available").
			WithDetails(map[string]any{"field": "product_id"})
	}
	if !product.StockStatus.Purchasable() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is out of stock").
			WithDetails(map[string]any{"field": "product_id"})
	}

	cart, err := s.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindItemByProduct(ctx, cart.ID, productID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart item")
	}
	if err == nil {
		return s.mergeItem(ctx, cart.ID, existing, quantity, product.PriceKRW)
	}

	item := &models.CartItem{
		CartID:    cart.ID,
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		PriceKRW:  product.PriceKRW,
	}
	created, err := s.repo.CreateItem(ctx, item)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_cart_items_cart_product") {
			// Concurrent insert for the same (cart, product) pair. Merge into
			// the row the other request won.
			raced, findErr := s.repo.FindItemByProduct(ctx, cart.ID, productID)
			if findErr != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDuplicateKey, findErr, "cart item already exists")
			}
			return s.mergeItem(ctx, cart.ID, raced, quantity, product.PriceKRW)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "adding cart item")
	}
	return created, nil
}

func (s *service) mergeItem(ctx context.Context, cartID int64, existing *models.CartItem, quantity int, priceKRW int64) (*models.CartItem, error) {
	updates := map[string]any{
		"quantity":  existing.Quantity + quantity,
		"price_krw": priceKRW,
	}
	if err := s.repo.UpdateItem(ctx, existing.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating cart item")
	}
	merged, err := s.repo.FindItem(ctx, cartID, existing.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading cart item")
	}
	return merged, nil
}

func (s *service) UpdateQuantity(ctx context.Context, userID uuid.UUID, itemID int64, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidQuantity, "quantity must be at least 1").
			WithDetails(map[string]any{"quantity": quantity})
	}

	cart, err := s.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindItem(ctx, cart.ID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart item")
	}

	if err := s.repo.UpdateItem(ctx, item.ID, map[string]any{"quantity": quantity}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating quantity")
	}

	updated, err := s.repo.FindItem(ctx, cart.ID, item.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading cart item")
	}
	return updated, nil
}

// RemoveItem is idempotent: deleting an absent item is not an error.
func (s *service) RemoveItem(ctx context.Context, userID uuid.UUID, itemID int64) error {
	cart, err := s.GetOrCreateCart(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteItem(ctx, cart.ID, itemID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing cart item")
	}
	return nil
}
