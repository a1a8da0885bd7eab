package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/podomall/podomall-backend/api/middleware"
	cartsvc "github.com/podomall/podomall-backend/internal/cart"
	"github.com/podomall/podomall-backend/internal/pricing"
	"github.com/podomall/podomall-backend/pkg/db/models"
	pkgerrors "github.com/podomall/podomall-backend/pkg/errors"
	"github.com/podomall/podomall-backend/pkg/types"
)

type stubCartService struct {
	view    *cartsvc.View
	viewErr error
	added   *models.CartItem
	addErr  error
}

func (s stubCartService) GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	return nil, nil
}

func (s stubCartService) GetCart(ctx context.Context, userID uuid.UUID) (*cartsvc.View, error) {
	return s.view, s.viewErr
}

func (s stubCartService) AddItem(ctx context.Context, userID uuid.UUID, productID int64, quantity int) (*models.CartItem, error) {
	return s.added, s.addErr
}

func (s stubCartService) UpdateQuantity(ctx context.Context, userID uuid.UUID, itemID int64, quantity int) (*models.CartItem, error) {
	return nil, nil
}

func (s stubCartService) RemoveItem(ctx context.Context, userID uuid.UUID, itemID int64) error {
	return nil
}

func authedRequest(method, target string, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
}

func TestGetCartSuccess(t *testing.T) {
	view := &cartsvc.View{
		CartID: 1,
		Items:  []models.CartItem{{ID: 5, ProductID: 7, Quantity: 2, PriceKRW: 50000}},
		Totals: pricing.Totals{ProductKRW: 100000, ShippingKRW: 15000, DutyKRW: 10000, FeeKRW: 3000, PayKRW: 128000},
	}
	handler := GetCart(stubCartService{view: view}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/cart", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data cartsvc.View `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Totals.PayKRW != 128000 {
		t.Fatalf("unexpected totals %+v", envelope.Data.Totals)
	}
}

func TestGetCartRequiresUser(t *testing.T) {
	handler := GetCart(stubCartService{}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartAddItemValidatesBody(t *testing.T) {
	handler := CartAddItem(stubCartService{}, nil)

	resp := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/api/v1/cart/items", `{"product_id":7}`)
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}

	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected code %s", envelope.Error.Code)
	}
}

func TestCartAddItemCreated(t *testing.T) {
	item := &models.CartItem{ID: 9, ProductID: 7, Quantity: 1, PriceKRW: 29900}
	handler := CartAddItem(stubCartService{added: item}, nil)

	resp := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/api/v1/cart/items", `{"product_id":7,"quantity":1}`)
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
}

func TestCartAddItemSurfacesInvalidQuantity(t *testing.T) {
	handler := CartAddItem(stubCartService{
		addErr: pkgerrors.New(pkgerrors.CodeInvalidQuantity, "quantity must be at least 1"),
	}, nil)

	resp := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/api/v1/cart/items", `{"product_id":7,"quantity":3}`)
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
