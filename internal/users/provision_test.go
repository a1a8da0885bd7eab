package users

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/podomall/podomall-backend/pkg/db/models"
	pkgerrors "github.com/podomall/podomall-backend/pkg/errors"
	"github.com/podomall/podomall-backend/pkg/logger"
)

type stubCartProvider struct {
	cart *models.Cart
	err  error

	calls int
}

func (s *stubCartProvider) GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.cart, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test"})
}

func newProvision(t *testing.T, repo Repository, carts cartProvider) ProvisionService {
	t.Helper()
	svc, err := NewProvisionService(repo, carts, testLogger())
	if err != nil {
		t.Fatalf("new provision service: %v", err)
	}
	return svc
}

func TestProvisionCreatesProfileAndCart(t *testing.T) {
	t.Parallel()

	repo := &stubUsersRepo{}
	carts := &stubCartProvider{cart: &models.Cart{ID: 1}}
	svc := newProvision(t, repo, carts)

	userID := uuid.New()
	if err := svc.Provision(context.Background(), userID, "shopper@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.created == nil || repo.created.ID != userID {
		t.Fatalf("expected profile created for %s", userID)
	}
	if carts.calls != 1 {
		t.Fatalf("expected one cart provisioning call, got %d", carts.calls)
	}
}

func TestProvisionIdempotentOnExistingProfile(t *testing.T) {
	t.Parallel()

	repo := &stubUsersRepo{createErr: errors.New(`duplicate key value violates unique constraint "users_pkey"`)}
	carts := &stubCartProvider{cart: &models.Cart{ID: 1}}
	svc := newProvision(t, repo, carts)

	if err := svc.Provision(context.Background(), uuid.New(), "shopper@example.com"); err != nil {
		t.Fatalf("repeat provisioning must succeed, got %v", err)
	}
}

func TestProvisionValidatesInput(t *testing.T) {
	t.Parallel()

	svc := newProvision(t, &stubUsersRepo{}, &stubCartProvider{cart: &models.Cart{ID: 1}})

	if err := svc.Provision(context.Background(), uuid.Nil, "a@b.c"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR for nil user, got %v", err)
	}
	if err := svc.Provision(context.Background(), uuid.New(), "  "); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR for empty email, got %v", err)
	}
}

func TestProvisionAggregatesFailures(t *testing.T) {
	t.Parallel()

	repo := &stubUsersRepo{createErr: errors.New("db down")}
	carts := &stubCartProvider{err: errors.New("db down")}
	svc := newProvision(t, repo, carts)

	err := svc.Provision(context.Background(), uuid.New(), "shopper@example.com")
	if !pkgerrors.IsCode(err, pkgerrors.CodeInternal) {
		t.Fatalf("expected INTERNAL_ERROR, got %v", err)
	}
}
