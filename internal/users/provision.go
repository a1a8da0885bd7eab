package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/podomall/podomall-backend/pkg/db"
	"github.com/podomall/podomall-backend/pkg/db/models"
	pkgerrors "github.com/podomall/podomall-backend/pkg/errors"
	"github.com/podomall/podomall-backend/pkg/logger"
	"go.uber.org/multierr"
)

type cartProvider interface {
	GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
}

// ProvisionService creates the per-user resources (profile row, cart) exactly
// once, at account-creation time. Calling it again for an existing user is a
// no-op.
type ProvisionService interface {
	Provision(ctx context.Context, userID uuid.UUID, email string) error
}

type provisionService struct {
	repo  Repository
	carts cartProvider
	logg  *logger.Logger
}

// NewProvisionService builds the provisioning service.
func NewProvisionService(repo Repository, carts cartProvider, logg *logger.Logger) (ProvisionService, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart provider required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &provisionService{
		repo:  repo,
		carts: carts,
		logg:  logg,
	}, nil
}

func (s *provisionService) Provision(ctx context.Context, userID uuid.UUID, email string) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if strings.TrimSpace(email) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email required").
			WithDetails(map[string]any{"field": "email"})
	}

	ctx = s.logg.WithUserID(ctx, userID.String())

	var errs error
	if err := s.ensureProfile(ctx, userID, email); err != nil {
		errs = multierr.Append(errs, err)
	}
	if _, err := s.carts.GetOrCreateCart(ctx, userID); err != nil {
		errs = multierr.Append(errs, err)
	}
	if errs != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, errs, "provisioning user resources")
	}

	s.logg.Info(ctx, "user resources provisioned")
	return nil
}

// ensureProfile inserts the profile row, treating a unique violation on the
// id or email as already-provisioned.
func (s *provisionService) ensureProfile(ctx context.Context, userID uuid.UUID, email string) error {
	_, err := s.repo.Create(ctx, &models.User{
		ID:    userID,
		Email: strings.TrimSpace(email),
	})
	if err != nil && !db.IsUniqueViolation(err, "") {
		return err
	}
	return nil
}
