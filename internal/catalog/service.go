package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/podomall/podomall-backend/pkg/db/models"
	"github.com/podomall/podomall-backend/pkg/enums"
	pkgerrors "github.com/podomall/podomall-backend/pkg/errors"
	"gorm.io/gorm"
)

// ProductFilters describe the inputs supported by the product list.
type ProductFilters struct {
	ActiveOnly  bool
	Category    *string
	StockStatus *enums.StockStatus
}

// Service exposes product reads for controllers and the cart/checkout flows.
type Service interface {
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	ListProducts(ctx context.Context, filters ProductFilters) ([]models.Product, error)
}

type service struct {
	repo Repository
}

// NewService builds a catalog service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	return product, nil
}

func (s *service) ListProducts(ctx context.Context, filters ProductFilters) ([]models.Product, error) {
	products, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	return products, nil
}
