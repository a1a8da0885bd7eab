package checkout

import (
	"context"

	"github.com/podomall/podomall-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence operations for the checkout write path.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
	CreateShipment(ctx context.Context, shipment *models.Shipment) (*models.Shipment, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a checkout repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) CreateShipment(ctx context.Context, shipment *models.Shipment) (*models.Shipment, error) {
	if err := r.db.WithContext(ctx).Create(shipment).Error; err != nil {
		return nil, err
	}
	return shipment, nil
}
