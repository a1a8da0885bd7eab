package shipping

import (
	"context"

	"github.com/podomall/podomall-backend/pkg/db/models"
	"github.com/podomall/podomall-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository defines persistence operations for shipments and the order rows
// they mirror into.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindShipmentByOrderID(ctx context.Context, orderID int64) (*models.Shipment, error)
	FindOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	UpdateShipment(ctx context.Context, shipmentID int64, updates map[string]any) error
	UpdateOrderStatus(ctx context.Context, orderID int64, status enums.OrderStatus) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a shipping repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindShipmentByOrderID(ctx context.Context, orderID int64) (*models.Shipment, error) {
	var shipment models.Shipment
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&shipment).Error
	if err != nil {
		return nil, err
	}
	return &shipment, nil
}

func (r *repository) FindOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("order_number = ?", orderNumber).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) UpdateShipment(ctx context.Context, shipmentID int64, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Shipment{}).
		Where("id = ?", shipmentID).
		Updates(updates).Error
}

func (r *repository) UpdateOrderStatus(ctx context.Context, orderID int64, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("status", status).Error
}
