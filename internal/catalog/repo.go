package catalog

import (
	"context"

	"github.com/podomall/podomall-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence operations for the product table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id int64) (*models.Product, error)
	List(ctx context.Context, filters ProductFilters) ([]models.Product, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) List(ctx context.Context, filters ProductFilters) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})

	if filters.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}
	if filters.StockStatus != nil {
		query = query.Where("stock_status = ?", *filters.StockStatus)
	}

	var products []models.Product
	if err := query.Order("created_at DESC, id DESC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
