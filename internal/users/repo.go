package users

import (
	"context"

	"github.com/google/uuid"
	"github.com/podomall/podomall-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence operations for users and their addresses.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	UpdateCustomsNumber(ctx context.Context, id uuid.UUID, customsNumber string) error
	FindAddresses(ctx context.Context, userID uuid.UUID) ([]models.UserAddress, error)
	FindAddressByID(ctx context.Context, userID uuid.UUID, addressID int64) (*models.UserAddress, error)
	CreateAddress(ctx context.Context, address *models.UserAddress) (*models.UserAddress, error)
	CountAddresses(ctx context.Context, userID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a users repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *repository) UpdateCustomsNumber(ctx context.Context, id uuid.UUID, customsNumber string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("personal_customs_number", customsNumber).Error
}

func (r *repository) FindAddresses(ctx context.Context, userID uuid.UUID) ([]models.UserAddress, error) {
	var addresses []models.UserAddress
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at ASC, id ASC").
		Find(&addresses).Error
	if err != nil {
		return nil, err
	}
	return addresses, nil
}

func (r *repository) FindAddressByID(ctx context.Context, userID uuid.UUID, addressID int64) (*models.UserAddress, error) {
	var address models.UserAddress
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, addressID).
		First(&address).Error
	if err != nil {
		return nil, err
	}
	return &address, nil
}

// CreateAddress inserts the address. A row marked default demotes the user's
// previous default in the same transaction, keeping at most one default per
// user.
func (r *repository) CreateAddress(ctx context.Context, address *models.UserAddress) (*models.UserAddress, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			if err := tx.Model(&models.UserAddress{}).
				Where("user_id = ? AND is_default = ?", address.UserID, true).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(address).Error
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

func (r *repository) CountAddresses(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.UserAddress{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
