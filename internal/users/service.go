package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/podomall/podomall-backend/pkg/db/models"
	pkgerrors "github.com/podomall/podomall-backend/pkg/errors"
	"gorm.io/gorm"
)

// AddressInput is the payload for creating a shipping address.
type AddressInput struct {
	Recipient    string  `json:"recipient" validate:"required"`
	Phone        string  `json:"phone" validate:"required"`
	PostalCode   string  `json:"postal_code" validate:"required"`
	AddressLine1 string  `json:"address_line1" validate:"required"`
	AddressLine2 *string `json:"address_line2,omitempty"`
	IsDefault    bool    `json:"is_default"`
}

// Service exposes profile and address operations.
type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateCustomsNumber(ctx context.Context, userID uuid.UUID, customsNumber string) error
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.UserAddress, error)
	CreateAddress(ctx context.Context, userID uuid.UUID, input AddressInput) (*models.UserAddress, error)
}

type service struct {
	repo Repository
}

// NewService builds a users service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}
	return user, nil
}

func (s *service) UpdateCustomsNumber(ctx context.Context, userID uuid.UUID, customsNumber string) error {
	trimmed := strings.TrimSpace(customsNumber)
	if trimmed == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customs number required").
			WithDetails(map[string]any{"field": "personal_customs_number"})
	}
	if err := s.repo.UpdateCustomsNumber(ctx, userID, trimmed); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating customs number")
	}
	return nil
}

func (s *service) ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.UserAddress, error) {
	addresses, err := s.repo.FindAddresses(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing addresses")
	}
	return addresses, nil
}

func (s *service) CreateAddress(ctx context.Context, userID uuid.UUID, input AddressInput) (*models.UserAddress, error) {
	for field, value := range map[string]string{
		"recipient":     input.Recipient,
		"phone":         input.Phone,
		"postal_code":   input.PostalCode,
		"address_line1": input.AddressLine1,
	} {
		if strings.TrimSpace(value) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s required", field)).
				WithDetails(map[string]any{"field": field})
		}
	}

	isDefault := input.IsDefault
	if !isDefault {
		// first address becomes the default
		count, err := s.repo.CountAddresses(ctx, userID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting addresses")
		}
		isDefault = count == 0
	}

	address := &models.UserAddress{
		UserID:       userID,
		Recipient:    strings.TrimSpace(input.Recipient),
		Phone:        strings.TrimSpace(input.Phone),
		PostalCode:   strings.TrimSpace(input.PostalCode),
		AddressLine1: strings.TrimSpace(input.AddressLine1),
		AddressLine2: input.AddressLine2,
		IsDefault:    isDefault,
	}
	created, err := s.repo.CreateAddress(ctx, address)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating address")
	}
	return created, nil
}
