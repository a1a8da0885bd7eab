package notifications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/podomall/podomall-backend/pkg/db/models"
	"github.com/podomall/podomall-backend/pkg/enums"
	pkgerrors "github.com/podomall/podomall-backend/pkg/errors"
	"github.com/podomall/podomall-backend/pkg/pagination"
)

// Page wraps one page of notifications plus the next page cursor.
type Page struct {
	Notifications []models.Notification `json:"notifications"`
	NextCursor    string                `json:"next_cursor,omitempty"`
}

// Service persists and serves per-user outcome notifications.
type Service interface {
	Notify(ctx context.Context, userID uuid.UUID, level enums.NotificationLevel, message string) error
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*Page, error)
	MarkRead(ctx context.Context, userID uuid.UUID, notificationID int64) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds a notifications service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	return &service{
		repo: repo,
		now:  time.Now,
	}, nil
}

func (s *service) Notify(ctx context.Context, userID uuid.UUID, level enums.NotificationLevel, message string) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if !level.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown notification level")
	}
	if strings.TrimSpace(message) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "message required")
	}

	_, err := s.repo.Create(ctx, &models.Notification{
		UserID:  userID,
		Level:   level,
		Message: message,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating notification")
	}
	return nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*Page, error) {
	rows, nextCursor, err := s.repo.List(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing notifications")
	}
	return &Page{
		Notifications: rows,
		NextCursor:    nextCursor,
	}, nil
}

func (s *service) MarkRead(ctx context.Context, userID uuid.UUID, notificationID int64) error {
	affected, err := s.repo.MarkRead(ctx, userID, notificationID, s.now().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marking notification read")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.MarkAllRead(ctx, userID, s.now().UTC()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marking notifications read")
	}
	return nil
}
