package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/podomall/podomall-backend/pkg/db/models"
	"github.com/podomall/podomall-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository defines persistence operations for notifications.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, notification *models.Notification) (*models.Notification, error)
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Notification, string, error)
	MarkRead(ctx context.Context, userID uuid.UUID, notificationID int64, readAt time.Time) (int64, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID, readAt time.Time) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a notifications repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, notification *models.Notification) (*models.Notification, error) {
	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		return nil, err
	}
	return notification, nil
}

func (r *repository) List(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Notification, string, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Notification
	if err := query.Find(&rows).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, nextCursor, nil
}

func (r *repository) MarkRead(ctx context.Context, userID uuid.UUID, notificationID int64, readAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read_at", readAt)
	return result.RowsAffected, result.Error
}

func (r *repository) MarkAllRead(ctx context.Context, userID uuid.UUID, readAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", readAt).Error
}
