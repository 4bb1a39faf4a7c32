package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/oggyb/swipe-core/internal/db"
)

// NotificationRepository is the like-notification outbox.
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(database *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: database}
}

func (r *NotificationRepository) Create(ctx context.Context, n *db.LikeNotification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// PendingFor lists unsent notifications addressed to toID, newest first.
func (r *NotificationRepository) PendingFor(ctx context.Context, toID int64, limit int) ([]db.LikeNotification, error) {
	var out []db.LikeNotification
	err := r.db.WithContext(ctx).
		Where("to_id = ? AND is_sent = ?", toID, false).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// PendingAfter pages through every unsent notification by ascending id.
func (r *NotificationRepository) PendingAfter(ctx context.Context, afterID uint64, limit int) ([]db.LikeNotification, error) {
	var out []db.LikeNotification
	err := r.db.WithContext(ctx).
		Where("is_sent = ? AND id > ?", false, afterID).
		Order("id ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// MarkSent flips is_sent to true.
//
// Behavior:
//   - Unknown id → gorm.ErrRecordNotFound.
//   - Already sent → no-op, no error (is_sent never goes back to false).
func (r *NotificationRepository) MarkSent(ctx context.Context, id uint64) error {
	var n db.LikeNotification
	if err := r.db.WithContext(ctx).First(&n, id).Error; err != nil {
		return err
	}
	if n.IsSent {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&db.LikeNotification{}).
		Where("id = ? AND is_sent = ?", id, false).
		UpdateColumn("is_sent", true).Error
}

// Get loads one notification.
func (r *NotificationRepository) Get(ctx context.Context, id uint64) (*db.LikeNotification, error) {
	var n db.LikeNotification
	if err := r.db.WithContext(ctx).First(&n, id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

// IsNotFound reports whether err is gorm's missing-row error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
