package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/swipe-core/internal/db"
)

// ViewRepository stores the rolling exclusion window (view_records) and the
// cumulative view counter (profile_view_counts).
type ViewRepository struct {
	db *gorm.DB
}

func NewViewRepository(database *gorm.DB) *ViewRepository {
	return &ViewRepository{db: database}
}

// Record marks viewed as seen by viewer at now.
//
// Behavior:
//   - A record younger than window is kept as is (duplicate is a no-op).
//   - A stale record of the same pair is replaced, restarting the window.
//   - Returns true when a new record was written.
func (r *ViewRepository) Record(ctx context.Context, viewerID, viewedID int64, now time.Time, window time.Duration) (bool, error) {
	tx := r.db.WithContext(ctx)
	err := tx.
		Where("viewer_id = ? AND viewed_id = ? AND created_at <= ?", viewerID, viewedID, now.Add(-window)).
		Delete(&db.ViewRecord{}).Error
	if err != nil {
		return false, err
	}

	res := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&db.ViewRecord{ViewerID: viewerID, ViewedID: viewedID, CreatedAt: now})
	return res.RowsAffected > 0, res.Error
}

// PurgeOlderThan deletes every view record created at or before cutoff.
func (r *ViewRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("created_at <= ?", cutoff).Delete(&db.ViewRecord{})
	return res.RowsAffected, res.Error
}

// IncrementCount bumps the cumulative viewer→viewed counter.
func (r *ViewRepository) IncrementCount(ctx context.Context, viewerID, viewedID int64, now time.Time) error {
	row := db.ProfileViewCount{ViewerID: viewerID, ViewedID: viewedID, ViewCount: 1, LastViewed: now}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "viewer_id"}, {Name: "viewed_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"view_count":  gorm.Expr("profile_view_counts.view_count + 1"),
				"last_viewed": now,
			}),
		}).
		Create(&row).Error
}

// Count returns the cumulative counter of one pair (0 when never viewed).
func (r *ViewRepository) Count(ctx context.Context, viewerID, viewedID int64) (int, error) {
	var row db.ProfileViewCount
	err := r.db.WithContext(ctx).
		Where("viewer_id = ? AND viewed_id = ?", viewerID, viewedID).
		Limit(1).
		Find(&row).Error
	return row.ViewCount, err
}

// CountViewersSince counts distinct viewers of viewedID seen at or after since.
func (r *ViewRepository) CountViewersSince(ctx context.Context, viewedID int64, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.ProfileViewCount{}).
		Where("viewed_id = ? AND last_viewed >= ?", viewedID, since).
		Count(&count).Error
	return count, err
}
