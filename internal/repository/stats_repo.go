package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/swipe-core/internal/db"
)

// StatsRepository maintains per-day user counters.
type StatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(database *gorm.DB) *StatsRepository {
	return &StatsRepository{db: database}
}

// Increment adds one to the kind counter of userID for the UTC day of at.
//
// Behavior:
//   - The first event of a day creates the row; missed days are never backfilled.
//   - Unknown kinds are rejected before touching the store.
func (r *StatsRepository) Increment(ctx context.Context, userID int64, at time.Time, kind db.StatKind) error {
	col := kind.Column()
	if col == "" {
		return fmt.Errorf("unknown stat kind %d", kind)
	}

	row := db.DailyStats{UserID: userID, Date: db.DateKey(at)}
	switch kind {
	case db.StatLikesGiven:
		row.LikesGiven = 1
	case db.StatLikesReceived:
		row.LikesReceived = 1
	case db.StatViewsGiven:
		row.ViewsGiven = 1
	case db.StatViewsReceived:
		row.ViewsReceived = 1
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.Assignments(map[string]any{
				col: gorm.Expr("daily_stats." + col + " + 1"),
			}),
		}).
		Create(&row).Error
}

// Get returns the counters of userID for the UTC day of at; a day without
// events yields a zero row.
func (r *StatsRepository) Get(ctx context.Context, userID int64, at time.Time) (db.DailyStats, error) {
	row := db.DailyStats{}
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, db.DateKey(at)).
		Limit(1).
		Find(&row).Error
	row.UserID = userID
	row.Date = db.DateKey(at)
	return row, err
}
