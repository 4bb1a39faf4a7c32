package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/swipe-core/internal/db"
)

type ReferralRepository struct {
	db *gorm.DB
}

func NewReferralRepository(database *gorm.DB) *ReferralRepository {
	return &ReferralRepository{db: database}
}

// Create links referred to referrer; a user can only be referred once.
func (r *ReferralRepository) Create(ctx context.Context, referrerID, referredID int64, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&db.Referral{ReferrerID: referrerID, ReferredID: referredID, CreatedAt: now})
	return res.RowsAffected > 0, res.Error
}

func (r *ReferralRepository) CountByReferrer(ctx context.Context, referrerID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db.Referral{}).Where("referrer_id = ?", referrerID).Count(&count).Error
	return count, err
}
