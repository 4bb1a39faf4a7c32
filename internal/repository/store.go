package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories bound to one connection or transaction.
type Store struct {
	db *gorm.DB

	Profiles      *ProfileRepository
	Views         *ViewRepository
	Likes         *LikeRepository
	Notifications *NotificationRepository
	Reports       *ReportRepository
	Blocks        *BlockRepository
	Stats         *StatsRepository
	Referrals     *ReferralRepository
}

// NewStore binds every repository to database.
func NewStore(database *gorm.DB) *Store {
	return &Store{
		db:            database,
		Profiles:      NewProfileRepository(database),
		Views:         NewViewRepository(database),
		Likes:         NewLikeRepository(database),
		Notifications: NewNotificationRepository(database),
		Reports:       NewReportRepository(database),
		Blocks:        NewBlockRepository(database),
		Stats:         NewStatsRepository(database),
		Referrals:     NewReferralRepository(database),
	}
}

// DB exposes the underlying handle.
func (s *Store) DB() *gorm.DB { return s.db }

// Transaction runs fn with a Store whose repositories share one transaction.
// fn must only use the Store it is given; any error rolls everything back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
