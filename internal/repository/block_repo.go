package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/swipe-core/internal/db"
)

// BlockRepository stores bans.
type BlockRepository struct {
	db *gorm.DB
}

func NewBlockRepository(database *gorm.DB) *BlockRepository {
	return &BlockRepository{db: database}
}

// Get returns the block of telegramID, or nil when there is none.
func (r *BlockRepository) Get(ctx context.Context, telegramID int64) (*db.Block, error) {
	var blocks []db.Block
	if err := r.db.WithContext(ctx).Where("telegram_id = ?", telegramID).Limit(1).Find(&blocks).Error; err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		return nil, nil
	}
	return &blocks[0], nil
}

// Upsert writes b, replacing an existing block of the same user.
func (r *BlockRepository) Upsert(ctx context.Context, b *db.Block) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "telegram_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_id", "ban_type", "blocked_until", "reason", "blocked_at"}),
		}).
		Create(b).Error
}

// Delete removes the block of telegramID; returns whether a row existed.
func (r *BlockRepository) Delete(ctx context.Context, telegramID int64) (bool, error) {
	res := r.db.WithContext(ctx).Where("telegram_id = ?", telegramID).Delete(&db.Block{})
	return res.RowsAffected > 0, res.Error
}

// activeAt keeps permanent bans and timed bans that have not ended at now.
func activeAt(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where("blocked_until IS NULL OR blocked_until > ?", now)
	}
}

// List pages the bans in force at now, newest first. Expired timed bans that
// were not lazily removed yet are left out.
func (r *BlockRepository) List(ctx context.Context, now time.Time, limit, offset int) ([]db.Block, error) {
	var blocks []db.Block
	err := r.db.WithContext(ctx).
		Scopes(activeAt(now)).
		Order("blocked_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&blocks).Error
	return blocks, err
}

func (r *BlockRepository) Count(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db.Block{}).Scopes(activeAt(now)).Count(&count).Error
	return count, err
}
