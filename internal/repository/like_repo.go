package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/swipe-core/internal/db"
)

// LikeRepository provides data access for likes and matches.
type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(database *gorm.DB) *LikeRepository {
	return &LikeRepository{db: database}
}

// Exists checks whether from has liked to (plain or super).
//
// Example:
//
//	repo.Exists(ctx, 1, 2) // -> true if user 1 liked user 2
func (r *LikeRepository) Exists(ctx context.Context, fromID, toID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("from_id = ? AND to_id = ?", fromID, toID).
		Count(&count).Error
	return count > 0, err
}

// Create inserts a plain like. Returns false when the pair already exists;
// the existing row is left untouched.
func (r *LikeRepository) Create(ctx context.Context, fromID, toID int64, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&db.Like{FromID: fromID, ToID: toID, CreatedAt: now})
	return res.RowsAffected > 0, res.Error
}

// UpsertSuperLike writes a super-like, overwriting an existing row of the pair.
func (r *LikeRepository) UpsertSuperLike(ctx context.Context, fromID, toID int64, now time.Time) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "from_id"}, {Name: "to_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_super_like", "created_at"}),
		}).
		Create(&db.Like{FromID: fromID, ToID: toID, IsSuperLike: true, CreatedAt: now}).Error
}

// CreateMatch stores the canonical (min, max) match of a and b.
// Returns false if the pair was already matched.
func (r *LikeRepository) CreateMatch(ctx context.Context, a, b int64, now time.Time) (bool, error) {
	u1, u2 := CanonicalPair(a, b)
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&db.Match{User1ID: u1, User2ID: u2, CreatedAt: now})
	return res.RowsAffected > 0, res.Error
}

// MatchesOf lists the matches involving userID, newest first.
func (r *LikeRepository) MatchesOf(ctx context.Context, userID int64) ([]db.Match, error) {
	var matches []db.Match
	err := r.db.WithContext(ctx).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&matches).Error
	return matches, err
}

// CountReceived returns how many users liked toID.
//
// Behavior:
//   - Used in conjunction with the Redis counter cache (DB is fallback).
func (r *LikeRepository) CountReceived(ctx context.Context, toID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db.Like{}).Where("to_id = ?", toID).Count(&count).Error
	return count, err
}

// CountSince counts likes created at or after since.
func (r *LikeRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db.Like{}).Where("created_at >= ?", since).Count(&count).Error
	return count, err
}

// CountMatchesSince counts matches created at or after since.
func (r *LikeRepository) CountMatchesSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db.Match{}).Where("created_at >= ?", since).Count(&count).Error
	return count, err
}

// CanonicalPair orders two ids as stored in matches.
func CanonicalPair(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}
