package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/swipe-core/internal/db"
)

// ProfileRepository provides data access for profiles and their interest and
// photo side tables.
type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(database *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: database}
}

// editableColumns are overwritten when a user resubmits their profile.
var editableColumns = []string{
	"username", "name", "age", "gender", "target_gender", "bio",
	"zodiac_sign", "relationship_goal", "lifestyle", "habits", "city", "is_active",
}

// GetByTelegramID loads one profile with its interests and photos.
// Returns gorm.ErrRecordNotFound when missing.
func (r *ProfileRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*db.Profile, error) {
	var p db.Profile
	if err := r.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&p).Error; err != nil {
		return nil, err
	}
	out := []db.Profile{p}
	if err := r.loadCollections(ctx, out); err != nil {
		return nil, err
	}
	return &out[0], nil
}

// GetByReferralCode finds the owner of a referral code (without side tables).
func (r *ProfileRepository) GetByReferralCode(ctx context.Context, code string) (*db.Profile, error) {
	var p db.Profile
	if err := r.db.WithContext(ctx).Where("referral_code = ?", code).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Exists reports whether a profile with telegramID is stored.
func (r *ProfileRepository) Exists(ctx context.Context, telegramID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db.Profile{}).Where("telegram_id = ?", telegramID).Count(&count).Error
	return count > 0, err
}

// Create inserts a new profile row. Side tables are written separately with
// ReplaceCollections.
func (r *ProfileRepository) Create(ctx context.Context, p *db.Profile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// UpdateEditable overwrites the user-editable columns of an existing profile.
//
// Behavior:
//   - Identity, counters, trust score, premium state and referral data are untouched.
//   - Zero values are written too (an emptied zodiac sign is cleared).
func (r *ProfileRepository) UpdateEditable(ctx context.Context, p *db.Profile) error {
	return r.db.WithContext(ctx).
		Model(&db.Profile{}).
		Where("telegram_id = ?", p.TelegramID).
		Select(editableColumns).
		Updates(p).Error
}

// ReplaceCollections swaps the interest set and photo sequence of a profile.
func (r *ProfileRepository) ReplaceCollections(ctx context.Context, telegramID int64, interests, photos []string) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("telegram_id = ?", telegramID).Delete(&db.ProfileInterest{}).Error; err != nil {
		return err
	}
	if err := tx.Where("telegram_id = ?", telegramID).Delete(&db.ProfilePhoto{}).Error; err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(interests))
	rows := make([]db.ProfileInterest, 0, len(interests))
	for _, tag := range interests {
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		rows = append(rows, db.ProfileInterest{TelegramID: telegramID, Tag: tag})
	}
	if len(rows) > 0 {
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
	}

	if len(photos) > 0 {
		ph := make([]db.ProfilePhoto, len(photos))
		for i, ref := range photos {
			ph[i] = db.ProfilePhoto{TelegramID: telegramID, Position: i, Ref: ref}
		}
		if err := tx.Create(&ph).Error; err != nil {
			return err
		}
	}
	return nil
}

// CandidateQuery describes one candidate selection.
type CandidateQuery struct {
	RequesterID int64
	Cities      []string
	// ViewedSince hides profiles the requester viewed after this instant.
	ViewedSince time.Time
	Limit       int
}

// FindCandidates returns active profiles a requester may be shown.
//
// Behavior:
//   - city IN q.Cities, is_active, and not the requester.
//   - Excludes profiles viewed by the requester after q.ViewedSince.
//   - Excludes every profile the requester ever liked.
//   - Ordered by trust_score DESC, created_at DESC; at most q.Limit rows.
//
// Example:
//
//	repo.FindCandidates(ctx, CandidateQuery{RequesterID: 1, Cities: []string{"Томск"}, ViewedSince: now.Add(-24*time.Hour), Limit: 50})
func (r *ProfileRepository) FindCandidates(ctx context.Context, q CandidateQuery) ([]db.Profile, error) {
	if len(q.Cities) == 0 || q.Limit <= 0 {
		return nil, nil
	}

	viewed := r.db.Model(&db.ViewRecord{}).
		Select("viewed_id").
		Where("viewer_id = ? AND created_at > ?", q.RequesterID, q.ViewedSince)
	liked := r.db.Model(&db.Like{}).
		Select("to_id").
		Where("from_id = ?", q.RequesterID)

	var profiles []db.Profile
	err := r.db.WithContext(ctx).
		Where("telegram_id <> ? AND is_active = ? AND city IN ?", q.RequesterID, true, q.Cities).
		Where("telegram_id NOT IN (?)", viewed).
		Where("telegram_id NOT IN (?)", liked).
		Order("trust_score DESC, created_at DESC").
		Limit(q.Limit).
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	if err := r.loadCollections(ctx, profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// ListByTelegramIDs loads profiles (with side tables) for the given ids.
// Missing ids are skipped; order follows ids.
func (r *ProfileRepository) ListByTelegramIDs(ctx context.Context, ids []int64) ([]db.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []db.Profile
	if err := r.db.WithContext(ctx).Where("telegram_id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	byID := make(map[int64]db.Profile, len(found))
	for _, p := range found {
		byID[p.TelegramID] = p
	}
	out := make([]db.Profile, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	if err := r.loadCollections(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Search matches profiles by exact user_id or telegram_id, or by a name or
// username substring. Newest first.
func (r *ProfileRepository) Search(ctx context.Context, term string, telegramID int64, limit, offset int) ([]db.Profile, error) {
	pattern := "%" + term + "%"
	var profiles []db.Profile
	err := r.db.WithContext(ctx).
		Where("user_id = ? OR telegram_id = ? OR name LIKE ? OR username LIKE ?", term, telegramID, pattern, pattern).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&profiles).Error
	return profiles, err
}

// ActiveIDsAfter pages through active profile ids in ascending order.
func (r *ProfileRepository) ActiveIDsAfter(ctx context.Context, afterID int64, limit int) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&db.Profile{}).
		Where("is_active = ? AND telegram_id > ?", true, afterID).
		Order("telegram_id ASC").
		Limit(limit).
		Pluck("telegram_id", &ids).Error
	return ids, err
}

// RecordLike applies the liker side of a plain like: likes_today+1 and
// trust_score+trustDelta in one statement.
func (r *ProfileRepository) RecordLike(ctx context.Context, telegramID int64, trustDelta int) error {
	return r.db.WithContext(ctx).
		Model(&db.Profile{}).
		Where("telegram_id = ?", telegramID).
		UpdateColumns(map[string]any{
			"likes_today": gorm.Expr("likes_today + 1"),
			"trust_score": gorm.Expr("trust_score + ?", trustDelta),
		}).Error
}

// RecordSuperLike increments super_likes_today.
func (r *ProfileRepository) RecordSuperLike(ctx context.Context, telegramID int64) error {
	return r.db.WithContext(ctx).
		Model(&db.Profile{}).
		Where("telegram_id = ?", telegramID).
		UpdateColumn("super_likes_today", gorm.Expr("super_likes_today + 1")).Error
}

// AdjustTrust adds delta to the trust score of every listed profile.
func (r *ProfileRepository) AdjustTrust(ctx context.Context, delta int, telegramIDs ...int64) error {
	return r.db.WithContext(ctx).
		Model(&db.Profile{}).
		Where("telegram_id IN ?", telegramIDs).
		UpdateColumn("trust_score", gorm.Expr("trust_score + ?", delta)).Error
}

// ResetDailyCounters zeroes like counters of profiles whose last reset is
// before dayStart and stamps them with now.
//
// Behavior:
//   - Idempotent: a second call on the same day touches nothing.
//   - Returns the number of profiles reset.
func (r *ProfileRepository) ResetDailyCounters(ctx context.Context, dayStart, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&db.Profile{}).
		Where("last_like_reset < ?", dayStart).
		UpdateColumns(map[string]any{
			"likes_today":       0,
			"super_likes_today": 0,
			"last_like_reset":   now,
		})
	return res.RowsAffected, res.Error
}

// SetActive flips is_active.
func (r *ProfileRepository) SetActive(ctx context.Context, telegramID int64, active bool) error {
	return r.db.WithContext(ctx).
		Model(&db.Profile{}).
		Where("telegram_id = ?", telegramID).
		UpdateColumn("is_active", active).Error
}

// SetPremium stores premium state; until is nil when premium is off.
func (r *ProfileRepository) SetPremium(ctx context.Context, telegramID int64, premium bool, until *time.Time) error {
	return r.db.WithContext(ctx).
		Model(&db.Profile{}).
		Where("telegram_id = ?", telegramID).
		UpdateColumns(map[string]any{
			"is_premium":    premium,
			"premium_until": until,
		}).Error
}

// ProfileCounts feeds the admin dashboard.
type ProfileCounts struct {
	Total    int64
	Active   int64
	Premium  int64
	NewSince int64
}

// Counts returns profile totals; NewSince counts profiles created at or after since.
func (r *ProfileRepository) Counts(ctx context.Context, since time.Time) (ProfileCounts, error) {
	var c ProfileCounts
	base := r.db.WithContext(ctx).Model(&db.Profile{})
	if err := base.Session(&gorm.Session{}).Count(&c.Total).Error; err != nil {
		return c, err
	}
	if err := base.Session(&gorm.Session{}).Where("is_active = ?", true).Count(&c.Active).Error; err != nil {
		return c, err
	}
	if err := base.Session(&gorm.Session{}).Where("is_premium = ?", true).Count(&c.Premium).Error; err != nil {
		return c, err
	}
	if err := base.Session(&gorm.Session{}).Where("created_at >= ?", since).Count(&c.NewSince).Error; err != nil {
		return c, err
	}
	return c, nil
}

// loadCollections fills Interests and Photos of profiles in place. Profiles
// without side rows get empty, non-nil slices.
func (r *ProfileRepository) loadCollections(ctx context.Context, profiles []db.Profile) error {
	if len(profiles) == 0 {
		return nil
	}
	ids := make([]int64, len(profiles))
	for i, p := range profiles {
		ids[i] = p.TelegramID
	}

	var interests []db.ProfileInterest
	if err := r.db.WithContext(ctx).Where("telegram_id IN ?", ids).Order("tag").Find(&interests).Error; err != nil {
		return err
	}
	var photos []db.ProfilePhoto
	if err := r.db.WithContext(ctx).Where("telegram_id IN ?", ids).Order("position").Find(&photos).Error; err != nil {
		return err
	}

	tags := make(map[int64][]string)
	for _, it := range interests {
		tags[it.TelegramID] = append(tags[it.TelegramID], it.Tag)
	}
	refs := make(map[int64][]string)
	for _, ph := range photos {
		refs[ph.TelegramID] = append(refs[ph.TelegramID], ph.Ref)
	}

	for i := range profiles {
		id := profiles[i].TelegramID
		profiles[i].Interests = append([]string{}, tags[id]...)
		profiles[i].Photos = append([]string{}, refs[id]...)
	}
	return nil
}
