package matching

import (
	"context"

	"github.com/oggyb/swipe-core/internal/db"
	svcErr "github.com/oggyb/swipe-core/internal/errors"
)

// Quota is the daily allowance of one user.
type Quota struct {
	Premium         bool `json:"premium"`
	LikesToday      int  `json:"likes_today"`
	LikesLimit      int  `json:"likes_limit"`
	SuperLikesToday int  `json:"super_likes_today"`
	SuperLikesLimit int  `json:"super_likes_limit"`
}

// LikesLeft is the number of plain likes still allowed today.
func (q Quota) LikesLeft() int { return max(q.LikesLimit-q.LikesToday, 0) }

// SuperLikesLeft is the number of super-likes still allowed today.
func (q Quota) SuperLikesLeft() int { return max(q.SuperLikesLimit-q.SuperLikesToday, 0) }

// ResetIfNewDay zeroes the daily counters of every profile whose last reset
// happened before today (UTC). Safe to call any number of times a day.
func (s *Service) ResetIfNewDay(ctx context.Context) (int64, error) {
	now := s.now()
	n, err := s.store.Profiles.ResetDailyCounters(ctx, db.StartOfDay(now), now)
	if err != nil {
		return 0, svcErr.Storage("reset daily counters", err)
	}
	if n > 0 {
		s.log.Info("daily counters reset", "profiles", n)
	}
	return n, nil
}

// GetQuota returns today's allowance of telegramID after the daily reset
// and premium expiry have been applied.
//
// Behavior:
//   - Free users get FreeLikesPerDay likes and SuperLikesPerDay super-likes.
//   - Premium users get PremiumLikesPerDay likes and PremiumSuperLikeX times
//     the super-likes.
func (s *Service) GetQuota(ctx context.Context, telegramID int64) (Quota, error) {
	if _, err := s.ResetIfNewDay(ctx); err != nil {
		return Quota{}, err
	}
	p, err := s.loadProfile(ctx, s.store, telegramID)
	if err != nil {
		return Quota{}, err
	}
	premium, err := s.refreshPremium(ctx, p)
	if err != nil {
		return Quota{}, err
	}

	q := Quota{
		Premium:         premium,
		LikesToday:      p.LikesToday,
		LikesLimit:      s.rules.FreeLikesPerDay,
		SuperLikesToday: p.SuperLikesToday,
		SuperLikesLimit: s.rules.SuperLikesPerDay,
	}
	if premium {
		q.LikesLimit = s.rules.PremiumLikesPerDay
		q.SuperLikesLimit = s.rules.SuperLikesPerDay * s.rules.PremiumSuperLikeX
	}
	return q, nil
}

// CanLike reports whether telegramID may send another plain like today.
func (s *Service) CanLike(ctx context.Context, telegramID int64) (bool, error) {
	q, err := s.GetQuota(ctx, telegramID)
	if err != nil {
		return false, err
	}
	return q.LikesToday < q.LikesLimit, nil
}

// CanSuperLike reports whether telegramID may send another super-like today.
func (s *Service) CanSuperLike(ctx context.Context, telegramID int64) (bool, error) {
	q, err := s.GetQuota(ctx, telegramID)
	if err != nil {
		return false, err
	}
	return q.SuperLikesToday < q.SuperLikesLimit, nil
}
