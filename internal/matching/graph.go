package matching

import (
	"context"
	"time"

	"github.com/oggyb/swipe-core/internal/compatibility"
	"github.com/oggyb/swipe-core/internal/db"
	svcErr "github.com/oggyb/swipe-core/internal/errors"
	"github.com/oggyb/swipe-core/internal/repository"
)

// LikeResult reports what a like or super-like did.
type LikeResult struct {
	// Mutual is true when this like completed a match.
	Mutual bool `json:"mutual"`
	// Duplicate is true when the like already existed and nothing changed.
	Duplicate bool `json:"duplicate"`
}

// Present records that viewerID was shown viewedID.
//
// Behavior:
//   - Inserts the exclusion record (no-op inside the view window).
//   - Increments the cumulative view counter of the pair.
//   - Increments views_given of the viewer and views_received of the viewed.
func (s *Service) Present(ctx context.Context, viewerID, viewedID int64) error {
	s.log.Debug("Present called", "viewer", viewerID, "viewed", viewedID)
	if err := s.requirePair(ctx, viewerID, viewedID); err != nil {
		return err
	}
	if err := s.requireNotBlocked(ctx, viewedID); err != nil {
		return err
	}

	now := s.now()
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := s.markViewed(ctx, tx, viewerID, viewedID, now); err != nil {
			return err
		}
		if err := tx.Stats.Increment(ctx, viewerID, now, db.StatViewsGiven); err != nil {
			return err
		}
		return tx.Stats.Increment(ctx, viewedID, now, db.StatViewsReceived)
	})
	if err != nil {
		s.log.Error("Present failed", "viewer", viewerID, "viewed", viewedID, "err", err)
		return svcErr.Storage("present", err)
	}
	s.observer.Swiped("present")
	return nil
}

// Skip hides viewedID from viewerID for the view window. No like-graph
// effect and no notification.
func (s *Service) Skip(ctx context.Context, viewerID, viewedID int64) error {
	s.log.Debug("Skip called", "viewer", viewerID, "viewed", viewedID)
	if err := s.requirePair(ctx, viewerID, viewedID); err != nil {
		return err
	}
	if _, err := s.store.Views.Record(ctx, viewerID, viewedID, s.now(), s.rules.ViewWindow); err != nil {
		s.log.Error("Skip failed", "viewer", viewerID, "viewed", viewedID, "err", err)
		return svcErr.Storage("skip", err)
	}
	s.observer.Swiped("skip")
	return nil
}

// Like records fromID liking toID.
//
// Behavior:
//   - Idempotent: an existing like of the pair returns Duplicate with no
//     side effects, even when the daily quota is used up.
//   - Otherwise requires CanLike, then in one transaction: inserts the like,
//     marks the profile viewed, bumps likes_today and trust (+1) of the
//     liker, updates daily stats of both sides, creates the canonical match
//     when the reverse like exists (+5 trust to both, only the first time)
//     and writes a LikeNotification carrying the mutual flag.
//   - The received-like counter cache is bumped after commit.
//
// Example:
//
//	res, err := svc.Like(ctx, 1, 2) // res.Mutual when 2 already liked 1
func (s *Service) Like(ctx context.Context, fromID, toID int64) (LikeResult, error) {
	s.log.Debug("Like called", "from", fromID, "to", toID)
	if err := s.requirePair(ctx, fromID, toID); err != nil {
		return LikeResult{}, err
	}
	if err := s.requireNotBlocked(ctx, toID); err != nil {
		return LikeResult{}, err
	}

	exists, err := s.store.Likes.Exists(ctx, fromID, toID)
	if err != nil {
		return LikeResult{}, svcErr.Storage("check like", err)
	}
	if exists {
		return LikeResult{Duplicate: true}, nil
	}

	ok, err := s.CanLike(ctx, fromID)
	if err != nil {
		return LikeResult{}, err
	}
	if !ok {
		return LikeResult{}, svcErr.ErrQuotaExceeded
	}

	now := s.now()
	var res LikeResult
	var matched bool
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		created, err := tx.Likes.Create(ctx, fromID, toID, now)
		if err != nil {
			return err
		}
		if !created {
			// lost a race with a concurrent identical like
			res.Duplicate = true
			return nil
		}
		if err := s.markViewed(ctx, tx, fromID, toID, now); err != nil {
			return err
		}
		if err := tx.Profiles.RecordLike(ctx, fromID, s.rules.LikeTrustBonus); err != nil {
			return err
		}
		if err := s.likeStats(ctx, tx, fromID, toID, now); err != nil {
			return err
		}

		reciprocal, err := tx.Likes.Exists(ctx, toID, fromID)
		if err != nil {
			return err
		}
		if reciprocal {
			matched, err = tx.Likes.CreateMatch(ctx, fromID, toID, now)
			if err != nil {
				return err
			}
			if matched {
				if err := tx.Profiles.AdjustTrust(ctx, s.rules.MatchTrustBonus, fromID, toID); err != nil {
					return err
				}
			}
		}
		res.Mutual = reciprocal

		return tx.Notifications.Create(ctx, &db.LikeNotification{
			FromID:    fromID,
			ToID:      toID,
			IsMutual:  reciprocal,
			CreatedAt: now,
		})
	})
	if err != nil {
		s.log.Error("Like failed", "from", fromID, "to", toID, "err", err)
		return LikeResult{}, svcErr.Storage("like", err)
	}

	if !res.Duplicate {
		s.bumpLikeCount(ctx, toID)
		s.observer.Swiped("like")
		if matched {
			s.observer.Matched()
		}
	}
	s.log.Info("like recorded", "from", fromID, "to", toID, "mutual", res.Mutual, "duplicate", res.Duplicate)
	return res, nil
}

// SuperLike records a super-like of fromID on toID.
//
// Behavior:
//   - Requires CanSuperLike.
//   - Upserts the like with the super flag (a plain like becomes super).
//   - Marks viewed, bumps super_likes_today, updates daily stats of both
//     sides and writes a LikeNotification flagged super with mutual=false.
//   - No reciprocity check and no trust change.
func (s *Service) SuperLike(ctx context.Context, fromID, toID int64) (LikeResult, error) {
	s.log.Debug("SuperLike called", "from", fromID, "to", toID)
	if err := s.requirePair(ctx, fromID, toID); err != nil {
		return LikeResult{}, err
	}
	if err := s.requireNotBlocked(ctx, toID); err != nil {
		return LikeResult{}, err
	}

	ok, err := s.CanSuperLike(ctx, fromID)
	if err != nil {
		return LikeResult{}, err
	}
	if !ok {
		return LikeResult{}, svcErr.ErrQuotaExceeded
	}

	now := s.now()
	var existed bool
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		if existed, err = tx.Likes.Exists(ctx, fromID, toID); err != nil {
			return err
		}
		if err := tx.Likes.UpsertSuperLike(ctx, fromID, toID, now); err != nil {
			return err
		}
		if err := tx.Profiles.RecordSuperLike(ctx, fromID); err != nil {
			return err
		}
		if err := s.markViewed(ctx, tx, fromID, toID, now); err != nil {
			return err
		}
		if err := s.likeStats(ctx, tx, fromID, toID, now); err != nil {
			return err
		}
		return tx.Notifications.Create(ctx, &db.LikeNotification{
			FromID:      fromID,
			ToID:        toID,
			IsSuperLike: true,
			CreatedAt:   now,
		})
	})
	if err != nil {
		s.log.Error("SuperLike failed", "from", fromID, "to", toID, "err", err)
		return LikeResult{}, svcErr.Storage("super like", err)
	}

	if !existed {
		s.bumpLikeCount(ctx, toID)
	}
	s.observer.Swiped("super_like")
	s.log.Info("super like recorded", "from", fromID, "to", toID)
	return LikeResult{}, nil
}

// MatchView is one match seen from one side.
type MatchView struct {
	MatchID   uint64     `json:"match_id"`
	Partner   db.Profile `json:"partner"`
	CreatedAt time.Time  `json:"created_at"`
}

// GetMatches lists the matches of userID with the partner profile, newest
// first. Partners whose profile is gone are skipped.
func (s *Service) GetMatches(ctx context.Context, userID int64) ([]MatchView, error) {
	s.log.Debug("GetMatches called", "user", userID)
	matches, err := s.store.Likes.MatchesOf(ctx, userID)
	if err != nil {
		return nil, svcErr.Storage("list matches", err)
	}

	partnerIDs := make([]int64, len(matches))
	for i, m := range matches {
		partnerIDs[i] = m.User1ID
		if m.User1ID == userID {
			partnerIDs[i] = m.User2ID
		}
	}
	partners, err := s.store.Profiles.ListByTelegramIDs(ctx, partnerIDs)
	if err != nil {
		return nil, svcErr.Storage("load partners", err)
	}
	byID := make(map[int64]db.Profile, len(partners))
	for _, p := range partners {
		byID[p.TelegramID] = p
	}

	out := make([]MatchView, 0, len(matches))
	for i, m := range matches {
		p, ok := byID[partnerIDs[i]]
		if !ok {
			continue
		}
		out = append(out, MatchView{MatchID: m.ID, Partner: p, CreatedAt: m.CreatedAt})
	}
	return out, nil
}

// PendingNotification is an unsent like notification enriched for display.
type PendingNotification struct {
	db.LikeNotification
	From          db.Profile           `json:"from"`
	Compatibility compatibility.Result `json:"compatibility"`
}

// GetPendingNotifications lists unsent notifications addressed to userID,
// newest first, each with the sender profile and the compatibility of the
// recipient with the sender.
func (s *Service) GetPendingNotifications(ctx context.Context, userID int64) ([]PendingNotification, error) {
	s.log.Debug("GetPendingNotifications called", "user", userID)
	recipient, err := s.loadProfile(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}

	pending, err := s.store.Notifications.PendingFor(ctx, userID, s.rules.NotificationListCap)
	if err != nil {
		return nil, svcErr.Storage("list notifications", err)
	}
	senderIDs := make([]int64, len(pending))
	for i, n := range pending {
		senderIDs[i] = n.FromID
	}
	senders, err := s.store.Profiles.ListByTelegramIDs(ctx, senderIDs)
	if err != nil {
		return nil, svcErr.Storage("load senders", err)
	}
	byID := make(map[int64]db.Profile, len(senders))
	for _, p := range senders {
		byID[p.TelegramID] = p
	}

	out := make([]PendingNotification, 0, len(pending))
	for _, n := range pending {
		from, ok := byID[n.FromID]
		if !ok {
			continue
		}
		out = append(out, PendingNotification{
			LikeNotification: n,
			From:             from,
			Compatibility:    s.ScoreProfiles(recipient, &from),
		})
	}
	return out, nil
}

// MarkNotificationSent flips a notification to sent. Unknown ids are
// ErrNotFound; marking twice is harmless.
func (s *Service) MarkNotificationSent(ctx context.Context, id uint64) error {
	err := s.store.Notifications.MarkSent(ctx, id)
	if repository.IsNotFound(err) {
		return svcErr.NotFound("notification")
	}
	if err != nil {
		return svcErr.Storage("mark notification sent", err)
	}
	return nil
}

// CountLikesReceived returns how many users liked userID.
// Cache-first strategy:
//  1. Attempts to read from Redis (likes:count:userID).
//  2. On miss or cache error, counts in the DB.
//  3. On DB fetch, updates Redis with a 1h TTL.
func (s *Service) CountLikesReceived(ctx context.Context, userID int64) (int64, error) {
	if s.cache != nil {
		n, ok, err := s.cache.GetLikeCount(ctx, userID)
		if err != nil {
			s.log.Warn("like count cache read failed", "user", userID, "err", err)
		} else if ok {
			return n, nil
		}
	}

	count, err := s.store.Likes.CountReceived(ctx, userID)
	if err != nil {
		return 0, svcErr.Storage("count likes", err)
	}
	if s.cache != nil {
		if err := s.cache.UpdateLikeCount(ctx, userID, count); err != nil {
			s.log.Warn("like count cache write failed", "user", userID, "err", err)
		}
	}
	return count, nil
}

// DailyStats is today's activity summary of one user.
type DailyStats struct {
	Date              string `json:"date"`
	LikesGiven        int    `json:"likes_given"`
	LikesReceived     int    `json:"likes_received"`
	ViewsGiven        int    `json:"views_given"`
	ViewsReceived     int    `json:"views_received"`
	SuperLikesToday   int    `json:"super_likes_today"`
	ProfileViewsToday int64  `json:"profile_views_today"`
}

// GetDailyStats returns today's counters of userID; a day without events
// is all zeros.
func (s *Service) GetDailyStats(ctx context.Context, userID int64) (DailyStats, error) {
	now := s.now()
	p, err := s.loadProfile(ctx, s.store, userID)
	if err != nil {
		return DailyStats{}, err
	}
	row, err := s.store.Stats.Get(ctx, userID, now)
	if err != nil {
		return DailyStats{}, svcErr.Storage("load daily stats", err)
	}
	viewers, err := s.store.Views.CountViewersSince(ctx, userID, db.StartOfDay(now))
	if err != nil {
		return DailyStats{}, svcErr.Storage("count viewers", err)
	}
	return DailyStats{
		Date:              row.Date,
		LikesGiven:        row.LikesGiven,
		LikesReceived:     row.LikesReceived,
		ViewsGiven:        row.ViewsGiven,
		ViewsReceived:     row.ViewsReceived,
		SuperLikesToday:   p.SuperLikesToday,
		ProfileViewsToday: viewers,
	}, nil
}

func (s *Service) markViewed(ctx context.Context, tx *repository.Store, viewerID, viewedID int64, now time.Time) error {
	if _, err := tx.Views.Record(ctx, viewerID, viewedID, now, s.rules.ViewWindow); err != nil {
		return err
	}
	return tx.Views.IncrementCount(ctx, viewerID, viewedID, now)
}

func (s *Service) likeStats(ctx context.Context, tx *repository.Store, fromID, toID int64, now time.Time) error {
	if err := tx.Stats.Increment(ctx, fromID, now, db.StatLikesGiven); err != nil {
		return err
	}
	return tx.Stats.Increment(ctx, toID, now, db.StatLikesReceived)
}

func (s *Service) bumpLikeCount(ctx context.Context, toID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.IncrLikeCount(ctx, toID); err != nil {
		s.log.Warn("like count cache update failed", "user", toID, "err", err)
	}
}
