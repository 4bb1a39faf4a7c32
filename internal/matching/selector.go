package matching

import (
	"context"
	"time"

	"github.com/oggyb/swipe-core/internal/db"
	svcErr "github.com/oggyb/swipe-core/internal/errors"
	"github.com/oggyb/swipe-core/internal/geo"
	"github.com/oggyb/swipe-core/internal/repository"
)

// GetCandidates returns the swipe queue of requesterID.
//
// Behavior:
//   - Purges view records older than the view window first; a purge failure
//     is logged and does not fail selection.
//   - radiusKm <= 0 uses RadiusFor(requester); limit <= 0 or above the
//     configured cap uses the cap.
//   - Searches the requester's city (main city when unset) plus every table
//     city within the radius. An unknown city searches only itself.
//   - Excludes the requester, inactive profiles, profiles viewed within the
//     window and every profile the requester liked.
//   - Ordered by trust score, then newest first.
//   - Read-only on likes, matches and views: presenting is a separate step.
//
// Example:
//
//	svc.GetCandidates(ctx, 42, 0, 0) // default radius and limit
func (s *Service) GetCandidates(ctx context.Context, requesterID int64, radiusKm float64, limit int) ([]db.Profile, error) {
	s.log.Debug("GetCandidates called", "requester", requesterID, "radius", radiusKm, "limit", limit)

	now := s.now()
	if n, err := s.store.Views.PurgeOlderThan(ctx, now.Add(-s.rules.ViewWindow)); err != nil {
		s.log.Warn("view purge failed", "err", err)
	} else if n > 0 {
		s.log.Debug("purged stale views", "count", n)
	}

	requester, err := s.loadProfile(ctx, s.store, requesterID)
	if err != nil {
		return nil, err
	}
	blocked, err := s.IsBlocked(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, svcErr.NotFound("profile " + itoa(requesterID))
	}

	if radiusKm <= 0 {
		radiusKm = s.RadiusFor(requester, now)
	}
	if limit <= 0 || limit > s.rules.CandidateLimit {
		limit = s.rules.CandidateLimit
	}

	city := requester.City
	if city == "" {
		city = s.rules.MainCity
	}

	candidates, err := s.store.Profiles.FindCandidates(ctx, repository.CandidateQuery{
		RequesterID: requesterID,
		Cities:      geo.SearchArea(city, radiusKm),
		ViewedSince: now.Add(-s.rules.ViewWindow),
		Limit:       limit,
	})
	if err != nil {
		s.log.Error("FindCandidates failed", "requester", requesterID, "err", err)
		return nil, svcErr.Storage("find candidates", err)
	}

	s.observer.CandidatesServed(len(candidates))
	s.log.Debug("GetCandidates result", "requester", requesterID, "count", len(candidates))
	return candidates, nil
}

// RadiusFor is the default search radius of p: wider for active premium.
func (s *Service) RadiusFor(p *db.Profile, now time.Time) float64 {
	if premiumActive(p, now) {
		return s.rules.PremiumRadiusKm
	}
	return s.rules.DefaultRadiusKm
}
