package matching

import (
	"context"
	"time"

	"github.com/oggyb/swipe-core/internal/db"
	svcErr "github.com/oggyb/swipe-core/internal/errors"
)

// premiumActive is the read-only premium check; a flag without an expiry
// never lapses.
func premiumActive(p *db.Profile, now time.Time) bool {
	if p == nil || !p.IsPremium {
		return false
	}
	return p.PremiumUntil == nil || now.Before(*p.PremiumUntil)
}

// ActivatePremium grants premium to telegramID until now+d. A non-positive
// d uses the configured premium duration. Returns the new expiry.
func (s *Service) ActivatePremium(ctx context.Context, telegramID int64, d time.Duration) (time.Time, error) {
	s.log.Debug("ActivatePremium called", "user", telegramID, "duration", d)
	if d <= 0 {
		d = s.rules.PremiumDuration
	}
	if _, err := s.loadProfile(ctx, s.store, telegramID); err != nil {
		return time.Time{}, err
	}

	until := s.now().Add(d)
	if err := s.store.Profiles.SetPremium(ctx, telegramID, true, &until); err != nil {
		return time.Time{}, svcErr.Storage("activate premium", err)
	}
	s.log.Info("premium activated", "user", telegramID, "until", until)
	return until, nil
}

// IsPremium reports whether telegramID has active premium.
//
// Behavior:
//   - A flag whose expiry has passed is switched off in storage (lazy
//     expiry) and reported as false.
func (s *Service) IsPremium(ctx context.Context, telegramID int64) (bool, error) {
	p, err := s.loadProfile(ctx, s.store, telegramID)
	if err != nil {
		return false, err
	}
	return s.refreshPremium(ctx, p)
}

// refreshPremium applies lazy expiry to a loaded profile and updates it in
// place.
func (s *Service) refreshPremium(ctx context.Context, p *db.Profile) (bool, error) {
	if !p.IsPremium {
		return false, nil
	}
	if premiumActive(p, s.now()) {
		return true, nil
	}
	if err := s.store.Profiles.SetPremium(ctx, p.TelegramID, false, nil); err != nil {
		return false, svcErr.Storage("expire premium", err)
	}
	s.log.Info("premium expired", "user", p.TelegramID)
	p.IsPremium = false
	p.PremiumUntil = nil
	return false, nil
}
