// Package matching is the matchmaking core: candidate selection, the social
// graph of views, likes and matches, daily quotas, profile submission,
// safety (reports and blocks) and premium state.
//
// Every operation reads and writes through repository.Store. Storage
// failures are returned wrapped in errors.ErrStorage and are never retried
// here; the like and view paths are idempotent, so callers may retry.
package matching

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/oggyb/swipe-core/internal/app"
	"github.com/oggyb/swipe-core/internal/cache"
	"github.com/oggyb/swipe-core/internal/compatibility"
	"github.com/oggyb/swipe-core/internal/config"
	"github.com/oggyb/swipe-core/internal/db"
	svcErr "github.com/oggyb/swipe-core/internal/errors"
	"github.com/oggyb/swipe-core/internal/moderation"
	"github.com/oggyb/swipe-core/internal/repository"
)

// Observer receives domain events, typically to feed metrics.
type Observer interface {
	Swiped(action string)
	Matched()
	ModerationRejected(reason string)
	CandidatesServed(n int)
}

type nopObserver struct{}

func (nopObserver) Swiped(string)             {}
func (nopObserver) Matched()                  {}
func (nopObserver) ModerationRejected(string) {}
func (nopObserver) CandidatesServed(int)      {}

// Service implements the matchmaking operations on top of the repository
// and cache layers.
type Service struct {
	appCtx   *app.AppContext
	store    *repository.Store
	cache    *cache.RedisCache
	gate     *moderation.Gate
	engine   *compatibility.Engine
	rules    config.Matching
	log      *slog.Logger
	now      func() time.Time
	validate *validator.Validate
	observer Observer
}

// Option customizes a Service.
type Option func(*Service)

// WithObserver routes domain events to o.
func WithObserver(o Observer) Option {
	return func(s *Service) {
		if o != nil {
			s.observer = o
		}
	}
}

// NewService builds the matchmaking service from AppContext.
// Dependencies include:
//   - DB connection (via repository.Store)
//   - RedisCache for the received-like counter; nil disables caching
//   - the compatibility engine used for scores and notification enrichment
func NewService(appCtx *app.AppContext, engine *compatibility.Engine, opts ...Option) *Service {
	rules := config.DefaultMatching()
	if appCtx.Config != nil {
		rules = appCtx.Config.Matching
	}
	logger := appCtx.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := appCtx.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	s := &Service{
		appCtx:   appCtx,
		store:    repository.NewStore(appCtx.DB),
		cache:    appCtx.RedisCache,
		gate:     moderation.New(),
		engine:   engine,
		rules:    rules,
		log:      logger.With("component", "matching"),
		now:      now,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rules returns the matching rules in effect.
func (s *Service) Rules() config.Matching { return s.rules }

// loadProfile fetches a profile, translating a missing row into ErrNotFound.
func (s *Service) loadProfile(ctx context.Context, store *repository.Store, telegramID int64) (*db.Profile, error) {
	p, err := store.Profiles.GetByTelegramID(ctx, telegramID)
	if repository.IsNotFound(err) {
		return nil, svcErr.NotFound("profile " + itoa(telegramID))
	}
	if err != nil {
		return nil, svcErr.Storage("load profile", err)
	}
	return p, nil
}

// requirePair validates an (actor, target) action: both profiles exist and
// the actor is not banned. A banned actor gets the same NotFound that
// GetCandidates answers with.
func (s *Service) requirePair(ctx context.Context, actorID, targetID int64) error {
	if actorID <= 0 || targetID <= 0 {
		return svcErr.Validation("user ids must be positive")
	}
	if actorID == targetID {
		return svcErr.Validation("cannot act on own profile")
	}
	for _, id := range []int64{actorID, targetID} {
		ok, err := s.store.Profiles.Exists(ctx, id)
		if err != nil {
			return svcErr.Storage("check profile", err)
		}
		if !ok {
			return svcErr.NotFound("profile " + itoa(id))
		}
	}
	return s.requireNotBlocked(ctx, actorID)
}

// requireNotBlocked answers NotFound for a banned profile. Expired timed bans
// are lifted on the way.
func (s *Service) requireNotBlocked(ctx context.Context, telegramID int64) error {
	blocked, err := s.IsBlocked(ctx, telegramID)
	if err != nil {
		return err
	}
	if blocked {
		s.log.Warn("action by or on banned profile refused", "user", telegramID)
		return svcErr.NotFound("profile " + itoa(telegramID))
	}
	return nil
}

// SnapshotOf extracts the fields the compatibility engine reads.
func SnapshotOf(p *db.Profile) compatibility.Snapshot {
	return compatibility.Snapshot{
		Age:       p.Age,
		Bio:       p.Bio,
		Interests: p.Interests,
		Zodiac:    p.ZodiacSign,
		Goal:      p.RelationshipGoal,
		Lifestyle: p.Lifestyle,
		Habits:    p.Habits,
	}
}

// Score computes the compatibility of a with b for display to a.
func (s *Service) Score(ctx context.Context, a, b int64) (compatibility.Result, error) {
	pa, err := s.loadProfile(ctx, s.store, a)
	if err != nil {
		return compatibility.Result{}, err
	}
	pb, err := s.loadProfile(ctx, s.store, b)
	if err != nil {
		return compatibility.Result{}, err
	}
	return s.ScoreProfiles(pa, pb), nil
}

// ScoreProfiles is Score for already loaded profiles.
func (s *Service) ScoreProfiles(a, b *db.Profile) compatibility.Result {
	return s.engine.Score(SnapshotOf(a), SnapshotOf(b))
}

// isDomainError reports whether err already carries a service sentinel.
func isDomainError(err error) bool {
	return errors.Is(err, svcErr.ErrValidation) ||
		errors.Is(err, svcErr.ErrNotFound) ||
		errors.Is(err, svcErr.ErrStateConflict) ||
		errors.Is(err, svcErr.ErrQuotaExceeded) ||
		errors.Is(err, svcErr.ErrStorage)
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
