package matching

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/oggyb/swipe-core/internal/db"
	svcErr "github.com/oggyb/swipe-core/internal/errors"
	"github.com/oggyb/swipe-core/internal/repository"
)

// Draft is a profile as submitted by the registration wizard.
type Draft struct {
	TelegramID       int64    `json:"telegram_id" validate:"required,gt=0"`
	Username         string   `json:"username" validate:"max=64"`
	Name             string   `json:"name" validate:"required,max=64"`
	Age              int      `json:"age" validate:"required,gt=0,lt=120"`
	Gender           string   `json:"gender" validate:"required,max=16"`
	TargetGender     string   `json:"target_gender" validate:"required,max=16"`
	Bio              string   `json:"bio" validate:"required"`
	ZodiacSign       string   `json:"zodiac_sign,omitempty" validate:"max=32"`
	RelationshipGoal string   `json:"relationship_goal,omitempty" validate:"max=64"`
	Lifestyle        string   `json:"lifestyle,omitempty" validate:"max=64"`
	Habits           string   `json:"habits,omitempty" validate:"max=64"`
	City             string   `json:"city,omitempty" validate:"max=64"`
	Interests        []string `json:"interests" validate:"dive,required,max=64"`
	Photos           []string `json:"photos" validate:"min=1,dive,required,max=255"`
	// ReferralCode is the code of the user who invited this one, if any.
	ReferralCode string `json:"referral_code,omitempty" validate:"max=16"`
}

const referralAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const referralAttempts = 5

// CreateOrUpdateProfile validates and stores a profile submission.
//
// Behavior:
//   - Field rules first, then the minimum age, then the block list.
//   - The moderation gate runs on the bio and then the interests; the first
//     rejection is returned as ErrValidation carrying the gate message.
//   - New profiles get a uuid user_id, a unique referral code, the initial
//     trust score and is_active; a known referral code links the referrer.
//   - Existing profiles have their editable fields overwritten and are
//     reactivated; counters, trust and premium state are kept.
//   - Interests and photos are replaced as a whole.
//
// Example:
//
//	p, err := svc.CreateOrUpdateProfile(ctx, Draft{TelegramID: 7, Name: "Аня", ...})
func (s *Service) CreateOrUpdateProfile(ctx context.Context, d Draft) (*db.Profile, error) {
	s.log.Debug("CreateOrUpdateProfile called", "telegram_id", d.TelegramID)

	if err := s.validate.StructCtx(ctx, d); err != nil {
		return nil, validationError(err)
	}
	if d.Age < s.rules.MinAge {
		return nil, svcErr.Validation(fmt.Sprintf("age must be at least %d", s.rules.MinAge))
	}

	blocked, err := s.IsBlocked(ctx, d.TelegramID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, svcErr.Validation("profile is blocked")
	}

	if v := s.gate.EvaluateBio(d.Bio); !v.Accepted {
		s.observer.ModerationRejected(string(v.Reason))
		s.log.Info("profile rejected by moderation", "telegram_id", d.TelegramID, "reason", v.Reason)
		return nil, v.Err()
	}
	if v := s.gate.EvaluateInterests(d.Interests); !v.Accepted {
		s.observer.ModerationRejected(string(v.Reason))
		s.log.Info("profile rejected by moderation", "telegram_id", d.TelegramID, "reason", v.Reason)
		return nil, v.Err()
	}

	city := strings.TrimSpace(d.City)
	if city == "" {
		city = s.rules.MainCity
	}

	now := s.now()
	var created bool
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		existing, err := tx.Profiles.GetByTelegramID(ctx, d.TelegramID)
		if err != nil && !repository.IsNotFound(err) {
			return err
		}

		p := &db.Profile{
			TelegramID:       d.TelegramID,
			Username:         d.Username,
			Name:             d.Name,
			Age:              d.Age,
			Gender:           d.Gender,
			TargetGender:     d.TargetGender,
			Bio:              d.Bio,
			ZodiacSign:       d.ZodiacSign,
			RelationshipGoal: d.RelationshipGoal,
			Lifestyle:        d.Lifestyle,
			Habits:           d.Habits,
			City:             city,
			IsActive:         true,
		}

		if existing != nil {
			if err := tx.Profiles.UpdateEditable(ctx, p); err != nil {
				return err
			}
		} else {
			created = true
			code, err := s.newReferralCode(ctx, tx)
			if err != nil {
				return err
			}
			p.UserID = uuid.NewString()
			p.ReferralCode = code
			p.TrustScore = s.rules.InitialTrustScore
			p.LastLikeReset = now
			p.CreatedAt = now

			referrer, err := s.findReferrer(ctx, tx, d)
			if err != nil {
				return err
			}
			if referrer != nil {
				p.ReferredBy = &referrer.TelegramID
			}
			if err := tx.Profiles.Create(ctx, p); err != nil {
				return err
			}
			if referrer != nil {
				if _, err := tx.Referrals.Create(ctx, referrer.TelegramID, p.TelegramID, now); err != nil {
					return err
				}
			}
		}
		return tx.Profiles.ReplaceCollections(ctx, d.TelegramID, d.Interests, d.Photos)
	})
	if err != nil {
		s.log.Error("CreateOrUpdateProfile failed", "telegram_id", d.TelegramID, "err", err)
		return nil, svcErr.Storage("save profile", err)
	}

	s.log.Info("profile saved", "telegram_id", d.TelegramID, "created", created)
	return s.loadProfile(ctx, s.store, d.TelegramID)
}

// GetProfile loads a profile with its interests and photos.
func (s *Service) GetProfile(ctx context.Context, telegramID int64) (*db.Profile, error) {
	return s.loadProfile(ctx, s.store, telegramID)
}

// findReferrer resolves the referral code of a new profile. Unknown codes
// and self-referrals are ignored.
func (s *Service) findReferrer(ctx context.Context, tx *repository.Store, d Draft) (*db.Profile, error) {
	code := strings.ToUpper(strings.TrimSpace(d.ReferralCode))
	if code == "" {
		return nil, nil
	}
	referrer, err := tx.Profiles.GetByReferralCode(ctx, code)
	if repository.IsNotFound(err) {
		s.log.Debug("unknown referral code", "code", code)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if referrer.TelegramID == d.TelegramID {
		return nil, nil
	}
	return referrer, nil
}

func (s *Service) newReferralCode(ctx context.Context, tx *repository.Store) (string, error) {
	n := s.rules.ReferralCodeLength
	if n <= 0 {
		n = 8
	}
	for i := 0; i < referralAttempts; i++ {
		b := make([]byte, n)
		for j := range b {
			b[j] = referralAlphabet[rand.Intn(len(referralAlphabet))]
		}
		code := string(b)
		_, err := tx.Profiles.GetByReferralCode(ctx, code)
		if repository.IsNotFound(err) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", errors.New("could not generate a unique referral code")
}

// validationError flattens validator output into one ErrValidation.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return svcErr.Validation(err.Error())
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return svcErr.Validation(strings.Join(parts, "; "))
}
