// Package moderation decides whether user-submitted profile text may enter
// the social graph. The gate is stateless: the same input always yields the
// same verdict.
package moderation

import (
	"strings"
	"unicode/utf8"

	svcErr "github.com/oggyb/swipe-core/internal/errors"
)

// Reason identifies the rule that rejected a submission.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonBioTooShort      Reason = "bio_too_short"
	ReasonBioTooLong       Reason = "bio_too_long"
	ReasonToxic            Reason = "toxic_content"
	ReasonContactInfo      Reason = "contact_info"
	ReasonNoInterests      Reason = "no_interests"
	ReasonTooManyInterests Reason = "too_many_interests"
)

var messages = map[Reason]string{
	ReasonBioTooShort:      "Слишком короткое описание",
	ReasonBioTooLong:       "Слишком длинное описание",
	ReasonToxic:            "Обнаружен неподходящий контент",
	ReasonContactInfo:      "Нельзя указывать контактные данные",
	ReasonNoInterests:      "Выберите хотя бы один интерес",
	ReasonTooManyInterests: "Слишком много интересов",
}

const (
	MinBioLength = 10
	MaxBioLength = 500
	MaxInterests = 10

	// toxicity is counted in tenths to keep the threshold comparison exact
	toxicKeywordWeight = 3
	shortBioWeight     = 2
	longBioWeight      = 1
	shortBioBelow      = 20
	longBioAbove       = 400
	toxicityCap        = 10
	toxicityThreshold  = 7
)

var toxicKeywords = []string{
	"дурак", "идиот", "мудак", "придурок", "ненавижу", "убью", "уничтожу",
	"спам", "реклама", "купить", "продать", "мошенник", "обман", "кидал",
}

var contactKeywords = []string{
	"телефон", "номер", "whatsapp", "viber", "instagram", "insta",
	"деньги", "перевод", "оплата", "карта", "встреча", "адрес", "метро", "улица",
}

// Verdict is the outcome of a single gate evaluation.
type Verdict struct {
	Accepted bool
	Reason   Reason
}

// Message returns the user-facing text of a rejection, "OK" otherwise.
func (v Verdict) Message() string {
	if v.Accepted {
		return "OK"
	}
	return messages[v.Reason]
}

// Err converts a rejection into a validation error; nil when accepted.
func (v Verdict) Err() error {
	if v.Accepted {
		return nil
	}
	return svcErr.Validation(v.Message())
}

func accept() Verdict          { return Verdict{Accepted: true} }
func reject(r Reason) Verdict { return Verdict{Reason: r} }

// Gate applies the acceptance rules. The zero value is ready to use.
type Gate struct{}

// New returns a moderation gate.
func New() *Gate { return &Gate{} }

// EvaluateBio checks length, toxicity and contact leaks, first failure wins.
func (g *Gate) EvaluateBio(bio string) Verdict {
	if utf8.RuneCountInString(strings.TrimSpace(bio)) < MinBioLength {
		return reject(ReasonBioTooShort)
	}
	if utf8.RuneCountInString(bio) > MaxBioLength {
		return reject(ReasonBioTooLong)
	}
	if ToxicityScore(bio) > float64(toxicityThreshold)/10 {
		return reject(ReasonToxic)
	}
	if containsAny(strings.ToLower(bio), contactKeywords) {
		return reject(ReasonContactInfo)
	}
	return accept()
}

// EvaluateInterests requires between 1 and MaxInterests tags.
func (g *Gate) EvaluateInterests(tags []string) Verdict {
	switch {
	case len(tags) == 0:
		return reject(ReasonNoInterests)
	case len(tags) > MaxInterests:
		return reject(ReasonTooManyInterests)
	}
	return accept()
}

// ToxicityScore returns a score in [0,1].
func ToxicityScore(text string) float64 {
	lower := strings.ToLower(text)
	tenths := 0
	for _, kw := range toxicKeywords {
		if strings.Contains(lower, kw) {
			tenths += toxicKeywordWeight
		}
	}

	n := utf8.RuneCountInString(text)
	if n < shortBioBelow {
		tenths += shortBioWeight
	} else if n > longBioAbove {
		tenths += longBioWeight
	}

	if tenths > toxicityCap {
		tenths = toxicityCap
	}
	return float64(tenths) / 10
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
