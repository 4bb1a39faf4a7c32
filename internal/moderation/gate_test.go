package moderation_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	svcErr "github.com/oggyb/swipe-core/internal/errors"
	"github.com/oggyb/swipe-core/internal/moderation"
)

func TestEvaluateBio(t *testing.T) {
	gate := moderation.New()

	cases := []struct {
		name   string
		bio    string
		reason moderation.Reason
	}{
		{"nine runes", "Люблю код", moderation.ReasonBioTooShort},
		{"ten runes", "Люблю кино", moderation.ReasonNone},
		{"whitespace padded", "         а         ", moderation.ReasonBioTooShort},
		{"empty", "", moderation.ReasonBioTooShort},
		{"exactly 500", strings.Repeat("а", 500), moderation.ReasonNone},
		{"over 500", strings.Repeat("а", 501), moderation.ReasonBioTooLong},
		{"two insults in short bio", "ты дурак и идиот", moderation.ReasonToxic},
		{"three insults", "дурак, идиот и придурок, вот кто ты", moderation.ReasonToxic},
		{"two keywords normal length", "Ненавижу спам, но люблю хорошие фильмы", moderation.ReasonNone},
		{"toxic wins over contact", "дурак идиот insta", moderation.ReasonToxic},
		{"phone keyword", "Пишите мне, дам свой телефон после общения", moderation.ReasonContactInfo},
		{"messenger case-insensitive", "Ищу друзей, мой InstaGram ниже в профиле", moderation.ReasonContactInfo},
		{"meeting logistics", "Давай встреча у метро в субботу вечером", moderation.ReasonContactInfo},
		{"short phone bio", "мой номер тут", moderation.ReasonContactInfo},
		{"plain bio", "Люблю горы, книги и долгие прогулки по вечерам", moderation.ReasonNone},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := gate.EvaluateBio(tc.bio)
			assert.Equal(t, tc.reason == moderation.ReasonNone, v.Accepted)
			assert.Equal(t, tc.reason, v.Reason)
		})
	}
}

func TestEvaluateBio_Deterministic(t *testing.T) {
	gate := moderation.New()
	bio := "Пишите мне, дам свой телефон после общения"
	assert.Equal(t, gate.EvaluateBio(bio), gate.EvaluateBio(bio))
}

func TestEvaluateInterests(t *testing.T) {
	gate := moderation.New()

	assert.Equal(t, moderation.ReasonNoInterests, gate.EvaluateInterests(nil).Reason)
	assert.True(t, gate.EvaluateInterests([]string{"Музыка"}).Accepted)

	ten := make([]string, 10)
	for i := range ten {
		ten[i] = string(rune('a' + i))
	}
	assert.True(t, gate.EvaluateInterests(ten).Accepted)
	assert.Equal(t, moderation.ReasonTooManyInterests, gate.EvaluateInterests(append(ten, "k")).Reason)
}

func TestToxicityScore(t *testing.T) {
	assert.InDelta(t, 0.2, moderation.ToxicityScore("коротко"), 1e-9)
	assert.InDelta(t, 0.0, moderation.ToxicityScore("Обычное описание без проблем"), 1e-9)
	assert.InDelta(t, 0.7, moderation.ToxicityScore("спам реклама "+strings.Repeat("х", 400)), 1e-9)
	assert.InDelta(t, 1.0, moderation.ToxicityScore("дурак идиот мудак придурок"), 1e-9)
}

func TestVerdict_Err(t *testing.T) {
	gate := moderation.New()

	require.NoError(t, gate.EvaluateBio("Люблю кино").Err())

	err := gate.EvaluateBio("коротко").Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, svcErr.ErrValidation)
	assert.Contains(t, err.Error(), "Слишком короткое описание")
	assert.Equal(t, "OK", gate.EvaluateBio("Люблю кино").Message())
}
