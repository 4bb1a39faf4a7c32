// Package compatibility scores how well two profiles fit each other.
//
// Scoring is a pure function over two Snapshots and the static affinity
// Tables. It never touches storage and never fails: any fault inside the
// computation degrades to Default().
package compatibility

import (
	"fmt"
	"log/slog"
	"strings"
)

// Level is a coarse band of the overall score.
type Level string

const (
	LevelIdeal       Level = "ideal"
	LevelExcellent   Level = "excellent"
	LevelGood        Level = "good"
	LevelNormal      Level = "normal"
	LevelInteresting Level = "interesting"
)

// Component weights; the bonus is added after weighting.
const (
	weightInterests   = 0.30
	weightGoals       = 0.25
	weightLifestyle   = 0.20
	weightPersonality = 0.15
	weightHabits      = 0.10

	interestsFallback   = 30.0
	categoricalFallback = 50.0
	personalityFallback = 40.0
	personalityMissing  = 65.0

	jaccardScale  = 70.0
	rareTagBonus  = 5.0
	zodiacBonus   = 8.0
	closeAgeBonus = 5.0
	nearAgeBonus  = 2.0
)

// Snapshot is the subset of a profile the engine reads.
type Snapshot struct {
	Age       int
	Bio       string
	Interests []string
	Zodiac    string
	Goal      string
	Lifestyle string
	Habits    string
}

// Breakdown holds the per-component scores, each in [0,100].
type Breakdown struct {
	Interests   float64 `json:"interests"`
	Goals       float64 `json:"goals"`
	Lifestyle   float64 `json:"lifestyle"`
	Personality float64 `json:"personality"`
	Habits      float64 `json:"habits"`
}

type Result struct {
	Overall     int       `json:"overall"`
	Breakdown   Breakdown `json:"breakdown"`
	Description string    `json:"description"`
	Level       Level     `json:"level"`
}

// Default is returned whenever scoring cannot complete.
func Default() Result {
	return Result{
		Overall: 65,
		Breakdown: Breakdown{
			Interests: 50, Goals: 50, Lifestyle: 50, Personality: 50, Habits: 50,
		},
		Description: "Интересное сочетание!",
		Level:       LevelNormal,
	}
}

type band struct {
	min         float64
	level       Level
	description string
}

// bands are checked top-down; each is inclusive on its lower bound.
var bands = []band{
	{90, LevelIdeal, "💖 ИДЕАЛЬНАЯ СОВМЕСТИМОСТЬ! Редкая химия!"},
	{80, LevelExcellent, "💕 ОТЛИЧНАЯ СОВМЕСТИМОСТЬ! Очень перспективно!"},
	{70, LevelGood, "✨ ХОРОШАЯ СОВМЕСТИМОСТЬ! Много общего!"},
	{60, LevelNormal, "👍 НЕПЛОХАЯ СОВМЕСТИМОСТЬ! Стоит познакомиться!"},
	{50, LevelInteresting, "💫 ИНТЕРЕСНЫЕ РАЗЛИЧИЯ! Может зажечь искру!"},
}

const lowestDescription = "🌟 УНИКАЛЬНОЕ СОЧЕТАНИЕ! Нестандартно и интересно!"

// Describe maps a raw total to its description and level.
func Describe(total float64) (string, Level) {
	for _, b := range bands {
		if total >= b.min {
			return b.description, b.level
		}
	}
	return lowestDescription, LevelInteresting
}

// Engine scores profile pairs against a fixed set of Tables.
type Engine struct {
	tables *Tables
	log    *slog.Logger
}

// New builds an engine. A nil tables makes every Score return Default().
func New(tables *Tables, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{tables: tables, log: log}
}

// NewDefault builds an engine over the embedded affinity tables.
func NewDefault(log *slog.Logger) *Engine {
	t, err := DefaultTables()
	if err != nil && log != nil {
		log.Error("compatibility tables unavailable, scores will use defaults", slog.Any("err", err))
	}
	return New(t, log)
}

// Score computes the compatibility of a with b. The result is directed:
// Score(a, b) and Score(b, a) may differ wherever the tables do.
func (e *Engine) Score(a, b Snapshot) (res Result) {
	if e == nil {
		return Default()
	}
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("compatibility scoring failed", slog.Any("panic", r))
			res = Default()
		}
	}()
	if e.tables == nil {
		panic(fmt.Errorf("compatibility engine has no tables"))
	}
	t := e.tables

	bd := Breakdown{
		Interests:   t.interests(a.Interests, b.Interests),
		Goals:       categorical(t.Goals, a.Goal, b.Goal),
		Lifestyle:   categorical(t.Lifestyle, a.Lifestyle, b.Lifestyle),
		Personality: t.personality(a.Bio, b.Bio),
		Habits:      categorical(t.Habits, a.Habits, b.Habits),
	}

	total := bd.Interests*weightInterests +
		bd.Goals*weightGoals +
		bd.Lifestyle*weightLifestyle +
		bd.Personality*weightPersonality +
		bd.Habits*weightHabits
	total += bonus(a, b)
	if total > 100 {
		total = 100
	}
	if total < 0 {
		total = 0
	}

	desc, level := Describe(total)
	return Result{
		Overall:     int(total),
		Breakdown:   bd,
		Description: desc,
		Level:       level,
	}
}

func (t *Tables) interests(a, b []string) float64 {
	setA, setB := toSet(a), toSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return interestsFallback
	}

	common, rare := 0, 0
	for tag := range setA {
		if _, ok := setB[tag]; ok {
			common++
			if t.isRare(tag) {
				rare++
			}
		}
	}
	union := len(setA) + len(setB) - common

	score := float64(common)/float64(union)*jaccardScale + float64(rare)*rareTagBonus
	if score > 100 {
		score = 100
	}
	return score
}

func categorical(m Matrix, a, b string) float64 {
	if a == "" || b == "" {
		return categoricalFallback
	}
	return m.Lookup(a, b, categoricalFallback)
}

func (t *Tables) personality(bioA, bioB string) float64 {
	if bioA == "" || bioB == "" {
		return personalityFallback
	}
	return t.Personality.Lookup(t.classify(bioA), t.classify(bioB), personalityMissing)
}

// classify picks the category with the most keyword hits among the bio's
// distinct lowercase words. Ties go to the earlier category in
// personalityOrder; no hits at all means calm.
func (t *Tables) classify(bio string) string {
	words := toSet(strings.Fields(strings.ToLower(bio)))

	best, bestHits := defaultPersonality, 0
	for _, cat := range personalityOrder {
		hits := 0
		for w := range t.keywords[cat] {
			if _, ok := words[w]; ok {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = cat, hits
		}
	}
	return best
}

func bonus(a, b Snapshot) float64 {
	var v float64
	if a.Zodiac != "" && a.Zodiac == b.Zodiac {
		v += zodiacBonus
	}

	diff := a.Age - b.Age
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff <= 3:
		v += closeAgeBonus
	case diff <= 5:
		v += nearAgeBonus
	}
	return v
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set
}
