package compatibility

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed affinity.yaml
var affinityYAML []byte

// Matrix is a directed affinity lookup: m[from][to].
type Matrix map[string]map[string]float64

// Lookup returns m[a][b] or fallback when either key is unknown.
func (m Matrix) Lookup(a, b string, fallback float64) float64 {
	row, ok := m[a]
	if !ok {
		return fallback
	}
	v, ok := row[b]
	if !ok {
		return fallback
	}
	return v
}

// Tables is the static data the engine scores against. Immutable after load.
type Tables struct {
	Goals               Matrix              `yaml:"goals"`
	Lifestyle           Matrix              `yaml:"lifestyle"`
	Habits              Matrix              `yaml:"habits"`
	Personality         Matrix              `yaml:"personality"`
	RareInterests       []string            `yaml:"rare_interests"`
	PersonalityKeywords map[string][]string `yaml:"personality_keywords"`

	rare     map[string]struct{}
	keywords map[string]map[string]struct{}
}

// personalityOrder is also the tie-break precedence.
var personalityOrder = []string{"active", "creative", "intellectual", "calm"}

const defaultPersonality = "calm"

// LoadTables parses an affinity asset.
func LoadTables(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse affinity tables: %w", err)
	}
	if len(t.Goals) == 0 || len(t.Lifestyle) == 0 || len(t.Habits) == 0 || len(t.Personality) == 0 {
		return nil, fmt.Errorf("affinity tables: missing matrix")
	}
	for _, cat := range personalityOrder {
		if _, ok := t.PersonalityKeywords[cat]; !ok {
			return nil, fmt.Errorf("affinity tables: no keywords for personality %q", cat)
		}
	}

	t.rare = make(map[string]struct{}, len(t.RareInterests))
	for _, tag := range t.RareInterests {
		t.rare[tag] = struct{}{}
	}
	t.keywords = make(map[string]map[string]struct{}, len(t.PersonalityKeywords))
	for cat, words := range t.PersonalityKeywords {
		set := make(map[string]struct{}, len(words))
		for _, w := range words {
			set[w] = struct{}{}
		}
		t.keywords[cat] = set
	}
	return &t, nil
}

var (
	defaultOnce   sync.Once
	defaultTables *Tables
	defaultErr    error
)

// DefaultTables returns the embedded tables, parsed once per process.
func DefaultTables() (*Tables, error) {
	defaultOnce.Do(func() {
		defaultTables, defaultErr = LoadTables(affinityYAML)
	})
	return defaultTables, defaultErr
}

func (t *Tables) isRare(tag string) bool {
	_, ok := t.rare[tag]
	return ok
}
