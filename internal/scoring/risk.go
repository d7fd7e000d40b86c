package scoring

import (
	"fmt"
	"sort"

	sharedErrors "github.com/khanhnv2901/nis2-assess/internal/shared/errors"
)

// Level identifies a risk tier.
type Level string

const (
	LevelCritical Level = "critical"
	LevelHigh     Level = "high"
	LevelMedium   Level = "medium"
	LevelLow      Level = "low"
)

// RiskLevel is one closed percentage interval of the risk table.
type RiskLevel struct {
	Level Level  `json:"level"`
	Label string `json:"label"`
	Color string `json:"color"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
}

// Contains reports whether p falls inside the closed interval [Min, Max].
func (r RiskLevel) Contains(p int) bool {
	return p >= r.Min && p <= r.Max
}

// Tiers is an ordered risk table.
type Tiers []RiskLevel

// DefaultTiers is the fixed risk table applied to every score.
var DefaultTiers = Tiers{
	{Level: LevelCritical, Label: "Critical Risk", Color: "critical-risk", Min: 0, Max: 25},
	{Level: LevelHigh, Label: "High Risk", Color: "high-risk", Min: 26, Max: 50},
	{Level: LevelMedium, Label: "Medium Risk", Color: "medium-risk", Min: 51, Max: 75},
	{Level: LevelLow, Label: "Low Risk", Color: "low-risk", Min: 76, Max: 100},
}

// Classify maps a percentage to its tier in DefaultTiers.
func Classify(p int) (RiskLevel, error) {
	return DefaultTiers.Classify(p)
}

// MustClassify is Classify for percentages already known to be in range,
// such as those returned by ScoreQuestions. It panics otherwise.
func MustClassify(p int) RiskLevel {
	r, err := Classify(p)
	if err != nil {
		panic(err)
	}
	return r
}

// Classify returns the first tier containing p. Inputs outside [0,100] fail
// with ErrOutOfRange. In-range values no tier covers fall back to the first tier.
func (t Tiers) Classify(p int) (RiskLevel, error) {
	if p < 0 || p > 100 {
		return RiskLevel{}, fmt.Errorf("%d: %w", p, sharedErrors.ErrOutOfRange)
	}
	for _, tier := range t {
		if tier.Contains(p) {
			return tier, nil
		}
	}
	if len(t) == 0 {
		return DefaultTiers[0], nil
	}
	return t[0], nil
}

// Validate checks that the tiers partition [0,100] without gaps or overlaps.
func (t Tiers) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("no tiers: %w", sharedErrors.ErrInvalidRiskTiers)
	}
	sorted := append(Tiers(nil), t...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Min < sorted[j].Min })

	next := 0
	for _, tier := range sorted {
		if tier.Min > tier.Max {
			return fmt.Errorf("tier %s [%d,%d] is inverted: %w", tier.Level, tier.Min, tier.Max, sharedErrors.ErrInvalidRiskTiers)
		}
		if tier.Min != next {
			return fmt.Errorf("tier %s starts at %d, want %d: %w", tier.Level, tier.Min, next, sharedErrors.ErrInvalidRiskTiers)
		}
		next = tier.Max + 1
	}
	if next != 101 {
		return fmt.Errorf("tiers end at %d, want 100: %w", next-1, sharedErrors.ErrInvalidRiskTiers)
	}
	return nil
}
