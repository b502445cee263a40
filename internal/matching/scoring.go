package matching

import (
    "sort"
    "strings"

    "github.com/nurapp/nur-backend/internal/profile"
)

// ScoringConfig carries the weights of the compatibility formula
type ScoringConfig struct {
    CityBonus      float64
    AgeBonus       float64
    AgeWindowYears int
}

// DefaultScoringConfig matches the weights the product shipped with
func DefaultScoringConfig() ScoringConfig {
    return ScoringConfig{
        CityBonus:      0.1,
        AgeBonus:       0.1,
        AgeWindowYears: 5,
    }
}

// Scorer computes compatibility between two profiles. It is a pure
// function of its inputs: no I/O, deterministic, symmetric.
type Scorer struct {
    cfg ScoringConfig
}

func NewScorer(cfg ScoringConfig) *Scorer {
    return &Scorer{cfg: cfg}
}

// Score returns a compatibility score in [0,1]:
// Jaccard overlap of the value sets, plus a bonus for the same city and a
// bonus for ages within the configured window, clamped to 1.
func (s *Scorer) Score(a, b *profile.Profile) float64 {
    score := jaccard(a.Values, b.Values)

    if a.City != "" && strings.EqualFold(a.City, b.City) {
        score += s.cfg.CityBonus
    }

    ageDiff := a.Age - b.Age
    if ageDiff < 0 {
        ageDiff = -ageDiff
    }
    if ageDiff <= s.cfg.AgeWindowYears {
        score += s.cfg.AgeBonus
    }

    if score > 1 {
        return 1
    }
    if score < 0 {
        return 0
    }
    return score
}

// SharedValues returns the values and interests the two profiles have in
// common, case-insensitive, sorted for stable output. Shown on match cards.
func SharedValues(a, b *profile.Profile) []string {
    mine := make(map[string]string)
    for _, v := range append(append([]string{}, a.Values...), a.Interests...) {
        mine[strings.ToLower(strings.TrimSpace(v))] = strings.TrimSpace(v)
    }

    seen := make(map[string]bool)
    var shared []string
    for _, v := range append(append([]string{}, b.Values...), b.Interests...) {
        key := strings.ToLower(strings.TrimSpace(v))
        if original, ok := mine[key]; ok && !seen[key] {
            seen[key] = true
            shared = append(shared, original)
        }
    }

    sort.Strings(shared)
    return shared
}

// jaccard is |A ∩ B| / |A ∪ B| over value sets, 0 when the union is empty
func jaccard(valuesA, valuesB []string) float64 {
    setA := make(map[string]bool, len(valuesA))
    for _, v := range valuesA {
        setA[v] = true
    }

    setB := make(map[string]bool, len(valuesB))
    intersection := 0
    for _, v := range valuesB {
        if setB[v] {
            continue
        }
        setB[v] = true
        if setA[v] {
            intersection++
        }
    }

    union := len(setA) + len(setB) - intersection
    if union == 0 {
        return 0
    }

    return float64(intersection) / float64(union)
}
