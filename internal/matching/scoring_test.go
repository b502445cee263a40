package matching_test

import (
    "testing"

    "github.com/stretchr/testify/assert"

    "github.com/nurapp/nur-backend/internal/matching"
    "github.com/nurapp/nur-backend/internal/profile"
)

func defaultScorer() *matching.Scorer {
    return matching.NewScorer(matching.DefaultScoringConfig())
}

func TestScore_ValueOverlapWithBonuses(t *testing.T) {
    a := mkProfile(1, []string{"faith", "family", "travel"}, "Oslo", 30)
    b := mkProfile(2, []string{"faith", "family", "sports"}, "Oslo", 32)

    // Overlap 2/4 = 0.5, same city +0.1, age gap 2 <= 5 +0.1
    assert.InDelta(t, 0.7, defaultScorer().Score(a, b), 1e-9)
}

func TestScore_Symmetry(t *testing.T) {
    scorer := defaultScorer()

    pairs := [][2]*profile.Profile{
        {mkProfile(1, []string{"faith", "family"}, "Oslo", 30), mkProfile(2, []string{"family"}, "Bergen", 44)},
        {mkProfile(3, nil, "Oslo", 25), mkProfile(4, []string{"travel"}, "Oslo", 28)},
        {mkProfile(5, []string{"a", "b", "c"}, "", 60), mkProfile(6, []string{"c", "d"}, "", 20)},
    }

    for _, pair := range pairs {
        assert.Equal(t, scorer.Score(pair[0], pair[1]), scorer.Score(pair[1], pair[0]))
    }
}

func TestScore_Bounds(t *testing.T) {
    scorer := defaultScorer()

    // Identical profiles: overlap 1.0 plus both bonuses, clamped to 1
    a := mkProfile(1, []string{"faith", "family"}, "Oslo", 30)
    b := mkProfile(2, []string{"faith", "family"}, "Oslo", 30)
    assert.Equal(t, 1.0, scorer.Score(a, b))

    // Nothing in common at all
    c := mkProfile(3, []string{"faith"}, "Oslo", 30)
    d := mkProfile(4, []string{"sports"}, "Bergen", 45)
    assert.Equal(t, 0.0, scorer.Score(c, d))
}

func TestScore_EmptyValueSets(t *testing.T) {
    scorer := defaultScorer()

    // No values on either side: overlap term is 0, bonuses still apply
    a := mkProfile(1, nil, "Oslo", 30)
    b := mkProfile(2, nil, "Oslo", 33)
    assert.InDelta(t, 0.2, scorer.Score(a, b), 1e-9)

    // One empty side, no bonuses
    c := mkProfile(3, nil, "Bergen", 20)
    d := mkProfile(4, []string{"faith"}, "Oslo", 40)
    assert.Equal(t, 0.0, scorer.Score(c, d))
}

func TestScore_CityComparisonIsCaseInsensitive(t *testing.T) {
    a := mkProfile(1, nil, "oslo", 30)
    b := mkProfile(2, nil, "OSLO", 50)

    assert.InDelta(t, 0.1, defaultScorer().Score(a, b), 1e-9)
}

func TestScore_ConfigurableWeights(t *testing.T) {
    scorer := matching.NewScorer(matching.ScoringConfig{
        CityBonus:      0.3,
        AgeBonus:       0.2,
        AgeWindowYears: 10,
    })

    a := mkProfile(1, nil, "Oslo", 30)
    b := mkProfile(2, nil, "Oslo", 39)

    assert.InDelta(t, 0.5, scorer.Score(a, b), 1e-9)
}

func TestSharedValues(t *testing.T) {
    a := mkProfile(1, []string{"Faith", "family", "travel"}, "Oslo", 30)
    a.Interests = []string{"hiking"}
    b := mkProfile(2, []string{"faith", "sports"}, "Oslo", 32)
    b.Interests = []string{"Hiking", "family"}

    shared := matching.SharedValues(a, b)
    assert.Equal(t, []string{"Faith", "family", "hiking"}, shared)
}

func TestSharedValues_NoOverlap(t *testing.T) {
    a := mkProfile(1, []string{"faith"}, "Oslo", 30)
    b := mkProfile(2, []string{"sports"}, "Oslo", 32)

    assert.Empty(t, matching.SharedValues(a, b))
}
