package matching

import (
    "sort"

    "github.com/google/uuid"

    "github.com/nurapp/nur-backend/internal/profile"
)

// SelectorConfig bounds the daily candidate selection
type SelectorConfig struct {
    BatchSize int     // top-k cap per user per day
    MinScore  float64 // candidates scoring below this are never offered
}

// DefaultSelectorConfig matches observed production usage (3 per day,
// no score floor; one variant ran 5 per day with a 0.6 floor).
func DefaultSelectorConfig() SelectorConfig {
    return SelectorConfig{BatchSize: 3, MinScore: 0}
}

// ScoredCandidate pairs a candidate profile with its compatibility score
type ScoredCandidate struct {
    Profile *profile.Profile
    Score   float64
}

// Selector ranks a candidate pool for one user and keeps the best few
type Selector struct {
    scorer *Scorer
    cfg    SelectorConfig
}

func NewSelector(scorer *Scorer, cfg SelectorConfig) *Selector {
    return &Selector{scorer: scorer, cfg: cfg}
}

// SelectCandidates scores every eligible profile in the pool against the
// user and returns at most BatchSize candidates, best first. Ties break on
// candidate ID so selection is deterministic. The requesting user, inactive
// profiles and anyone in the exclude set are skipped; a short pool is
// returned as-is, never padded.
func (s *Selector) SelectCandidates(user *profile.Profile, pool []*profile.Profile, exclude map[uuid.UUID]bool) []ScoredCandidate {
    scored := make([]ScoredCandidate, 0, len(pool))
    for _, candidate := range pool {
        if candidate.ID == user.ID || !candidate.Active || exclude[candidate.ID] {
            continue
        }
        score := s.scorer.Score(user, candidate)
        if score < s.cfg.MinScore {
            continue
        }
        scored = append(scored, ScoredCandidate{Profile: candidate, Score: score})
    }

    sort.Slice(scored, func(i, j int) bool {
        if scored[i].Score != scored[j].Score {
            return scored[i].Score > scored[j].Score
        }
        return scored[i].Profile.ID.String() < scored[j].Profile.ID.String()
    })

    if len(scored) > s.cfg.BatchSize {
        scored = scored[:s.cfg.BatchSize]
    }

    return scored
}
