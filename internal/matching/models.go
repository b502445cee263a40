package matching

import (
    "time"

    "github.com/google/uuid"

    "github.com/nurapp/nur-backend/internal/profile"
)

// Decision is one side's verdict on a daily match
type Decision string

const (
    DecisionInterested Decision = "interested"
    DecisionPassed     Decision = "passed"
)

// MatchRecord is one suggested pairing for one calendar day. The pair is
// stored in canonical order (UserA < UserB by UUID string) so the same two
// people can never produce two records for the same day. Records are never
// deleted; decisions and the mutual flag are the only mutations.
type MatchRecord struct {
    ID        uuid.UUID `json:"id" db:"id"`
    UserA     uuid.UUID `json:"user_a" db:"user_a"`
    UserB     uuid.UUID `json:"user_b" db:"user_b"`
    MatchDate string    `json:"match_date" db:"match_date"`
    Score     float64   `json:"score" db:"score"`
    InterestA *bool     `json:"interest_a" db:"interest_a"`
    InterestB *bool     `json:"interest_b" db:"interest_b"`
    Mutual    bool      `json:"mutual" db:"mutual"`
    CreatedAt time.Time `json:"created_at" db:"created_at"`

    // Joined field, not persisted with the record
    Candidate *profile.Summary `json:"candidate,omitempty" db:"-"`
}

// NewMatchRecord builds a record for the given pair and day, normalizing
// the pair order.
func NewMatchRecord(userID, candidateID uuid.UUID, day string, score float64) *MatchRecord {
    a, b := userID, candidateID
    if b.String() < a.String() {
        a, b = b, a
    }
    return &MatchRecord{
        ID:        uuid.New(),
        UserA:     a,
        UserB:     b,
        MatchDate: day,
        Score:     score,
    }
}

// IsParty reports whether the user is one of the two sides of the record
func (r *MatchRecord) IsParty(userID uuid.UUID) bool {
    return r.UserA == userID || r.UserB == userID
}

// OtherUser returns the opposite side of the record
func (r *MatchRecord) OtherUser(userID uuid.UUID) uuid.UUID {
    if r.UserA == userID {
        return r.UserB
    }
    return r.UserA
}

// InterestOf returns the stored decision of the given side, nil if undecided
func (r *MatchRecord) InterestOf(userID uuid.UUID) *bool {
    if r.UserA == userID {
        return r.InterestA
    }
    return r.InterestB
}

// DecisionOf renders a side's stored interest as a decision string for the API
func (r *MatchRecord) DecisionOf(userID uuid.UUID) *Decision {
    interest := r.InterestOf(userID)
    if interest == nil {
        return nil
    }
    d := DecisionPassed
    if *interest {
        d = DecisionInterested
    }
    return &d
}
