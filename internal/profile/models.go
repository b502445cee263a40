package profile

import (
    "time"

    "github.com/google/uuid"
)

// Profile holds the attributes the matching engine reads. Profiles are
// created and edited elsewhere (application review, profile forms); this
// service only ever reads them.
type Profile struct {
    ID          uuid.UUID `json:"id" db:"id"`
    DisplayName string    `json:"display_name" db:"display_name"`
    Values      []string  `json:"values" db:"values"`
    Interests   []string  `json:"interests" db:"interests"`
    City        string    `json:"city" db:"city"`
    Age         int       `json:"age" db:"age"`
    Active      bool      `json:"active" db:"active"`
    CreatedAt   time.Time `json:"created_at" db:"created_at"`
    UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Summary is the slice of a profile shown next to a match candidate.
// Display data is re-read at request time, so it can be fresher than the
// profile that was scored.
type Summary struct {
    ID          uuid.UUID `json:"id"`
    DisplayName string    `json:"display_name"`
    City        string    `json:"city"`
    Age         int       `json:"age"`
    Values      []string  `json:"values"`
    Interests   []string  `json:"interests"`
}

// Summarize returns the display view of a profile
func (p *Profile) Summarize() *Summary {
    return &Summary{
        ID:          p.ID,
        DisplayName: p.DisplayName,
        City:        p.City,
        Age:         p.Age,
        Values:      p.Values,
        Interests:   p.Interests,
    }
}
