// internal/matching/dto.go
package matching

import (
    "github.com/google/uuid"

    "github.com/nurapp/nur-backend/internal/profile"
)

// DTOs for API requests/responses

type DecisionRequestDTO struct {
    UserID   string `json:"user_id" validate:"required,uuid"`
    Decision string `json:"decision" validate:"required,oneof=interested passed"`
}

type TodayMatchDTO struct {
    MatchID      uuid.UUID        `json:"match_id"`
    CandidateID  uuid.UUID        `json:"candidate_id"`
    Candidate    *profile.Summary `json:"candidate,omitempty"`
    Score        float64          `json:"score"`
    SharedValues []string         `json:"shared_values,omitempty"`
    MyDecision   *Decision        `json:"my_decision"`
    Mutual       bool             `json:"mutual"`
}

type DecisionResponseDTO struct {
    MatchID       uuid.UUID  `json:"match_id"`
    MyDecision    Decision   `json:"my_decision"`
    Mutual        bool       `json:"mutual"`
    ChatChannelID *uuid.UUID `json:"chat_channel_id,omitempty"`
}

func newTodayMatchDTO(userID uuid.UUID, m *TodayMatch) *TodayMatchDTO {
    return &TodayMatchDTO{
        MatchID:      m.Record.ID,
        CandidateID:  m.Record.OtherUser(userID),
        Candidate:    m.Candidate,
        Score:        m.Record.Score,
        SharedValues: m.SharedValues,
        MyDecision:   m.Record.DecisionOf(userID),
        Mutual:       m.Record.Mutual,
    }
}
