package matching

import (
    "encoding/json"
    "errors"
    "net/http"

    "github.com/google/uuid"
    "github.com/gorilla/mux"

    "github.com/nurapp/nur-backend/internal/common/utils"
)

type Handler struct {
    service Service
}

func NewHandler(service Service) *Handler {
    return &Handler{service: service}
}

// GetTodaysMatches handles GET /matches/today?user_id=...
func (h *Handler) GetTodaysMatches(w http.ResponseWriter, r *http.Request) {
    userID, err := uuid.Parse(r.URL.Query().Get("user_id"))
    if err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, "Invalid or missing user_id")
        return
    }

    matches, err := h.service.GetTodaysMatches(r.Context(), userID)
    if err != nil {
        respondServiceError(w, err, "Failed to load today's matches")
        return
    }

    // An empty day is a normal response, not an error
    payload := make([]*TodayMatchDTO, 0, len(matches))
    for _, m := range matches {
        payload = append(payload, newTodayMatchDTO(userID, m))
    }

    utils.RespondWithJSON(w, http.StatusOK, payload)
}

// RecordDecision handles POST /matches/{id}/decision
func (h *Handler) RecordDecision(w http.ResponseWriter, r *http.Request) {
    recordID, err := uuid.Parse(mux.Vars(r)["id"])
    if err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, "Invalid match record ID")
        return
    }

    var dto DecisionRequestDTO
    if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
        return
    }
    if err := utils.ValidateStruct(dto); err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, err.Error())
        return
    }

    userID, err := uuid.Parse(dto.UserID)
    if err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, "Invalid user_id")
        return
    }

    result, err := h.service.RecordDecision(r.Context(), recordID, userID, Decision(dto.Decision))
    if err != nil {
        respondServiceError(w, err, "Failed to record decision")
        return
    }

    response := &DecisionResponseDTO{
        MatchID: result.Record.ID,
        Mutual:  result.Record.Mutual,
    }
    if d := result.Record.DecisionOf(userID); d != nil {
        response.MyDecision = *d
    }
    if result.ChatChannel != nil {
        response.ChatChannelID = &result.ChatChannel.ID
    }

    utils.RespondWithJSON(w, http.StatusOK, response)
}

func respondServiceError(w http.ResponseWriter, err error, fallback string) {
    switch {
    case errors.Is(err, ErrNotFound):
        utils.RespondWithError(w, http.StatusNotFound, err.Error())
    case errors.Is(err, ErrUnauthorized):
        utils.RespondWithError(w, http.StatusForbidden, err.Error())
    case errors.Is(err, ErrAlreadyDecided):
        utils.RespondWithError(w, http.StatusConflict, err.Error())
    case errors.Is(err, ErrDependency):
        utils.RespondWithError(w, http.StatusServiceUnavailable, "Temporarily unavailable, please retry")
    default:
        utils.RespondWithError(w, http.StatusInternalServerError, fallback)
    }
}
