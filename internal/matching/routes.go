package matching

import (
    "github.com/gorilla/mux"
)

func RegisterRoutes(router *mux.Router, handler *Handler) {
    api := router.PathPrefix("/api/v1").Subrouter()

    api.HandleFunc("/matches/today", handler.GetTodaysMatches).Methods("GET")
    api.HandleFunc("/matches/{id}/decision", handler.RecordDecision).Methods("POST")
}
