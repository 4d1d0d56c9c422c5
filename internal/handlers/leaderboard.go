package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

type LeaderboardHandler struct {
	users UserStore
}

func NewLeaderboardHandler(users UserStore) *LeaderboardHandler {
	return &LeaderboardHandler{users: users}
}

// GetLeaderboard returns every user as {username, highScore}, ordered by high
// score descending. Full scan, no pagination.
func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	entries, err := h.users.TopScores(r.Context())
	if err != nil {
		log.Printf("[Leaderboard] Error fetching leaderboard: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Internal server error."})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(entries)
}
