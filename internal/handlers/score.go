package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/aniguess/api/internal/middleware"
)

type ScoreHandler struct {
	users    UserStore
	sessions SessionStore
}

func NewScoreHandler(users UserStore, sessions SessionStore) *ScoreHandler {
	return &ScoreHandler{users: users, sessions: sessions}
}

// UpdateScoreRequest represents the request body for score submission
type UpdateScoreRequest struct {
	Score int `json:"score"`
}

// UpdateScoreResponse represents the response after a score submission
type UpdateScoreResponse struct {
	Message   string `json:"message"`
	HighScore int    `json:"highScore"`
}

// UpdateScore persists a submitted round score when it beats the user's stored
// high score. The raise happens as one conditional update keyed by the session's
// user, so concurrent submissions for the same user cannot lose a higher value.
// The submitted score itself is client-trusted, as in the original game.
func (h *ScoreHandler) UpdateScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	session, ok := middleware.GetSession(r)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Unauthorized. Please log in."})
		return
	}

	var req UpdateScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid request body"})
		return
	}

	highScore, raised, err := h.users.RaiseHighScore(r.Context(), session.UserID, req.Score)
	if err != nil {
		log.Printf("[Score] Error updating high score: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Internal server error."})
		return
	}

	message := "No new high score"
	if raised {
		message = "High score updated!"

		// Refresh the session's cached snapshot. The stored value is already
		// safe; a failure here only leaves the cache stale.
		if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
			if err := h.sessions.SetHighScore(r.Context(), cookie.Value, highScore); err != nil {
				log.Printf("[Score] Failed to update session snapshot: %v", err)
			}
		}

		log.Printf("[Score] New high score for %s: %d", session.Username, highScore)
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(UpdateScoreResponse{
		Message:   message,
		HighScore: highScore,
	})
}
