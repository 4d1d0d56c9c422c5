package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/aniguess/api/internal/anime"
)

// GameSource produces the candidate pair for one round, implemented by
// *anime.Client
type GameSource interface {
	RoundPair(ctx context.Context) (*anime.Pair, error)
}

type GameHandler struct {
	source GameSource
}

func NewGameHandler(source GameSource) *GameHandler {
	return &GameHandler{source: source}
}

// GetAnime returns the two candidates of a fresh round as
// {"anime1": {...}, "anime2": {...}}
func (h *GameHandler) GetAnime(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	pair, err := h.source.RoundPair(r.Context())
	if err != nil {
		log.Printf("[Game] Error fetching anime data: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to fetch anime data"})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(pair)
}
