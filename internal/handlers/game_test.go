package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aniguess/api/internal/anime"
)

type fakeGameSource struct {
	pair *anime.Pair
	err  error
}

func (f *fakeGameSource) RoundPair(_ context.Context) (*anime.Pair, error) {
	return f.pair, f.err
}

func TestGetAnimeReturnsPair(t *testing.T) {
	source := &fakeGameSource{
		pair: &anime.Pair{
			Anime1: anime.Candidate{Title: "Cowboy Bebop", Image: "https://cdn.example/bebop.jpg", Score: 8.75, Rating: "PG-13"},
			Anime2: anime.Candidate{Title: "Monster", Image: "https://cdn.example/monster.jpg", Score: 8.88, Rating: "PG-13"},
		},
	}
	handler := NewGameHandler(source)

	rec := httptest.NewRecorder()
	handler.GetAnime(rec, httptest.NewRequest(http.MethodGet, "/api/anime", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"anime1": {"title": "Cowboy Bebop", "image": "https://cdn.example/bebop.jpg", "score": 8.75, "rating": "PG-13"},
		"anime2": {"title": "Monster", "image": "https://cdn.example/monster.jpg", "score": 8.88, "rating": "PG-13"}
	}`, rec.Body.String())
}

func TestGetAnimeUpstreamFailure(t *testing.T) {
	handler := NewGameHandler(&fakeGameSource{err: anime.ErrUpstreamExhausted})

	rec := httptest.NewRecorder()
	handler.GetAnime(rec, httptest.NewRequest(http.MethodGet, "/api/anime", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error": "Failed to fetch anime data"}`, rec.Body.String())
}

func TestGetAnimeTransportFailure(t *testing.T) {
	handler := NewGameHandler(&fakeGameSource{err: errors.New("connection reset")})

	rec := httptest.NewRecorder()
	handler.GetAnime(rec, httptest.NewRequest(http.MethodGet, "/api/anime", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
