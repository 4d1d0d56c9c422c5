package handlers

import (
	"context"
	"time"

	"github.com/aniguess/api/internal/models"
	redisclient "github.com/aniguess/api/internal/redis"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// UserStore is the persistent user store the handlers depend on, implemented by
// *database.DB
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	RaiseHighScore(ctx context.Context, id string, score int) (int, bool, error)
	TopScores(ctx context.Context) ([]models.LeaderboardEntry, error)
}

// SessionStore is the session store the handlers depend on, implemented by
// *redis.Sessions
type SessionStore interface {
	Create(ctx context.Context, session *redisclient.Session) (string, error)
	SetHighScore(ctx context.Context, cookieValue string, highScore int) error
	Delete(ctx context.Context, cookieValue string) error
	TTL() time.Duration
}
