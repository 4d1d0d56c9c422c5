package redis

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for missing, expired, or tampered sessions
var ErrSessionNotFound = errors.New("session not found")

// Session represents an authenticated user session stored in Redis. HighScore is
// a point-in-time snapshot of the stored value, refreshed on score submission.
type Session struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	HighScore int       `json:"high_score"`
	CreatedAt time.Time `json:"created_at"`
}

// Sessions is a Redis-backed session store. Sessions live under session:<token>
// with an idle TTL that slides on every authenticated request. Cookie values are
// the token plus an HMAC signature, so a forged token never reaches Redis.
type Sessions struct {
	client *Client
	ttl    time.Duration
	secret []byte
}

// NewSessions creates a session store with the given idle TTL and signing secret
func NewSessions(client *Client, ttl time.Duration, secret string) *Sessions {
	return &Sessions{
		client: client,
		ttl:    ttl,
		secret: []byte(secret),
	}
}

// TTL returns the configured idle window
func (s *Sessions) TTL() time.Duration {
	return s.ttl
}

// Create stores a new session and returns the signed cookie value
func (s *Sessions) Create(ctx context.Context, session *Session) (string, error) {
	token := uuid.NewString()

	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return "", fmt.Errorf("failed to marshal session data: %w", err)
	}

	if err := s.client.Set(ctx, sessionKey(token), sessionJSON, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to set session: %w", err)
	}

	return token + "." + s.sign(token), nil
}

// Get retrieves the session for a signed cookie value
func (s *Sessions) Get(ctx context.Context, cookieValue string) (*Session, error) {
	token, ok := s.verify(cookieValue)
	if !ok {
		return nil, ErrSessionNotFound
	}

	sessionJSON, err := s.client.Get(ctx, sessionKey(token)).Result()
	if err != nil {
		return nil, ErrSessionNotFound
	}

	var session Session
	if err := json.Unmarshal([]byte(sessionJSON), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}

	return &session, nil
}

// Refresh slides the idle TTL of an existing session
func (s *Sessions) Refresh(ctx context.Context, cookieValue string) error {
	token, ok := s.verify(cookieValue)
	if !ok {
		return ErrSessionNotFound
	}

	refreshed, err := s.client.Expire(ctx, sessionKey(token), s.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to refresh session TTL: %w", err)
	}
	if !refreshed {
		return ErrSessionNotFound
	}

	return nil
}

// SetHighScore updates the session's high score snapshot while preserving the
// remaining TTL
func (s *Sessions) SetHighScore(ctx context.Context, cookieValue string, highScore int) error {
	token, ok := s.verify(cookieValue)
	if !ok {
		return ErrSessionNotFound
	}

	session, err := s.Get(ctx, cookieValue)
	if err != nil {
		return err
	}

	session.HighScore = highScore

	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	// Get current TTL to preserve it
	ttl, err := s.client.TTL(ctx, sessionKey(token)).Result()
	if err != nil {
		return fmt.Errorf("failed to get session TTL: %w", err)
	}
	if ttl < 0 {
		return ErrSessionNotFound
	}

	if err := s.client.Set(ctx, sessionKey(token), sessionJSON, ttl).Err(); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	return nil
}

// Delete removes a session (for logout). Deleting a session that is already gone
// is not an error.
func (s *Sessions) Delete(ctx context.Context, cookieValue string) error {
	token, ok := s.verify(cookieValue)
	if !ok {
		return nil
	}

	if err := s.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

func (s *Sessions) sign(token string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(token))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (s *Sessions) verify(cookieValue string) (string, bool) {
	token, sig, found := strings.Cut(cookieValue, ".")
	if !found || token == "" {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(s.sign(token))) {
		return "", false
	}
	return token, true
}
