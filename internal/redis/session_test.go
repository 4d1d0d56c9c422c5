package redis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessions(t *testing.T) (*Sessions, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return NewSessions(&Client{rdb}, 30*time.Minute, "test-secret"), mr
}

func newSession() *Session {
	return &Session{
		UserID:    "id-1",
		Username:  "alice",
		HighScore: 5,
		CreatedAt: time.Now().UTC(),
	}
}

func TestSessionRoundTrip(t *testing.T) {
	sessions, _ := newTestSessions(t)
	ctx := context.Background()

	cookieValue, err := sessions.Create(ctx, newSession())
	require.NoError(t, err)

	got, err := sessions.Get(ctx, cookieValue)
	require.NoError(t, err)

	assert.Equal(t, "id-1", got.UserID)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, 5, got.HighScore)
}

func TestSessionTamperedCookieRejected(t *testing.T) {
	sessions, _ := newTestSessions(t)
	ctx := context.Background()

	cookieValue, err := sessions.Create(ctx, newSession())
	require.NoError(t, err)

	// Forge a different token under the original signature
	token, sig, _ := strings.Cut(cookieValue, ".")
	forged := token[:len(token)-1] + "x" + "." + sig

	_, err = sessions.Get(ctx, forged)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = sessions.Get(ctx, "no-signature-at-all")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionIdleExpiry(t *testing.T) {
	sessions, mr := newTestSessions(t)
	ctx := context.Background()

	cookieValue, err := sessions.Create(ctx, newSession())
	require.NoError(t, err)

	mr.FastForward(31 * time.Minute)

	_, err = sessions.Get(ctx, cookieValue)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionRefreshSlidesExpiry(t *testing.T) {
	sessions, mr := newTestSessions(t)
	ctx := context.Background()

	cookieValue, err := sessions.Create(ctx, newSession())
	require.NoError(t, err)

	// Each refresh restarts the 30-minute idle window
	mr.FastForward(20 * time.Minute)
	require.NoError(t, sessions.Refresh(ctx, cookieValue))

	mr.FastForward(20 * time.Minute)
	_, err = sessions.Get(ctx, cookieValue)
	assert.NoError(t, err)
}

func TestSessionRefreshExpired(t *testing.T) {
	sessions, mr := newTestSessions(t)
	ctx := context.Background()

	cookieValue, err := sessions.Create(ctx, newSession())
	require.NoError(t, err)

	mr.FastForward(31 * time.Minute)

	assert.ErrorIs(t, sessions.Refresh(ctx, cookieValue), ErrSessionNotFound)
}

func TestSessionSetHighScorePreservesTTL(t *testing.T) {
	sessions, mr := newTestSessions(t)
	ctx := context.Background()

	cookieValue, err := sessions.Create(ctx, newSession())
	require.NoError(t, err)

	mr.FastForward(10 * time.Minute)
	require.NoError(t, sessions.SetHighScore(ctx, cookieValue, 9))

	got, err := sessions.Get(ctx, cookieValue)
	require.NoError(t, err)
	assert.Equal(t, 9, got.HighScore)

	// The snapshot update must not extend the idle window
	token, _, _ := strings.Cut(cookieValue, ".")
	assert.LessOrEqual(t, mr.TTL(sessionKey(token)), 20*time.Minute)
}

func TestSessionDelete(t *testing.T) {
	sessions, _ := newTestSessions(t)
	ctx := context.Background()

	cookieValue, err := sessions.Create(ctx, newSession())
	require.NoError(t, err)

	require.NoError(t, sessions.Delete(ctx, cookieValue))

	_, err = sessions.Get(ctx, cookieValue)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// Deleting an already-gone session is not an error
	assert.NoError(t, sessions.Delete(ctx, cookieValue))
}
