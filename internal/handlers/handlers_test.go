package handlers

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/aniguess/api/internal/database"
	"github.com/aniguess/api/internal/models"
	redisclient "github.com/aniguess/api/internal/redis"
)

// fakeUserStore is an in-memory UserStore mirroring the semantics of the
// Postgres implementation
type fakeUserStore struct {
	mu     sync.Mutex
	byName map[string]*models.User
	err    error
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	store := &fakeUserStore{byName: map[string]*models.User{}}
	for _, user := range users {
		store.byName[user.Username] = user
	}
	return store
}

func (f *fakeUserStore) CreateUser(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	if _, exists := f.byName[user.Username]; exists {
		return database.ErrUsernameTaken
	}

	user.CreatedAt = time.Now()
	stored := *user
	f.byName[user.Username] = &stored
	return nil
}

func (f *fakeUserStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.byName[username]
	if !ok {
		return nil, database.ErrUserNotFound
	}

	found := *user
	return &found, nil
}

func (f *fakeUserStore) RaiseHighScore(_ context.Context, id string, score int) (int, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return 0, false, f.err
	}
	for _, user := range f.byName {
		if user.ID == id {
			if score > user.HighScore {
				user.HighScore = score
				return score, true, nil
			}
			return user.HighScore, false, nil
		}
	}

	return 0, false, database.ErrUserNotFound
}

func (f *fakeUserStore) TopScores(_ context.Context) ([]models.LeaderboardEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}

	entries := []models.LeaderboardEntry{}
	for _, user := range f.byName {
		entries = append(entries, models.LeaderboardEntry{Username: user.Username, HighScore: user.HighScore})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].HighScore != entries[j].HighScore {
			return entries[i].HighScore > entries[j].HighScore
		}
		return entries[i].Username < entries[j].Username
	})

	return entries, nil
}

// fakeSessionStore is an in-memory session store satisfying both the handlers'
// SessionStore and the middleware's SessionReader
type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*redisclient.Session
	next     int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]*redisclient.Session{}}
}

func (f *fakeSessionStore) Create(_ context.Context, session *redisclient.Session) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.next++
	cookieValue := fmt.Sprintf("cookie-%d", f.next)
	stored := *session
	f.sessions[cookieValue] = &stored
	return cookieValue, nil
}

func (f *fakeSessionStore) Get(_ context.Context, cookieValue string) (*redisclient.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	session, ok := f.sessions[cookieValue]
	if !ok {
		return nil, redisclient.ErrSessionNotFound
	}
	found := *session
	return &found, nil
}

func (f *fakeSessionStore) Refresh(_ context.Context, cookieValue string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.sessions[cookieValue]; !ok {
		return redisclient.ErrSessionNotFound
	}
	return nil
}

func (f *fakeSessionStore) SetHighScore(_ context.Context, cookieValue string, highScore int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	session, ok := f.sessions[cookieValue]
	if !ok {
		return redisclient.ErrSessionNotFound
	}
	session.HighScore = highScore
	return nil
}

func (f *fakeSessionStore) Delete(_ context.Context, cookieValue string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.sessions, cookieValue)
	return nil
}

func (f *fakeSessionStore) TTL() time.Duration {
	return 30 * time.Minute
}
