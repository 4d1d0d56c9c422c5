package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/aniguess/api/internal/models"
)

var (
	// ErrUsernameTaken is returned when an insert collides with an existing username
	ErrUsernameTaken = errors.New("username already exists")

	// ErrUserNotFound is returned when a lookup matches no user
	ErrUserNotFound = errors.New("user not found")
)

// CreateUser inserts a new user record. The UNIQUE constraint on username is the
// guard against duplicate registrations, including concurrent ones.
func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, password, high_score)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err := db.QueryRowContext(ctx, query, user.ID, user.Username, user.Password, user.HighScore).Scan(&user.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrUsernameTaken
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetUserByUsername looks up a user record by its unique, case-sensitive username
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, username, password, high_score, created_at
		FROM users
		WHERE username = $1
	`
	err := db.QueryRowContext(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.Password,
		&user.HighScore,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	return &user, nil
}

// RaiseHighScore persists score for the given user if it exceeds the stored high
// score. The conditional UPDATE makes the raise atomic per row, so two concurrent
// submissions cannot lower the stored value. Returns the resulting high score and
// whether it was raised.
func (db *DB) RaiseHighScore(ctx context.Context, id string, score int) (int, bool, error) {
	var updated int
	query := `
		UPDATE users
		SET high_score = $2
		WHERE id = $1 AND high_score < $2
		RETURNING high_score
	`
	err := db.QueryRowContext(ctx, query, id, score).Scan(&updated)
	if err == nil {
		return updated, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, fmt.Errorf("failed to update high score: %w", err)
	}

	// Not raised: either the stored score is already at least as high, or the
	// user is gone. Fetch the current value to report it.
	var current int
	err = db.QueryRowContext(ctx, `SELECT high_score FROM users WHERE id = $1`, id).Scan(&current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, ErrUserNotFound
		}
		return 0, false, fmt.Errorf("failed to fetch high score: %w", err)
	}

	return current, false, nil
}

// TopScores returns every user ordered by high score descending. Ties are broken
// by username so the ordering is stable.
func (db *DB) TopScores(ctx context.Context) ([]models.LeaderboardEntry, error) {
	query := `
		SELECT username, high_score
		FROM users
		ORDER BY high_score DESC, username ASC
	`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []models.LeaderboardEntry{}
	for rows.Next() {
		var entry models.LeaderboardEntry
		if err := rows.Scan(&entry.Username, &entry.HighScore); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read leaderboard rows: %w", err)
	}

	return entries, nil
}
