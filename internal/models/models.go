package models

import "time"

// User represents a player account
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	HighScore int       `json:"highScore"`
	CreatedAt time.Time `json:"created_at"`
}

// LeaderboardEntry represents one row of the leaderboard, ordered by high score
type LeaderboardEntry struct {
	Username  string `json:"username"`
	HighScore int    `json:"highScore"`
}
