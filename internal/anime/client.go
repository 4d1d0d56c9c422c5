package anime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrUpstreamExhausted is returned when no suitable candidate was found within
// the configured attempt budget
var ErrUpstreamExhausted = errors.New("no suitable anime found within attempt limit")

// Candidate is one externally-sourced item used as one side of a higher/lower
// comparison. Candidates are fetched fresh per round and never persisted.
type Candidate struct {
	Title  string  `json:"title"`
	Image  string  `json:"image"`
	Score  float64 `json:"score"`
	Rating string  `json:"rating"`
}

// Pair holds the two candidates of one game round
type Pair struct {
	Anime1 Candidate `json:"anime1"`
	Anime2 Candidate `json:"anime2"`
}

// Config holds upstream API configuration
type Config struct {
	BaseURL     string
	MaxAttempts int
	Timeout     time.Duration
}

// LoadConfigFromEnv loads upstream API configuration from environment variables
func LoadConfigFromEnv() *Config {
	return &Config{
		BaseURL:     getEnv("ANIME_API_URL", "https://api.jikan.moe/v4"),
		MaxAttempts: getEnvAsInt("ANIME_MAX_ATTEMPTS", 8),
		Timeout:     getEnvAsDuration("ANIME_TIMEOUT", 5*time.Second),
	}
}

// Client fetches random rated anime from a Jikan-compatible API. The upstream is
// treated as untrusted: slow responses are cut off by the HTTP timeout, unsuitable
// records are retried up to MaxAttempts, and malformed payloads surface as errors.
type Client struct {
	baseURL     string
	maxAttempts int
	http        *http.Client
}

// NewClient creates an upstream API client with the provided configuration
func NewClient(config *Config) *Client {
	return &Client{
		baseURL:     strings.TrimSuffix(config.BaseURL, "/"),
		maxAttempts: config.MaxAttempts,
		http: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// jikanResponse mirrors the subset of the upstream payload the game uses
type jikanResponse struct {
	Data struct {
		Title        string `json:"title"`
		TitleEnglish string `json:"title_english"`
		Images       struct {
			JPG struct {
				ImageURL string `json:"image_url"`
			} `json:"jpg"`
		} `json:"images"`
		Score  *float64 `json:"score"`
		Rating string   `json:"rating"`
	} `json:"data"`
}

// FetchValidCandidate requests random anime until one is suitable for the game:
// it must carry an image, a score, and a content rating that is not restricted
// (first character 'R'). A missing rating defaults to a single space, which never
// matches the restricted check. The loop is bounded by MaxAttempts and aborts as
// soon as ctx is cancelled.
func (c *Client) FetchValidCandidate(ctx context.Context) (*Candidate, error) {
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		candidate, err := c.fetchOne(ctx)
		if err != nil {
			return nil, err
		}

		if suitable(candidate) {
			return candidate, nil
		}

		log.Printf("[Anime] Unsuitable candidate %q (attempt %d/%d)", candidate.Title, attempt, c.maxAttempts)
	}

	return nil, ErrUpstreamExhausted
}

// RoundPair fetches the two candidates of one round. The fetches are independent,
// so both sides may coincide; a tie then loses for either guess.
func (c *Client) RoundPair(ctx context.Context) (*Pair, error) {
	anime1, err := c.FetchValidCandidate(ctx)
	if err != nil {
		return nil, err
	}

	anime2, err := c.FetchValidCandidate(ctx)
	if err != nil {
		return nil, err
	}

	return &Pair{Anime1: *anime1, Anime2: *anime2}, nil
}

// fetchOne performs a single upstream request and maps the payload to a Candidate
func (c *Client) fetchOne(ctx context.Context) (*Candidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/random/anime", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build upstream request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}

	var payload jikanResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode upstream payload: %w", err)
	}

	title := payload.Data.TitleEnglish
	if title == "" {
		title = payload.Data.Title
	}

	rating := payload.Data.Rating
	if rating == "" {
		rating = " "
	}

	candidate := &Candidate{
		Title:  title,
		Image:  payload.Data.Images.JPG.ImageURL,
		Rating: rating,
	}
	// Upstream scores are 1.0-10.0; a missing score stays negative so the
	// suitability check rejects the record.
	candidate.Score = -1
	if payload.Data.Score != nil {
		candidate.Score = *payload.Data.Score
	}

	return candidate, nil
}

// suitable reports whether a candidate can be shown: image and score present,
// content rating not restricted
func suitable(c *Candidate) bool {
	return c.Image != "" && c.Score >= 0 && !strings.HasPrefix(c.Rating, "R")
}

// GuessCorrect judges a "higher" or "lower" guess about challenger relative to
// reference. The comparison is a strict inequality, so a tie is incorrect for
// both directions.
func GuessCorrect(direction string, reference, challenger Candidate) bool {
	switch direction {
	case "higher":
		return challenger.Score > reference.Score
	case "lower":
		return challenger.Score < reference.Score
	default:
		return false
	}
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("[Anime] Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("[Anime] Invalid duration value for %s: %s, using default: %s", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
