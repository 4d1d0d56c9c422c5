package redis

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps the Redis client backing the session store
type Client struct {
	*redis.Client
}

// Config holds the Redis connection settings together with the session
// parameters served from this instance
type Config struct {
	Host          string
	Port          string
	Password      string
	DB            int
	PoolSize      int
	DialTimeout   time.Duration
	SessionTTL    time.Duration
	SessionSecret string
}

// LoadConfigFromEnv loads the Redis and session configuration from environment
// variables
func LoadConfigFromEnv() *Config {
	return &Config{
		Host:          getEnv("REDIS_HOST", "localhost"),
		Port:          getEnv("REDIS_PORT", "6379"),
		Password:      getEnv("REDIS_PASSWORD", ""),
		DB:            getEnvAsInt("REDIS_DB", 0),
		PoolSize:      getEnvAsInt("REDIS_POOL_SIZE", 10),
		DialTimeout:   getEnvAsDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		SessionTTL:    getEnvAsDuration("SESSION_TTL", 30*time.Minute),
		SessionSecret: getEnv("SESSION_SECRET", "change-me-in-production"),
	}
}

// NewClient connects to Redis and verifies the connection. Session commands are
// single-key reads and writes of small JSON values, so the command timeouts stay
// tight; a session lookup that takes seconds should fail the request instead of
// holding a connection.
func NewClient(config *Config) (*Client, error) {
	addr := fmt.Sprintf("%s:%s", config.Host, config.Port)

	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), config.DialTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Printf("[Redis] Session store connected to %s (db %d, pool %d, ttl %s)",
		addr, config.DB, config.PoolSize, config.SessionTTL)

	return &Client{rdb}, nil
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
		log.Printf("[Redis] Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
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
		log.Printf("[Redis] Invalid duration value for %s: %s, using default: %s", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
