package middleware

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"

	"golang.org/x/time/rate"
)

// GameLimiterFromEnv builds the process-wide request budget for upstream round
// fetches. The upstream rating API allows roughly 3 requests per second across
// all callers, so the defaults stay well under that; GAME_RATE_LIMIT (requests
// per second) and GAME_RATE_BURST tune the budget without a rebuild.
func GameLimiterFromEnv() *rate.Limiter {
	limit := getEnvAsFloat("GAME_RATE_LIMIT", 1)
	burst := getEnvAsInt("GAME_RATE_BURST", 3)
	return rate.NewLimiter(rate.Limit(limit), burst)
}

// RateLimit applies a limiter to an endpoint, shielding the rate-limited
// upstream API
func RateLimit(limiter *rate.Limiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Too many requests"})
			return
		}
		next.ServeHTTP(w, r)
	}
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("[RateLimit] Invalid float value for %s: %s, using default: %g", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("[RateLimit] Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
