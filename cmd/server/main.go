package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/aniguess/api/internal/anime"
	"github.com/aniguess/api/internal/database"
	"github.com/aniguess/api/internal/handlers"
	"github.com/aniguess/api/internal/middleware"
	redisclient "github.com/aniguess/api/internal/redis"
	"github.com/aniguess/api/internal/web"
)

func main() {
	// Load configuration from a .env file when present, then the environment
	if err := godotenv.Load(); err == nil {
		log.Println("[API] Loaded configuration from .env")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Initialize database connection
	log.Println("[API] Initializing database connection...")
	db, err := database.NewConnection(database.LoadConfigFromEnv())
	if err != nil {
		log.Fatalf("[API] Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.InitSchema(); err != nil {
		log.Fatalf("[API] Failed to initialize schema: %v", err)
	}

	// Initialize session store
	log.Println("[API] Initializing Redis connection...")
	redisConfig := redisclient.LoadConfigFromEnv()
	rdb, err := redisclient.NewClient(redisConfig)
	if err != nil {
		log.Fatalf("[API] Failed to connect to Redis: %v", err)
	}
	defer rdb.Close()

	sessions := redisclient.NewSessions(rdb, redisConfig.SessionTTL, redisConfig.SessionSecret)

	// Upstream rating source
	source := anime.NewClient(anime.LoadConfigFromEnv())

	// Initialize handlers
	pageHandler := handlers.NewPageHandler()
	authHandler := handlers.NewAuthHandler(db, sessions)
	gameHandler := handlers.NewGameHandler(source)
	scoreHandler := handlers.NewScoreHandler(db, sessions)
	leaderboardHandler := handlers.NewLeaderboardHandler(db)

	// Budget round fetches across all players to stay under the upstream's
	// request allowance
	gameLimiter := middleware.GameLimiterFromEnv()

	// Setup HTTP routes
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Pages
	mux.HandleFunc("GET /{$}", pageHandler.Login)
	mux.HandleFunc("GET /register", pageHandler.Register)
	mux.HandleFunc("GET /home", middleware.RequirePage(sessions, pageHandler.Home))
	mux.HandleFunc("GET /game", middleware.RequirePage(sessions, pageHandler.Game))
	mux.HandleFunc("GET /leaderboard", middleware.RequirePage(sessions, pageHandler.Leaderboard))
	mux.Handle("GET /static/", web.StaticHandler())

	// Auth routes
	mux.HandleFunc("POST /register", authHandler.Register)
	mux.HandleFunc("POST /login", authHandler.Login)
	mux.HandleFunc("GET /logout", authHandler.Logout)

	// Game data, served under both route variants
	getAnime := middleware.RateLimit(gameLimiter, gameHandler.GetAnime)
	mux.HandleFunc("GET /get-anime", getAnime)
	mux.HandleFunc("GET /api/anime", getAnime)

	// Score and leaderboard
	mux.HandleFunc("POST /update-score", middleware.RequireSession(sessions, scoreHandler.UpdateScore))
	mux.HandleFunc("GET /api/leaderboard", middleware.RequireSession(sessions, leaderboardHandler.GetLeaderboard))

	// CORS middleware
	handler := corsMiddleware(mux)

	// Start server
	log.Printf("[API] Starting server on port %s...", port)
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[API] Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("[API] Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[API] Shutdown error: %v", err)
	}
}

// corsMiddleware adds CORS headers to all responses
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
