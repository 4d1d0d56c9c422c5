package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	redisclient "github.com/aniguess/api/internal/redis"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// SessionContextKey is the key for storing the session in request context
	SessionContextKey contextKey = "session"

	// SessionCookieName is the name of the session cookie
	SessionCookieName = "aniguess_session"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SessionReader is the part of the session store the middleware needs
type SessionReader interface {
	Get(ctx context.Context, cookieValue string) (*redisclient.Session, error)
	Refresh(ctx context.Context, cookieValue string) error
	TTL() time.Duration
}

// RequireSession gates an API endpoint behind an active session. The session's
// idle TTL slides on every request that passes through.
func RequireSession(sessions SessionReader, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := loadSession(sessions, w, r)
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Unauthorized. Please log in."})
			return
		}

		ctx := context.WithValue(r.Context(), SessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// RequirePage gates a page behind an active session, redirecting anonymous
// visitors to the login view
func RequirePage(sessions SessionReader, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := loadSession(sessions, w, r)
		if !ok {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), SessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// loadSession reads the session cookie, loads the session, and slides both the
// server-side TTL and the cookie expiry
func loadSession(sessions SessionReader, w http.ResponseWriter, r *http.Request) (*redisclient.Session, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil, false
	}

	// Store trouble is indistinguishable from a missing session here; both
	// end at the login view.
	session, err := sessions.Get(r.Context(), cookie.Value)
	if err != nil {
		return nil, false
	}

	if err := sessions.Refresh(r.Context(), cookie.Value); err == nil {
		SetSessionCookie(w, cookie.Value, sessions.TTL())
	}

	return session, true
}

// GetSession extracts the session from request context
func GetSession(r *http.Request) (*redisclient.Session, bool) {
	session, ok := r.Context().Value(SessionContextKey).(*redisclient.Session)
	return session, ok
}

// SetSessionCookie issues the HTTP-only session cookie
func SetSessionCookie(w http.ResponseWriter, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
