package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/aniguess/api/internal/database"
	"github.com/aniguess/api/internal/middleware"
	"github.com/aniguess/api/internal/models"
	redisclient "github.com/aniguess/api/internal/redis"
	"github.com/google/uuid"
)

type AuthHandler struct {
	users    UserStore
	sessions SessionStore
}

func NewAuthHandler(users UserStore, sessions SessionStore) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions}
}

// Register handles user registration from the registration form
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	username, password, err := credentialsFromForm(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `Username and password are required. <a href="/register">Go back</a>`)
		return
	}

	user := &models.User{
		ID:        uuid.NewString(),
		Username:  username,
		Password:  password,
		HighScore: 0,
	}

	if err := h.users.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, database.ErrUsernameTaken) {
			w.WriteHeader(http.StatusConflict)
			io.WriteString(w, `Username already taken. <a href="/register">Go back</a>`)
			return
		}
		log.Printf("[Auth] Failed to insert user: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, "Internal server error.")
		return
	}

	if !h.startSession(w, r, user) {
		return
	}

	log.Printf("[Auth] User registered successfully: %s (ID: %s)", user.Username, user.ID)
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

// Login handles user authentication from the login form
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	username, password, err := credentialsFromForm(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `Username and password are required. <a href="/">Go back</a>`)
		return
	}

	user, err := h.users.GetUserByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `Incorrect password. Please try again. <a href="/">Go back</a>`)
			return
		}
		log.Printf("[Auth] Failed to fetch user: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, "Internal server error.")
		return
	}

	// Passwords are stored and compared in plain text, matching the system
	// this one replaces. Hashing requires migrating the stored credentials.
	if user.Password != password {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `Incorrect password. Please try again. <a href="/">Go back</a>`)
		return
	}

	if !h.startSession(w, r, user) {
		return
	}

	log.Printf("[Auth] User logged in successfully: %s (ID: %s)", user.Username, user.ID)
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

// Logout discards the session and returns to the login view. The user record
// persists.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		if err := h.sessions.Delete(r.Context(), cookie.Value); err != nil {
			log.Printf("[Auth] Failed to delete session: %v", err)
		}
	}

	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// startSession writes the session state and issues the cookie before the
// caller redirects
func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, user *models.User) bool {
	cookieValue, err := h.sessions.Create(r.Context(), &redisclient.Session{
		UserID:    user.ID,
		Username:  user.Username,
		HighScore: user.HighScore,
		CreatedAt: time.Now(),
	})
	if err != nil {
		log.Printf("[Auth] Failed to create session: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, "Internal server error.")
		return false
	}

	middleware.SetSessionCookie(w, cookieValue, h.sessions.TTL())
	return true
}

// credentialsFromForm extracts and validates the login/registration form fields
func credentialsFromForm(r *http.Request) (string, string, error) {
	if err := r.ParseForm(); err != nil {
		return "", "", err
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		return "", "", errors.New("username and password are required")
	}
	if len(username) > 50 {
		return "", "", errors.New("username must not exceed 50 characters")
	}

	return username, password, nil
}
