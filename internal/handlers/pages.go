package handlers

import (
	"log"
	"net/http"

	"github.com/aniguess/api/internal/middleware"
	"github.com/aniguess/api/internal/web"
)

// PageHandler renders the HTML views. The session-gated views read the session
// placed in the request context by middleware.RequirePage.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// Login serves the login view
func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login.html", web.PageData{Title: "Log In"})
}

// Register serves the registration view
func (h *PageHandler) Register(w http.ResponseWriter, r *http.Request) {
	h.render(w, "register.html", web.PageData{Title: "Register"})
}

// Home serves the session-gated home view
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.render(w, "home.html", web.PageData{
		Title:     "Home",
		Username:  session.Username,
		HighScore: session.HighScore,
	})
}

// Game serves the session-gated game view
func (h *PageHandler) Game(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.render(w, "game.html", web.PageData{
		Title:     "Game",
		Username:  session.Username,
		HighScore: session.HighScore,
	})
}

// Leaderboard serves the session-gated leaderboard view; the table itself is
// filled by the client from /api/leaderboard
func (h *PageHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	h.render(w, "leaderboard.html", web.PageData{Title: "Leaderboard"})
}

func (h *PageHandler) render(w http.ResponseWriter, name string, data web.PageData) {
	if err := web.Render(w, name, data); err != nil {
		log.Printf("[Pages] %v", err)
	}
}
