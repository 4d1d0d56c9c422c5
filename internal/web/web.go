// Package web holds the embedded HTML templates and static client assets.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed templates/* static/*
var assets embed.FS

var templates = template.Must(template.ParseFS(assets, "templates/*.html"))

// PageData carries the values the session-gated views render
type PageData struct {
	Title     string
	Username  string
	HighScore int
}

// Render writes the named template to w
func Render(w http.ResponseWriter, name string, data PageData) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	return nil
}

// StaticHandler serves the embedded client assets under /static/
func StaticHandler() http.Handler {
	static, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(static)))
}
