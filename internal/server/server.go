// Package server implements a local preview of the generated static site.
// It serves the project directory (web/ and tiles/) as plain files; tiles
// are pre-rendered, nothing is generated on demand.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server previews a generated orthoweb project directory.
type Server struct {
	root      string
	version   string
	startTime time.Time
}

// New creates a preview server for the given project directory.
func New(root, version string) *Server {
	return &Server{
		root:      root,
		version:   version,
		startTime: time.Now(),
	}
}

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Uptime    int       `json:"uptime_seconds"`
	Timestamp time.Time `json:"timestamp"`
	// ConfigPresent reports whether web/js/map.js exists, i.e. whether a
	// build completed. The artifact's presence is the success signal.
	ConfigPresent bool `json:"config_present"`
}

// Router builds the chi router: middleware, the health endpoint, and a
// file server rooted at the project directory.
func (s *Server) Router(timeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(timeout))

	r.Get("/health", s.handleHealth)

	// Redirect the bare root into the viewer page.
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/web/", http.StatusFound)
	})

	r.Handle("/*", http.FileServer(http.Dir(s.root)))

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:        "healthy",
		Version:       s.version,
		Uptime:        int(time.Since(s.startTime).Seconds()),
		Timestamp:     time.Now(),
		ConfigPresent: s.configPresent(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("Error encoding health response: %v", err)
	}
}

func (s *Server) configPresent() bool {
	info, err := os.Stat(filepath.Join(s.root, "web", "js", "map.js"))
	return err == nil && !info.IsDir()
}
