// Package server provides the HTTP server for the try-on application.
package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/fonsirada/clothingapp/internal/capture"
	"github.com/fonsirada/clothingapp/internal/manip"
	"github.com/fonsirada/clothingapp/internal/server/api"
	"github.com/fonsirada/clothingapp/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir  string
	Store      *store.Store
	Camera     capture.Camera
	Controller *manip.Controller
	Motion     *capture.MotionGate
}

// Server represents the HTTP server for the try-on application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Store != nil {
		designHandler := api.NewDesignHandler(s.config.Store)
		layoutHandler := api.NewLayoutHandler(s.config.Store, s.config.Controller)

		// Route /api/designs/{id}/layout to the layout handler, the
		// rest to the design handler.
		designRouter := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/layout") {
				layoutHandler.ServeHTTP(w, r)
				return
			}
			designHandler.ServeHTTP(w, r)
		})

		s.mux.Handle("/api/designs", designRouter)
		s.mux.Handle("/api/designs/", designRouter)
	}

	if s.config.Controller != nil {
		settingsHandler := api.NewSettingsHandler(s.config.Controller, s.config.Store, s.config.Motion)
		s.mux.Handle("/api/settings", settingsHandler)

		stateHandler := NewStateHandler(s.config.Controller)
		s.mux.Handle("/api/state", stateHandler)
	}

	if s.config.Camera != nil {
		streamHandler := NewStreamHandler(s.config.Camera)
		s.mux.Handle("/api/stream", streamHandler)
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
