// Package server provides the HTTP server for the airsketch drawing controller.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/airsketch/internal/app"
	"github.com/ayusman/airsketch/internal/engine"
	"github.com/ayusman/airsketch/internal/server/api"
	"github.com/ayusman/airsketch/internal/store"
)

// streamFPS is the frame rate of the MJPEG streams.
const streamFPS = 15

// Controller is the running application as seen by the HTTP layer.
type Controller interface {
	api.SettingsService
	api.TargetLister
	FrameSource
	Status() app.Status
	Preview() (gocv.Mat, error)
	CanvasSnapshot() (gocv.Mat, error)
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	App       Controller
	Logger    *slog.Logger
}

// Server represents the HTTP server for the airsketch application.
type Server struct {
	config Config
	logger *slog.Logger
	mux    *http.ServeMux
	frames *FramesHandler
	http   *http.Server
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config: config,
		logger: logger,
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
		selections := api.NewSelectionsHandler(s.config.Store)
		s.mux.Handle("/api/selections", selections)
		s.mux.Handle("/api/selections/", selections)
	}

	if c := s.config.App; c != nil {
		s.mux.HandleFunc("/api/status", s.handleStatus)
		s.mux.Handle("/api/settings", api.NewSettingsHandler(c))
		s.mux.Handle("/api/targets", api.NewTargetsHandler(c))
		s.mux.Handle("/api/canvas/clear", api.NewClearHandler(c))

		s.frames = NewFramesHandler(c, s.logger)
		s.mux.Handle("/api/frames", s.frames)

		s.mux.Handle("/api/stream", NewStreamHandler(c.Preview, streamFPS))
		s.mux.Handle("/api/canvas", NewStreamHandler(c.CanvasSnapshot, streamFPS))
	}

	// Serve static files if StaticDir is configured
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

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}
	s.writeJSON(w, response)
}

// statusResponse adds the mode vocabulary to the application status so a
// renderer can build its legend without hard-coding it.
type statusResponse struct {
	app.Status
	Modes []engine.Mode `json:"modes"`
}

// handleStatus handles GET requests to /api/status.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeJSON(w, statusResponse{Status: s.config.App.Status(), Modes: engine.Modes})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", slog.Any("error", err))
	}
}

// ListenAndServe starts the HTTP server on the given address and blocks
// until it stops. It returns nil after Shutdown.
func (s *Server) ListenAndServe(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("starting server", slog.String("addr", addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections, disconnects frame subscribers and
// waits for in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.frames != nil {
		s.frames.Close()
	}
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
