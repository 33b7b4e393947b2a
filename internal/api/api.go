// Package api implements the HTTP API server for patchlint.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sprite-ai/patchlint/internal/cache"
	"github.com/sprite-ai/patchlint/internal/lint"
	"github.com/sprite-ai/patchlint/internal/logging"
)

// Options configures the linting done on behalf of API clients.
type Options struct {
	Lint    lint.Options
	Pattern string // default pattern for /api/run
	Jobs    int
	Cache   *cache.DiskCache
	Logger  *zap.SugaredLogger
}

// Server is the patchlint HTTP API server.
type Server struct {
	addr   string
	opts   Options
	linter *lint.Linter
	log    *zap.SugaredLogger
	mux    *http.ServeMux
	server *http.Server
}

// New creates a new API server.
func New(addr string, opts Options) (*Server, error) {
	linter, err := lint.New(opts.Lint)
	if err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}

	s := &Server{addr: addr, opts: opts, linter: linter, log: opts.Logger}
	s.mux = http.NewServeMux()
	s.registerRoutes()
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s, nil
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /api/lint", s.handleLint)
	s.mux.HandleFunc("POST /api/run", s.handleRun)
	s.mux.HandleFunc("GET /api/ws", s.handleWebSocket)
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.log.Infow("patchlint API server listening", "addr", s.addr)
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		s.log.Warnw("json encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// readJSON decodes a JSON request body into v.
func readJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return fmt.Errorf("empty request body")
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}
