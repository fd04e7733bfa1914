// Package dashboard serves a read-only JSON status API over the per-strategy
// state stores.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/proj-blank/lightrain-options/internal/models"
	"github.com/proj-blank/lightrain-options/internal/storage"
)

type Server struct {
	router    *chi.Mux
	server    *http.Server
	stores    map[string]storage.Interface
	logger    *logrus.Logger
	port      int
	authToken string
}

type Config struct {
	Port      int
	AuthToken string
}

// StateView is the per-strategy snapshot returned by /api/state.
type StateView struct {
	Strategy    string                 `json:"strategy"`
	State       models.PositionState   `json:"state"`
	Position    *models.SpreadPosition `json:"position,omitempty"`
	Capital     float64                `json:"capital"`
	LastRunDate string                 `json:"last_run_date"`
}

func NewServer(cfg Config, stores map[string]storage.Interface, logger *logrus.Logger) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		stores:    stores,
		logger:    logger,
		port:      cfg.Port,
		authToken: cfg.AuthToken,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))

	if s.authToken != "" {
		s.router.Use(s.authMiddleware)
	}

	s.router.Get("/api/state", s.handleStateAll)
	s.router.Get("/api/state/{strategy}", s.handleState)
	s.router.Get("/api/trades/{strategy}", s.handleTrades)
	s.router.Get("/api/stats/{strategy}", s.handleStats)
	s.router.Get("/health", s.handleHealth)
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		token := r.Header.Get("X-Auth-Token")
		if token == "" {
			token = r.URL.Query().Get("token")
		}

		if token != s.authToken {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Infof("Starting dashboard server on port %d", s.port)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// refresh re-reads a store from disk before serving. The run process is a
// separate invocation that rewrites the state files between triggers, so the
// in-memory copy here goes stale. A failed reload serves the last good state.
func (s *Server) refresh(name string, store storage.Interface) {
	if err := store.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.WithError(err).WithField("strategy", name).
			Warn("failed to reload state file")
	}
}

func (s *Server) stateView(name string, store storage.Interface) StateView {
	view := StateView{
		Strategy:    name,
		State:       models.StateFlat,
		Capital:     store.Capital(),
		LastRunDate: store.LastRunDate(),
	}
	if pos := store.Position(); pos != nil {
		view.State = models.StateOpen
		view.Position = pos
	}
	return view
}

func (s *Server) handleStateAll(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, len(s.stores))
	for name := range s.stores {
		names = append(names, name)
	}
	sort.Strings(names)

	views := make([]StateView, 0, len(names))
	for _, name := range names {
		s.refresh(name, s.stores[name])
		views = append(views, s.stateView(name, s.stores[name]))
	}
	s.writeJSON(w, views)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "strategy")
	store, ok := s.stores[name]
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	s.refresh(name, store)
	s.writeJSON(w, s.stateView(name, store))
}

func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "strategy")
	store, ok := s.stores[name]
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	s.refresh(name, store)
	s.writeJSON(w, store.Trades())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "strategy")
	store, ok := s.stores[name]
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	s.refresh(name, store)
	s.writeJSON(w, store.Stats())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("Failed to encode response")
	}
}
