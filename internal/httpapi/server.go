// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CineScope Contributors

package httpapi

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/samber/oops"

	"github.com/cinescope/cinescope/internal/auth"
	"github.com/cinescope/cinescope/internal/library"
	"github.com/cinescope/cinescope/internal/movies"
	"github.com/cinescope/cinescope/internal/observability"
)

// UserCounter reports the number of registered accounts for the admin
// dashboard.
type UserCounter interface {
	CountUsers(ctx context.Context) (int64, error)
}

// APIConfig carries the collaborators the API routes over.
type APIConfig struct {
	Auth        *auth.Service
	Library     *library.Service
	Movies      *movies.Client // nil disables the movie routes
	Guard       *SessionGuard
	UserCounter UserCounter // nil reports zero users in admin stats
	Metrics     *observability.Metrics
	Logger      *slog.Logger
}

// API holds the route handlers and their collaborators.
type API struct {
	auth        *auth.Service
	library     *library.Service
	movies      *movies.Client
	guard       *SessionGuard
	userCounter UserCounter
	validate    *validator
	metrics     *observability.Metrics
	logger      *slog.Logger
}

// NewAPI wires the handlers and compiles the request schemas.
func NewAPI(cfg APIConfig) (*API, error) {
	if cfg.Auth == nil {
		return nil, oops.Errorf("auth service is required")
	}
	if cfg.Library == nil {
		return nil, oops.Errorf("library service is required")
	}
	if cfg.Guard == nil {
		return nil, oops.Errorf("session guard is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	validate, err := newValidator()
	if err != nil {
		return nil, err
	}

	return &API{
		auth:        cfg.Auth,
		library:     cfg.Library,
		movies:      cfg.Movies,
		guard:       cfg.Guard,
		userCounter: cfg.UserCounter,
		validate:    validate,
		metrics:     cfg.Metrics,
		logger:      cfg.Logger,
	}, nil
}

// Handler builds the routed handler with logging and metrics applied
// to every request.
func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", a.handleHealth)
	mux.HandleFunc("POST /api/auth/signup", a.handleSignup)
	mux.HandleFunc("POST /api/auth/login", a.handleLogin)
	mux.Handle("GET /api/auth/me", a.guard.RequireAuth(http.HandlerFunc(a.handleMe)))

	mux.HandleFunc("GET /api/movies/search", a.handleMovieSearch)
	mux.HandleFunc("GET /api/movies/{imdbID}", a.handleMovieDetails)

	guarded := func(h http.HandlerFunc) http.Handler {
		return a.guard.RequireAuth(h)
	}
	mux.Handle("GET /api/library/favorites", guarded(a.handleListFavorites))
	mux.Handle("PUT /api/library/favorites/{movieID}", guarded(a.handlePutFavorite))
	mux.Handle("DELETE /api/library/favorites/{movieID}", guarded(a.handleDeleteFavorite))
	mux.Handle("GET /api/library/ratings", guarded(a.handleListRatings))
	mux.Handle("PUT /api/library/ratings/{movieID}", guarded(a.handlePutRating))
	mux.Handle("DELETE /api/library/ratings/{movieID}", guarded(a.handleDeleteRating))

	mux.Handle("GET /api/admin/stats", chain(
		http.HandlerFunc(a.handleAdminStats),
		a.guard.RequireAuth,
		a.guard.RequireRole(auth.RoleAdmin),
	))

	return chain(mux, instrument(a.logger, a.metrics))
}

// Server serves the API with managed lifecycle.
type Server struct {
	addr       string
	handler    http.Handler
	listener   net.Listener
	httpServer *http.Server
	running    atomic.Bool
}

// NewServer creates an API server for the given listen address.
func NewServer(addr string, handler http.Handler) *Server {
	return &Server{addr: addr, handler: handler}
}

// Start begins serving. It returns an error channel that receives any
// serve failure after startup; the channel closes on graceful stop.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("api server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)

	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			slog.Error("api server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	slog.Info("api server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return oops.With("operation", "shutdown_api_server").Wrap(err)
		}
	}

	slog.Info("api server stopped")
	return nil
}

// Addr returns the bound address, empty if not running.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}
