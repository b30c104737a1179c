// internal/httpserver/server.go
//
// HTTP server wiring for the codebreaker backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     access logging).
//   - Public endpoints: "/", "/health", "/pools".
//   - Game endpoints (optional auth): POST /game/new, /game/guess,
//     /game/restart and GET /game/{id}.
//   - Daily challenge endpoints (optional auth): mounted under /daily.
//   - Auth + profile endpoints: /auth/*, /stats/me, /games/mine.
//
// Notes:
//   - Games are owned by the signed-in user or by the anonymous cookie; other
//     callers get 404 for them.
//   - The secret is only ever sent after a solving guess.
//   - Ledger writes (gamelog) are best effort: failures are logged, not
//     returned to the player.

package httpserver

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/coder/quartz"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/codebreaker/internal/account"
	"github.com/robalobadob/codebreaker/internal/code"
	"github.com/robalobadob/codebreaker/internal/config"
	"github.com/robalobadob/codebreaker/internal/gamelog"
	"github.com/robalobadob/codebreaker/internal/pool"
	"github.com/robalobadob/codebreaker/internal/randutil"
	"github.com/robalobadob/codebreaker/internal/store"
)

// Server bundles router, game store, ledgers and configuration.
type Server struct {
	r      *chi.Mux
	cfg    config.Server
	store  store.Store
	db     *sql.DB
	pools  *pool.Registry
	users  *account.Service
	tokens *account.Tokens
	games  *gamelog.Log
	clock  quartz.Clock
	rng    func() code.RandSource
	logger zerolog.Logger
}

// Option customizes a Server.
type Option func(*Server)

// WithClock replaces the wall clock (tests use quartz.NewMock).
func WithClock(c quartz.Clock) Option {
	return func(s *Server) { s.clock = c }
}

// WithRandSource sets the randomness used for new secrets.
func WithRandSource(fn func() code.RandSource) Option {
	return func(s *Server) { s.rng = fn }
}

// WithLogger sets the access/diagnostic logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New constructs a Server, installs middleware and registers routes.
func New(cfg config.Server, st store.Store, db *sql.DB, pools *pool.Registry, opts ...Option) (*Server, error) {
	s := &Server{
		r:      chi.NewRouter(),
		cfg:    cfg,
		store:  st,
		db:     db,
		pools:  pools,
		games:  gamelog.New(db),
		clock:  quartz.NewReal(),
		rng:    func() code.RandSource { return randutil.Crypto() },
		logger: log.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.users = account.NewService(db, s.now)
	s.tokens = account.NewTokens(cfg.JWTSecret, cfg.TokenTTL(), s.now)

	dailyPool, ok := pools.Lookup(cfg.DailyPool)
	if !ok {
		return nil, errors.New("httpserver: unknown daily pool " + cfg.DailyPool)
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(s.accessLog)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(timeout))
	s.r.Use(jsonContentType)
	s.r.Use(corsFor(cfg.ClientOrigin))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service": "codebreaker",
			"endpoints": []string{
				"/health", "/pools", "POST /game/new", "POST /game/guess", "POST /game/restart",
				"GET /game/{id}", "/daily/*", "/auth/*",
			},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "games": s.store.Len()})
	})
	s.r.Get("/pools", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"default": s.pools.Default().Name, "pools": s.pools.All()})
	})

	// Game endpoints: guests can play.
	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth())
		r.Post("/game/new", s.handleNewGame)
		r.Post("/game/guess", s.handleGuess)
		r.Post("/game/restart", s.handleRestart)
		r.Get("/game/{id}", s.handleGetGame)
	})

	s.mountDaily(s.r.With(s.withOptionalAuth()), dailyPool)
	s.mountAuthRoutes()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "no route for "+r.URL.Path)
	})

	return s, nil
}

func (s *Server) now() time.Time { return s.clock.Now() }

// Handler exposes the router (useful for tests).
func (s *Server) Handler() http.Handler { return s.r }

// Start serves HTTP on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
