package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/codebreaker/internal/account"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// mountAuthRoutes registers authentication + gated routes (/auth/*, /stats/me, /games/mine).
func (s *Server) mountAuthRoutes() {
	s.r.Post("/auth/signup", s.handleSignup)
	s.r.Post("/auth/login", s.handleLogin)
	s.r.Post("/auth/logout", s.handleLogout)

	s.r.With(s.requireAuth()).Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, currentUser(r))
	})
	s.r.With(s.requireAuth()).Get("/stats/me", s.handleStats)
	s.r.With(s.requireAuth()).Get("/games/mine", s.handleMine)
}

// handleSignup creates a user, sets the auth cookie and claims guest history.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "body must be {username, password}")
		return
	}
	u, err := s.users.Create(r.Context(), body.Username, body.Password)
	switch {
	case errors.Is(err, account.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "username_taken", err.Error())
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, "invalid_signup", err.Error())
		return
	}
	if !s.signIn(w, r, u) {
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": u.ID, "username": u.Username, "createdAt": u.CreatedAt})
}

// handleLogin checks the password, sets the auth cookie and claims guest history.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "body must be {username, password}")
		return
	}
	u, err := s.users.Authenticate(r.Context(), body.Username, body.Password)
	switch {
	case errors.Is(err, account.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
		return
	case err != nil:
		log.Ctx(r.Context()).Error().Err(err).Msg("login")
		writeError(w, http.StatusInternalServerError, "internal", "unexpected error")
		return
	}
	if !s.signIn(w, r, u) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": u.ID, "username": u.Username})
}

// signIn issues a token cookie for u and moves guest games to the account.
// It writes the error response itself and reports false on failure.
func (s *Server) signIn(w http.ResponseWriter, r *http.Request, u *account.User) bool {
	tok, exp, err := s.tokens.Sign(u.ID, u.Username)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("sign token")
		writeError(w, http.StatusInternalServerError, "sign_failed", "could not issue token")
		return false
	}
	c := s.cookie(s.cfg.CookieName, tok)
	c.Expires = exp
	c.MaxAge = int(exp.Sub(s.now()).Seconds())
	http.SetCookie(w, c)

	if anon, err := r.Cookie(anonCookieName); err == nil && anon.Value != "" {
		n, err := s.games.ClaimAnonymous(r.Context(), anon.Value, u.ID)
		if err != nil {
			log.Ctx(r.Context()).Warn().Err(err).Msg("claim guest games")
		} else if n > 0 {
			log.Ctx(r.Context()).Debug().Int64("games", n).Str("user", u.ID).Msg("claimed guest games")
		}
	}
	return true
}

// handleLogout clears the auth cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	c := s.cookie(s.cfg.CookieName, "")
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	http.SetCookie(w, c)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.FindByID(r.Context(), currentUser(r).ID)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "user not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":          u.ID,
		"gamesPlayed": u.GamesPlayed,
		"wins":        u.Wins,
		"streak":      u.Streak,
	})
}

// handleMine lists the caller's recent games; ?limit= caps the list.
func (s *Server) handleMine(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 200 {
			writeError(w, http.StatusBadRequest, "bad_limit", "limit must be 1-200")
			return
		}
		limit = n
	}
	rows, err := s.games.Mine(r.Context(), currentUser(r).ID, limit)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("list games")
		writeError(w, http.StatusInternalServerError, "db_error", "could not list games")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
