// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start today's daily game (creates or reuses session)
//   - POST /daily/guess       → submit a guess for today's daily game
//   - GET  /daily/leaderboard → fetch top 20 results for today (or ?date=)
//
// Each player (user or guest cookie) can finish the daily once per UTC date.
// Sessions are held in memory for active play; the result is written to the
// database on a win. The secret is derived from date + salt.

package httpserver

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/codebreaker/internal/daily"
	"github.com/robalobadob/codebreaker/internal/game"
	"github.com/robalobadob/codebreaker/internal/pool"
)

const (
	dailyInProgress = "in_progress"
	dailyWon        = "won"
	dailyLocked     = "locked"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	pool     pool.Pool
	mu       sync.Mutex               // guards sessions and every session's game
	sessions map[string]*dailySession // keyed by player|date
}

// dailySession is the in-memory state of one player's daily game.
type dailySession struct {
	gameID   string
	player   string
	date     string
	seed     int64
	game     *game.Session
	start    time.Time
	finished bool
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router, p pool.Pool) {
	d := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		pool:     p,
		sessions: make(map[string]*dailySession),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", d.handleNew)
		r.Post("/guess", d.handleGuess)
		r.Get("/leaderboard", d.handleLeaderboard)
	})
}

// player returns the user ID when signed in, otherwise the guest cookie.
func (d *dailyServer) player(w http.ResponseWriter, r *http.Request) string {
	if me := currentUser(r); me != nil {
		return me.ID
	}
	return d.srv.ensureAnonID(w, r)
}

// pruneLocked drops sessions from other dates. d.mu must be held.
func (d *dailyServer) pruneLocked(today string) {
	for k, sess := range d.sessions {
		if sess.date != today {
			delete(d.sessions, k)
		}
	}
}

// -----------------------------------------------------------------------------
// /daily/new

type dailyNewRes struct {
	GameID string `json:"gameId,omitempty"`
	Date   string `json:"date"`
	Played bool   `json:"played"`
	Pool   string `json:"pool"`
	Length int    `json:"length"`
}

// handleNew creates or reuses today's session.
//   - A stored result for today → played=true and no game ID.
//   - Otherwise the in-memory session is reused or created.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	player := d.player(w, r)
	now := d.srv.now()
	date := daily.DateKey(now)
	res := dailyNewRes{Date: date, Pool: d.pool.Name, Length: d.pool.Length}

	played, err := d.store.AlreadyPlayed(r.Context(), player, date)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("daily lookup")
		writeError(w, http.StatusInternalServerError, "internal", "unexpected error")
		return
	}
	if played {
		res.Played = true
		writeJSON(w, http.StatusOK, res)
		return
	}

	key := player + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pruneLocked(date)
	if sess, ok := d.sessions[key]; ok {
		res.GameID = sess.gameID
		res.Played = sess.finished
		writeJSON(w, http.StatusOK, res)
		return
	}

	g, seed, err := daily.NewGame(now, d.srv.cfg.DailySalt, d.pool)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Str("pool", d.pool.Name).Msg("daily game")
		writeError(w, http.StatusInternalServerError, "internal", "could not create daily game")
		return
	}
	sess := &dailySession{
		gameID: newGameID(),
		player: player,
		date:   date,
		seed:   seed,
		game:   g,
		start:  now,
	}
	d.sessions[key] = sess
	res.GameID = sess.gameID
	writeJSON(w, http.StatusOK, res)
}

// -----------------------------------------------------------------------------
// /daily/guess

type dailyGuessRes struct {
	Correct int    `json:"correct"`
	Close   int    `json:"close"`
	State   string `json:"state"` // in_progress | won | locked
	Guesses int    `json:"guesses"`
	Secret  string `json:"secret,omitempty"`
}

// handleGuess scores a guess against today's code.
//   - Unknown or stale game IDs → 409 no_session.
//   - Finished sessions answer with state=locked and change nothing.
//   - A win writes the result with the elapsed play time.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	player := d.player(w, r)

	var req guessReq
	if err := decodeJSON(w, r, &req); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty body")
		}
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}

	now := d.srv.now()
	date := daily.DateKey(now)
	key := player + "|" + date

	d.mu.Lock()
	sess, ok := d.sessions[key]
	if !ok || sess.gameID != req.GameID {
		d.mu.Unlock()
		writeError(w, http.StatusConflict, "no_session", "start today's game with POST /daily/new")
		return
	}
	if sess.finished {
		res := dailyGuessRes{State: dailyLocked, Guesses: sess.game.GuessCount()}
		d.mu.Unlock()
		writeJSON(w, http.StatusOK, res)
		return
	}
	g, err := sess.game.Guess(strings.TrimSpace(req.Guess))
	if err != nil {
		d.mu.Unlock()
		if !writeGuessError(w, err) {
			writeError(w, http.StatusInternalServerError, "internal", "unexpected error")
		}
		return
	}
	res := dailyGuessRes{
		Correct: g.Correct,
		Close:   g.Close,
		State:   dailyInProgress,
		Guesses: sess.game.GuessCount(),
	}
	won := g.Solved()
	if won {
		sess.finished = true
		res.State = dailyWon
		res.Secret, _ = sess.game.Reveal()
	}
	result := daily.Result{
		UserID:    sess.player,
		Date:      sess.date,
		Seed:      sess.seed,
		Guesses:   res.Guesses,
		ElapsedMs: now.Sub(sess.start).Milliseconds(),
	}
	d.mu.Unlock()

	if won {
		if _, err := d.store.InsertResult(r.Context(), result); err != nil {
			log.Ctx(r.Context()).Warn().Err(err).Str("date", date).Msg("daily result")
		}
	}
	writeJSON(w, http.StatusOK, res)
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the top results for ?date= (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.srv.now())
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "bad_date", "date must be YYYY-MM-DD")
		return
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("daily leaderboard")
		writeError(w, http.StatusInternalServerError, "internal", "unexpected error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
