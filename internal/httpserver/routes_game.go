package httpserver

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/codebreaker/internal/code"
	"github.com/robalobadob/codebreaker/internal/game"
	"github.com/robalobadob/codebreaker/internal/store"
)

const customPool = "custom"

var errGameFinished = errors.New("game finished")

// newGameReq selects a preset by name, or a custom alphabet via Symbols.
// Length overrides the preset's default when positive.
type newGameReq struct {
	Pool    string `json:"pool"`
	Symbols string `json:"symbols"`
	Length  int    `json:"length"`
}

type newGameRes struct {
	GameID  string `json:"gameId"`
	Pool    string `json:"pool"`
	Symbols string `json:"symbols"`
	Length  int    `json:"length"`
}

// handleNewGame creates an in-memory game and a ledger row for its owner.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}

	name, symbols, length := s.pools.Default().Name, s.pools.Default().Symbols, s.pools.Default().Length
	switch {
	case req.Symbols != "":
		name, symbols = customPool, req.Symbols
	case req.Pool != "":
		p, ok := s.pools.Lookup(req.Pool)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown_pool", "no pool named "+req.Pool)
			return
		}
		name, symbols, length = p.Name, p.Symbols, p.Length
	}
	if req.Length != 0 {
		length = req.Length
	}
	if !code.ValidLength(length) {
		writeError(w, http.StatusBadRequest, "invalid_config", code.ErrInvalidLength.Error())
		return
	}

	sess, err := game.New(symbols, length, s.rng())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_config", err.Error())
		return
	}

	key, owner := s.owner(w, r)
	rec := &store.Record{
		ID:        newGameID(),
		Pool:      name,
		Session:   sess,
		OwnerID:   key,
		StartedAt: s.now(),
	}
	if err := s.store.Create(r.Context(), rec); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed", "could not create game")
		return
	}
	if err := s.games.Start(r.Context(), rec.ID, owner, name, length, rec.StartedAt); err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Str("gameId", rec.ID).Msg("ledger start")
	}

	writeJSON(w, http.StatusOK, newGameRes{GameID: rec.ID, Pool: name, Symbols: sess.Alphabet(), Length: length})
}

type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}

type guessRes struct {
	Guess      string `json:"guess"`
	Correct    int    `json:"correct"`
	Close      int    `json:"close"`
	GuessCount int    `json:"guessCount"`
	Solved     bool   `json:"solved"`
	Secret     string `json:"secret,omitempty"`
}

// handleGuess scores a guess. Validation failures are 400s that leave the
// game untouched; a solved game rejects further guesses with 409.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "body must be {gameId, guess}")
		return
	}

	var res guessRes
	err := s.updateOwned(r, req.GameID, func(rec *store.Record) error {
		if rec.Solved {
			return errGameFinished
		}
		g, err := rec.Session.Guess(strings.TrimSpace(req.Guess))
		if err != nil {
			return err
		}
		if g.Solved() {
			rec.Solved = true
			rec.Secret, _ = rec.Session.Reveal()
		}
		res = guessRes{
			Guess:      g.Text,
			Correct:    g.Correct,
			Close:      g.Close,
			GuessCount: rec.Session.GuessCount(),
			Solved:     rec.Solved,
			Secret:     rec.Secret,
		}
		return nil
	})
	if err != nil {
		s.writeGameError(w, r, err)
		return
	}

	if err := s.games.RecordGuess(r.Context(), req.GameID, res.Solved, s.now()); err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Str("gameId", req.GameID).Msg("ledger guess")
	}
	writeJSON(w, http.StatusOK, res)
}

type restartReq struct {
	GameID string `json:"gameId"`
}

// handleRestart clears the history of an unsolved game; the secret stays.
func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	var req restartReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "body must be {gameId}")
		return
	}
	err := s.updateOwned(r, req.GameID, func(rec *store.Record) error {
		if rec.Solved {
			return errGameFinished
		}
		rec.Session.Restart()
		return nil
	})
	if err != nil {
		s.writeGameError(w, r, err)
		return
	}
	if err := s.games.RecordRestart(r.Context(), req.GameID); err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Str("gameId", req.GameID).Msg("ledger restart")
	}
	writeJSON(w, http.StatusOK, map[string]any{"gameId": req.GameID, "guessCount": 0})
}

type gameState struct {
	GameID     string       `json:"gameId"`
	Pool       string       `json:"pool"`
	Symbols    string       `json:"symbols"`
	Length     int          `json:"length"`
	Guesses    []game.Guess `json:"guesses"`
	GuessCount int          `json:"guessCount"`
	Solved     bool         `json:"solved"`
	Secret     string       `json:"secret,omitempty"`
	StartedAt  string       `json:"startedAt"`
}

// handleGetGame returns a game's configuration and history.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var st gameState
	err := s.updateOwned(r, id, func(rec *store.Record) error {
		st = gameState{
			GameID:     rec.ID,
			Pool:       rec.Pool,
			Symbols:    rec.Session.Alphabet(),
			Length:     rec.Session.Length(),
			Guesses:    rec.Session.History(),
			GuessCount: rec.Session.GuessCount(),
			Solved:     rec.Solved,
			Secret:     rec.Secret,
			StartedAt:  rec.StartedAt.UTC().Format(time.RFC3339),
		}
		return nil
	})
	if err != nil {
		s.writeGameError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// updateOwned runs fn on the game if the caller owns it. Games owned by
// someone else look missing.
func (s *Server) updateOwned(r *http.Request, id string, fn func(*store.Record) error) error {
	if id == "" {
		return store.ErrNotFound
	}
	return s.store.Update(r.Context(), id, func(rec *store.Record) error {
		if !s.owns(r, rec.OwnerID) {
			return store.ErrNotFound
		}
		return fn(rec)
	})
}

func (s *Server) writeGameError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case writeGuessError(w, err):
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "no such game")
	case errors.Is(err, errGameFinished):
		writeError(w, http.StatusConflict, "game_finished", "the code is already broken")
	default:
		log.Ctx(r.Context()).Error().Err(err).Msg("game update")
		writeError(w, http.StatusInternalServerError, "internal", "unexpected error")
	}
}

// newGameID returns a time-ordered UUIDv7, falling back to v4.
func newGameID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
