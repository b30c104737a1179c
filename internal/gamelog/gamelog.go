// internal/gamelog/gamelog.go
//
// Ledger of HTTP games in the in-memory database.
// Each game row has an owner (user_id or anonymous_id), counters for
// guesses and restarts, and a status: playing, won or abandoned.
// The secret is never written here.
//
// User stats follow the ledger: a start counts a game played, a win grows
// the streak, and starting a game while an earlier one is unsolved marks
// that one abandoned and resets the streak.
package gamelog

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/robalobadob/codebreaker/internal/account"
)

const (
	StatusPlaying   = "playing"
	StatusWon       = "won"
	StatusAbandoned = "abandoned"
)

// Owner identifies who a game belongs to. Exactly one field is set.
type Owner struct {
	UserID      string
	AnonymousID string
}

// ErrUnknownGame is returned when no ledger row exists for a game ID.
var ErrUnknownGame = errors.New("gamelog: unknown game")

// Row is one game as listed for its owner.
type Row struct {
	ID         string `json:"id"`
	Pool       string `json:"pool"`
	Length     int    `json:"length"`
	Status     string `json:"status"`
	Guesses    int    `json:"guesses"`
	Restarts   int    `json:"restarts"`
	StartedAt  string `json:"startedAt"`
	FinishedAt string `json:"finishedAt,omitempty"`
}

// Log writes game rows.
type Log struct {
	db *sql.DB
}

// New returns a Log over db.
func New(db *sql.DB) *Log { return &Log{db: db} }

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Start records a new game. For a user it also counts a game played,
// abandoning any of their games still in play.
func (l *Log) Start(ctx context.Context, id string, owner Owner, pool string, length int, at time.Time) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if owner.UserID != "" {
		res, err := tx.ExecContext(ctx, `UPDATE games SET status=? WHERE user_id=? AND status=?`,
			StatusAbandoned, owner.UserID, StatusPlaying)
		if err != nil {
			return err
		}
		abandoned, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if err := account.CountStart(ctx, tx, owner.UserID, abandoned > 0); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO games (id, user_id, anonymous_id, pool, code_length, status, started_at)
	                                  VALUES (?,?,?,?,?,?,?)`,
		id, nullable(owner.UserID), nullable(owner.AnonymousID), pool, length, StatusPlaying, at.UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	return tx.Commit()
}

// RecordGuess bumps the guess counter and, on a win, closes the game and
// updates the owning user's stats in the same transaction.
func (l *Log) RecordGuess(ctx context.Context, id string, won bool, at time.Time) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var userID sql.NullString
	if err := tx.QueryRowContext(ctx, `SELECT user_id FROM games WHERE id=?`, id).Scan(&userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUnknownGame
		}
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE games SET guesses = guesses + 1 WHERE id=?`, id); err != nil {
		return err
	}
	if won {
		if _, err := tx.ExecContext(ctx, `UPDATE games SET status=?, finished_at=? WHERE id=?`,
			StatusWon, at.UTC().Format(time.RFC3339), id); err != nil {
			return err
		}
		if userID.Valid {
			if err := account.CountWin(ctx, tx, userID.String); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// RecordRestart bumps the restart counter and zeroes the guess counter.
func (l *Log) RecordRestart(ctx context.Context, id string) error {
	res, err := l.db.ExecContext(ctx, `UPDATE games SET restarts = restarts + 1, guesses = 0 WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUnknownGame
	}
	return nil
}

// Mine lists the user's most recent games, newest first.
func (l *Log) Mine(ctx context.Context, userID string, limit int) ([]Row, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := l.db.QueryContext(ctx, `SELECT id, pool, code_length, status, guesses, restarts, started_at, COALESCE(finished_at,'')
	                                     FROM games WHERE user_id=? ORDER BY started_at DESC, rowid DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Row{}
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.ID, &r.Pool, &r.Length, &r.Status, &r.Guesses, &r.Restarts, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ClaimAnonymous transfers a guest's games to a user account and adds them
// to the user's games played and wins.
func (l *Log) ClaimAnonymous(ctx context.Context, anonID, userID string) (int64, error) {
	if anonID == "" || userID == "" {
		return 0, nil
	}
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var played, won int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(1), COALESCE(SUM(status=?), 0) FROM games WHERE anonymous_id=?`,
		StatusWon, anonID).Scan(&played, &won); err != nil {
		return 0, err
	}
	if played == 0 {
		return 0, nil
	}
	if _, err := tx.ExecContext(ctx, `UPDATE games SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID); err != nil {
		return 0, err
	}
	if err := account.CountClaimed(ctx, tx, userID, played, won); err != nil {
		return 0, err
	}
	return int64(played), tx.Commit()
}
