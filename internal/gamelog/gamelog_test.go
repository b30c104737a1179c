package gamelog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/codebreaker/internal/account"
	"github.com/robalobadob/codebreaker/internal/db"
)

func TestLedger(t *testing.T) {
	ctx := context.Background()
	conn, err := db.Open(ctx)
	require.NoError(t, err)
	defer conn.Close()

	now := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	users := account.NewService(conn, func() time.Time { return now })
	u, err := users.Create(ctx, "dave", "password1")
	require.NoError(t, err)

	l := New(conn)
	anon := Owner{AnonymousID: "anon-1"}
	require.NoError(t, l.Start(ctx, "g1", anon, "classic", 4, now))
	require.NoError(t, l.RecordGuess(ctx, "g1", false, now))
	require.NoError(t, l.RecordGuess(ctx, "g1", false, now))
	require.NoError(t, l.RecordRestart(ctx, "g1"))
	require.NoError(t, l.RecordGuess(ctx, "g1", false, now))

	n, err := l.ClaimAnonymous(ctx, "anon-1", u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	owner := Owner{UserID: u.ID}
	require.NoError(t, l.Start(ctx, "g2", owner, "digits", 4, now.Add(time.Minute)))
	require.NoError(t, l.RecordGuess(ctx, "g2", true, now.Add(2*time.Minute)))

	rows, err := l.Mine(ctx, u.ID, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "g2", rows[0].ID)
	assert.Equal(t, StatusWon, rows[0].Status)
	assert.Equal(t, 1, rows[0].Guesses)
	assert.NotEmpty(t, rows[0].FinishedAt)

	assert.Equal(t, "g1", rows[1].ID)
	assert.Equal(t, StatusAbandoned, rows[1].Status)
	assert.Equal(t, 1, rows[1].Guesses)
	assert.Equal(t, 1, rows[1].Restarts)

	got, err := users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.GamesPlayed)
	assert.Equal(t, 1, got.Wins)
	assert.Equal(t, 1, got.Streak)
}

func TestStatsCountStartedGames(t *testing.T) {
	ctx := context.Background()
	conn, err := db.Open(ctx)
	require.NoError(t, err)
	defer conn.Close()

	now := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	users := account.NewService(conn, func() time.Time { return now })
	u, err := users.Create(ctx, "frank", "password1")
	require.NoError(t, err)

	l := New(conn)
	owner := Owner{UserID: u.ID}
	stats := func() (int, int, int) {
		t.Helper()
		got, err := users.FindByID(ctx, u.ID)
		require.NoError(t, err)
		return got.GamesPlayed, got.Wins, got.Streak
	}

	require.NoError(t, l.Start(ctx, "g1", owner, "classic", 4, now))
	require.NoError(t, l.RecordGuess(ctx, "g1", true, now))
	require.NoError(t, l.Start(ctx, "g2", owner, "classic", 4, now.Add(time.Minute)))
	require.NoError(t, l.RecordGuess(ctx, "g2", true, now.Add(time.Minute)))
	played, wins, streak := stats()
	assert.Equal(t, []int{2, 2, 2}, []int{played, wins, streak})

	// Starting g4 while g3 is unsolved abandons g3 and ends the streak.
	require.NoError(t, l.Start(ctx, "g3", owner, "classic", 4, now.Add(2*time.Minute)))
	require.NoError(t, l.RecordGuess(ctx, "g3", false, now.Add(2*time.Minute)))
	require.NoError(t, l.Start(ctx, "g4", owner, "classic", 4, now.Add(3*time.Minute)))
	played, wins, streak = stats()
	assert.Equal(t, []int{4, 2, 0}, []int{played, wins, streak})

	require.NoError(t, l.RecordGuess(ctx, "g4", true, now.Add(4*time.Minute)))
	played, wins, streak = stats()
	assert.Equal(t, []int{4, 3, 1}, []int{played, wins, streak})

	rows, err := l.Mine(ctx, u.ID, 0)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, StatusAbandoned, rows[1].Status)
}

func TestClaimCountsGuestGames(t *testing.T) {
	ctx := context.Background()
	conn, err := db.Open(ctx)
	require.NoError(t, err)
	defer conn.Close()

	now := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	users := account.NewService(conn, func() time.Time { return now })
	u, err := users.Create(ctx, "gina", "password1")
	require.NoError(t, err)

	l := New(conn)
	guest := Owner{AnonymousID: "anon-9"}
	require.NoError(t, l.Start(ctx, "g1", guest, "classic", 4, now))
	require.NoError(t, l.RecordGuess(ctx, "g1", true, now))
	require.NoError(t, l.Start(ctx, "g2", guest, "classic", 4, now))

	n, err := l.ClaimAnonymous(ctx, "anon-9", u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = l.ClaimAnonymous(ctx, "anon-9", u.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err := users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.GamesPlayed)
	assert.Equal(t, 1, got.Wins)
}

func TestUnknownGame(t *testing.T) {
	ctx := context.Background()
	conn, err := db.Open(ctx)
	require.NoError(t, err)
	defer conn.Close()

	l := New(conn)
	assert.ErrorIs(t, l.RecordGuess(ctx, "missing", false, time.Now()), ErrUnknownGame)
	assert.ErrorIs(t, l.RecordRestart(ctx, "missing"), ErrUnknownGame)
}

func TestAnonymousWinDoesNotTouchUsers(t *testing.T) {
	ctx := context.Background()
	conn, err := db.Open(ctx)
	require.NoError(t, err)
	defer conn.Close()

	l := New(conn)
	now := time.Now()
	require.NoError(t, l.Start(ctx, "g1", Owner{AnonymousID: "a"}, "classic", 4, now))
	require.NoError(t, l.RecordGuess(ctx, "g1", true, now))

	var status string
	require.NoError(t, conn.QueryRowContext(ctx, `SELECT status FROM games WHERE id='g1'`).Scan(&status))
	assert.Equal(t, StatusWon, status)
}
