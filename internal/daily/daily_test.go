package daily

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/codebreaker/internal/db"
	"github.com/robalobadob/codebreaker/internal/pool"
)

var classic = pool.Pool{Name: "classic", Symbols: "ROYGBIV", Length: 4}

func TestDateKey(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	ts := time.Date(2026, 1, 2, 5, 0, 0, 0, loc)
	assert.Equal(t, "2026-01-01", DateKey(ts))
}

func TestSeedStablePerDay(t *testing.T) {
	morning := time.Date(2026, 7, 1, 0, 1, 0, 0, time.UTC)
	evening := time.Date(2026, 7, 1, 23, 59, 0, 0, time.UTC)
	tomorrow := morning.Add(24 * time.Hour)

	assert.Equal(t, Seed(morning, "salt"), Seed(evening, "salt"))
	assert.NotEqual(t, Seed(morning, "salt"), Seed(tomorrow, "salt"))
	assert.NotEqual(t, Seed(morning, "salt"), Seed(morning, "pepper"))
}

func TestNewGameSameSecretForEveryone(t *testing.T) {
	day := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	a, seedA, err := NewGame(day, "salt", classic)
	require.NoError(t, err)
	b, seedB, err := NewGame(day.Add(3*time.Hour), "salt", classic)
	require.NoError(t, err)

	assert.Equal(t, seedA, seedB)
	assert.Equal(t, a.Secret(), b.Secret())
	assert.Equal(t, 4, a.Length())

	_, _, err = NewGame(day, "salt", pool.Pool{Symbols: "AA", Length: 2})
	assert.Error(t, err)
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	conn, err := db.Open(ctx)
	require.NoError(t, err)
	defer conn.Close()

	st := NewStore(conn)
	date := "2026-07-01"

	played, err := st.AlreadyPlayed(ctx, "u1", date)
	require.NoError(t, err)
	assert.False(t, played)

	for _, r := range []Result{
		{UserID: "u1", Date: date, Guesses: 5, ElapsedMs: 1000},
		{UserID: "u2", Date: date, Guesses: 3, ElapsedMs: 9000},
		{UserID: "u3", Date: date, Guesses: 3, ElapsedMs: 2000},
		{UserID: "u4", Date: "2026-07-02", Guesses: 1, ElapsedMs: 10},
	} {
		ok, err := st.InsertResult(ctx, r)
		require.NoError(t, err)
		require.True(t, ok)
	}

	ok, err := st.InsertResult(ctx, Result{UserID: "u1", Date: date, Guesses: 1, ElapsedMs: 1})
	require.NoError(t, err)
	assert.False(t, ok)

	played, err = st.AlreadyPlayed(ctx, "u1", date)
	require.NoError(t, err)
	assert.True(t, played)

	top, err := st.Leaderboard(ctx, date, 0)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "u3", top[0].UserID)
	assert.Equal(t, "u2", top[1].UserID)
	assert.Equal(t, "u1", top[2].UserID)
	assert.Equal(t, 5, top[2].Guesses)
}
