package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/codebreaker/internal/game"
	"github.com/robalobadob/codebreaker/internal/randutil"
)

func newRecord(t *testing.T, id string) *Record {
	t.Helper()
	s, err := game.New("ROYGBIV", 4, randutil.New(5))
	require.NoError(t, err)
	return &Record{ID: id, Pool: "classic", Session: s}
}

// snapshot copies the record under the store's lock.
func snapshot(t *testing.T, st Store, id string) Record {
	t.Helper()
	var rec Record
	require.NoError(t, st.Update(context.Background(), id, func(r *Record) error {
		rec = *r
		return nil
	}))
	return rec
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	require.NoError(t, st.Create(ctx, newRecord(t, "g1")))
	assert.ErrorIs(t, st.Create(ctx, newRecord(t, "g1")), ErrExists)

	assert.Equal(t, "classic", snapshot(t, st, "g1").Pool)
	assert.ErrorIs(t, st.Update(ctx, "missing", func(*Record) error { return nil }), ErrNotFound)
	assert.Equal(t, 1, st.Len())
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	require.NoError(t, st.Create(ctx, newRecord(t, "g1")))

	err := st.Update(ctx, "g1", func(r *Record) error {
		_, err := r.Session.Guess("ROYG")
		r.Solved = true
		return err
	})
	require.NoError(t, err)

	rec := snapshot(t, st, "g1")
	assert.True(t, rec.Solved)
	assert.Equal(t, 1, rec.Session.GuessCount())

	boom := errors.New("boom")
	assert.ErrorIs(t, st.Update(ctx, "g1", func(*Record) error { return boom }), boom)
	assert.ErrorIs(t, st.Update(ctx, "nope", func(*Record) error { return nil }), ErrNotFound)
}

func TestUpdateCancelledContext(t *testing.T) {
	st := NewMemoryStore()
	require.NoError(t, st.Create(context.Background(), newRecord(t, "g1")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := st.Update(ctx, "g1", func(*Record) error { called = true; return nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestUpdateSerializesGuesses(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	require.NoError(t, st.Create(ctx, newRecord(t, "g1")))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = st.Update(ctx, "g1", func(r *Record) error {
				_, err := r.Session.Guess("BIVR")
				return err
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, snapshot(t, st, "g1").Session.GuessCount())
}
