package randutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsDeterministic(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 20; i++ {
		require.Equal(t, a.IntN(1000), b.IntN(1000))
	}
}

func TestNewDifferentSeeds(t *testing.T) {
	a, b := New(1), New(2)
	same := 0
	for i := 0; i < 20; i++ {
		if a.IntN(1<<30) == b.IntN(1<<30) {
			same++
		}
	}
	assert.Less(t, same, 20)
}

func TestCryptoRange(t *testing.T) {
	src := Crypto()
	seen := make(map[int]bool)
	for i := 0; i < 500; i++ {
		v := src.IntN(7)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 7)
		seen[v] = true
	}
	assert.Len(t, seen, 7)
}

func TestCryptoPanicsOnBadBound(t *testing.T) {
	assert.Panics(t, func() { Crypto().IntN(0) })
}

func TestLockedMatchesSeed(t *testing.T) {
	ref := New(7)
	l := Locked(New(7))
	for i := 0; i < 10; i++ {
		assert.Equal(t, ref.IntN(100), l.IntN(100))
	}
}
