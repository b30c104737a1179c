package randutil

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand/v2"
	"sync"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// Daily codes and tests rely on the same seed always yielding the same
// sequence.
func New(seed int64) *mrand.Rand {
	u := uint64(seed)
	return mrand.New(mrand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// CryptoSource draws indices from crypto/rand.
type CryptoSource struct{}

// Crypto returns the source used for interactive games.
func Crypto() CryptoSource { return CryptoSource{} }

// IntN returns a uniform index in [0, n). A failing system entropy source
// is unrecoverable, so it panics.
func (CryptoSource) IntN(n int) int {
	if n <= 0 {
		panic("randutil: IntN called with non-positive n")
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("randutil: failed to read random bytes: " + err.Error())
	}
	return int(v.Int64())
}

// LockedSource serializes access to a seeded generator so concurrent
// handlers can share it.
type LockedSource struct {
	mu sync.Mutex
	r  *mrand.Rand
}

// Locked wraps r for concurrent use.
func Locked(r *mrand.Rand) *LockedSource { return &LockedSource{r: r} }

// IntN returns r.IntN(n) under the lock.
func (l *LockedSource) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}
