// Package daily derives the shared daily code and stores daily results.
//
// Every player gets the same secret on a given UTC date: the date key is
// run through HMAC-SHA256 with a server salt and the first 8 bytes seed a
// deterministic generator.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/codebreaker/internal/game"
	"github.com/robalobadob/codebreaker/internal/pool"
	"github.com/robalobadob/codebreaker/internal/randutil"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns the deterministic seed for the date of t.
func Seed(t time.Time, salt string) int64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(t)))
	sum := h.Sum(nil)
	return int64(binary.BigEndian.Uint64(sum[:8]))
}

// NewGame builds the daily session for the date of t using preset p.
func NewGame(t time.Time, salt string, p pool.Pool) (*game.Session, int64, error) {
	seed := Seed(t, salt)
	s, err := game.New(p.Symbols, p.Length, randutil.New(seed))
	if err != nil {
		return nil, 0, err
	}
	return s, seed, nil
}
