// internal/code/code.go
//
// Secret code generation and scoring.
// Responsibilities:
//   - Alphabet: the pool of distinct symbols a code is drawn from.
//   - Generate: draw a fixed-length secret uniformly (with replacement).
//   - Score: count exact ("correct") and misplaced ("close") matches.
//
// Notes:
//   - Symbols are runes, so pools are not limited to ASCII letters.
//   - Randomness is injected through RandSource; this package never seeds.
package code

import (
	"errors"
	"fmt"
)

// MaxLength caps the code length; secrets and guesses are held in memory.
const MaxLength = 64

var (
	ErrEmptyAlphabet   = errors.New("code: alphabet is empty")
	ErrDuplicateSymbol = errors.New("code: alphabet contains a duplicate symbol")
	ErrInvalidLength   = fmt.Errorf("code: length must be between 1 and %d", MaxLength)
)

// ValidLength reports whether n is an allowed code length.
func ValidLength(n int) bool { return n > 0 && n <= MaxLength }

// RandSource supplies uniformly distributed indices in [0, n).
// *math/rand/v2.Rand satisfies it.
type RandSource interface {
	IntN(n int) int
}

// Alphabet is an ordered set of distinct symbols.
type Alphabet struct {
	symbols []rune
	index   map[rune]struct{}
}

// NewAlphabet builds an Alphabet from the runes of s, in order.
func NewAlphabet(s string) (Alphabet, error) {
	symbols := []rune(s)
	if len(symbols) == 0 {
		return Alphabet{}, ErrEmptyAlphabet
	}
	index := make(map[rune]struct{}, len(symbols))
	for _, r := range symbols {
		if _, dup := index[r]; dup {
			return Alphabet{}, ErrDuplicateSymbol
		}
		index[r] = struct{}{}
	}
	return Alphabet{symbols: symbols, index: index}, nil
}

// Contains reports whether r belongs to the alphabet.
func (a Alphabet) Contains(r rune) bool {
	_, ok := a.index[r]
	return ok
}

// Len returns the number of symbols.
func (a Alphabet) Len() int { return len(a.symbols) }

func (a Alphabet) String() string { return string(a.symbols) }

// Secret is an immutable sequence of symbols.
type Secret struct {
	symbols []rune
}

// Generate draws length symbols from alphabet, each independently and
// uniformly, repeats allowed.
func Generate(alphabet Alphabet, length int, rng RandSource) (Secret, error) {
	if alphabet.Len() == 0 {
		return Secret{}, ErrEmptyAlphabet
	}
	if !ValidLength(length) {
		return Secret{}, ErrInvalidLength
	}
	symbols := make([]rune, length)
	for i := range symbols {
		symbols[i] = alphabet.symbols[rng.IntN(alphabet.Len())]
	}
	return Secret{symbols: symbols}, nil
}

// Len returns the code length.
func (s Secret) Len() int { return len(s.symbols) }

// Symbols returns a copy of the secret's symbols.
func (s Secret) Symbols() []rune {
	out := make([]rune, len(s.symbols))
	copy(out, s.symbols)
	return out
}

func (s Secret) String() string { return string(s.symbols) }

// Score compares candidate against the secret.
func (s Secret) Score(candidate []rune) (correct, close int) {
	return Score(s.symbols, candidate)
}
