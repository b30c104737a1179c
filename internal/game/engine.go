// internal/game/engine.go
//
// Game engine for a single codebreaker session.
// Responsibilities:
//   - Create sessions from an alphabet, a code length and a random source.
//   - Validate guesses (length first, then alphabet membership).
//   - Score valid guesses against the secret and record them in order.
//   - Restart: clear the history while keeping the same secret.
//
// Notes:
//   - Win detection belongs to the caller (see Guess.Solved).
//   - Reveal gates the secret behind a solving guess for front-ends that
//     must not leak it early.
package game

import (
	"fmt"

	"github.com/robalobadob/codebreaker/internal/code"
)

// New constructs a session with a freshly generated secret.
func New(alphabet string, length int, rng code.RandSource) (*Session, error) {
	a, err := code.NewAlphabet(alphabet)
	if err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}
	secret, err := code.Generate(a, length, rng)
	if err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}
	return &Session{
		alphabet: a,
		length:   length,
		secret:   secret,
		history:  []Guess{},
	}, nil
}

// Guess validates and scores text, appending the result to the history.
//
// Validation order (first failure wins):
//   - rune count must equal the code length (*InvalidGuessLengthError);
//   - every rune must be in the alphabet (*InvalidGuessCharactersError).
//
// A rejected guess leaves the session untouched.
func (s *Session) Guess(text string) (Guess, error) {
	candidate := []rune(text)
	if len(candidate) != s.length {
		return Guess{}, &InvalidGuessLengthError{Expected: s.length, Actual: len(candidate)}
	}

	var invalid []rune
	for _, r := range candidate {
		if !s.alphabet.Contains(r) {
			invalid = append(invalid, r)
		}
	}
	if len(invalid) > 0 {
		return Guess{}, &InvalidGuessCharactersError{Alphabet: s.alphabet.String(), Invalid: invalid}
	}

	correct, close := s.secret.Score(candidate)
	g := Guess{Text: text, Correct: correct, Close: close}
	s.history = append(s.history, g)
	return g, nil
}

// Restart clears the guess history. The secret and configuration are kept.
func (s *Session) Restart() {
	s.history = []Guess{}
}

// Secret returns the secret code. Interactive front-ends call it only after
// detecting a win.
func (s *Session) Secret() string { return s.secret.String() }

// Reveal returns the secret only if a solving guess is in the history.
func (s *Session) Reveal() (string, bool) {
	for _, g := range s.history {
		if g.Solved() {
			return s.secret.String(), true
		}
	}
	return "", false
}

// History returns a copy of the guesses in submission order.
func (s *Session) History() []Guess {
	out := make([]Guess, len(s.history))
	copy(out, s.history)
	return out
}

// Alphabet returns the pool of allowed symbols.
func (s *Session) Alphabet() string { return s.alphabet.String() }

// Length returns the code length.
func (s *Session) Length() int { return s.length }

// GuessCount returns the number of recorded guesses.
func (s *Session) GuessCount() int { return len(s.history) }
