// internal/game/types.go
//
// Core type definitions for a codebreaker session.
// Defines:
//   - Guess: the scored result of one submitted candidate.
//   - Session: alphabet, length, secret and guess history of one game.

package game

import (
	"fmt"
	"unicode/utf8"

	"github.com/robalobadob/codebreaker/internal/code"
)

// Guess is the immutable result of scoring one candidate.
type Guess struct {
	Text    string `json:"text"`    // the submitted candidate
	Correct int    `json:"correct"` // symbols in the exact position
	Close   int    `json:"close"`   // symbols present elsewhere in the secret
}

// Solved reports whether every position matched.
func (g Guess) Solved() bool {
	return g.Text != "" && g.Correct == utf8.RuneCountInString(g.Text)
}

func (g Guess) String() string {
	return fmt.Sprintf("{text: %q, correct: %d, close: %d}", g.Text, g.Correct, g.Close)
}

// Session holds the state of a single game.
// It is not safe for concurrent use; callers serialize access.
type Session struct {
	alphabet code.Alphabet
	length   int
	secret   code.Secret
	history  []Guess // submission order
}
