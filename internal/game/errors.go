package game

import (
	"errors"
	"fmt"
)

// ErrInvalidGuess is matched by every guess validation failure.
var ErrInvalidGuess = errors.New("invalid guess")

// InvalidGuessLengthError reports a guess whose length differs from the code.
type InvalidGuessLengthError struct {
	Expected int
	Actual   int
}

func (e *InvalidGuessLengthError) Error() string {
	return fmt.Sprintf("invalid guess length: code length is %d; guess length is %d", e.Expected, e.Actual)
}

func (e *InvalidGuessLengthError) Unwrap() error { return ErrInvalidGuess }

// InvalidGuessCharactersError reports symbols outside the alphabet.
// Invalid holds every offending symbol in input order.
type InvalidGuessCharactersError struct {
	Alphabet string
	Invalid  []rune
}

func (e *InvalidGuessCharactersError) Error() string {
	return fmt.Sprintf("guess includes invalid characters: pool is %q; guess included %q", e.Alphabet, string(e.Invalid))
}

func (e *InvalidGuessCharactersError) Unwrap() error { return ErrInvalidGuess }
