// Package console runs a game on a line-oriented terminal.
//
// Each input line is a guess. Lines starting with ':' are commands:
//
//	:history  list the guesses made so far
//	:restart  clear the history (same secret)
//	:quit     give up and show the secret
//
// Invalid guesses print the validation message and re-prompt.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/codebreaker/internal/game"
)

// ErrInputClosed is returned when input ends before the code is broken.
var ErrInputClosed = errors.New("console: input closed before the code was broken")

// ErrQuit is returned when the player gives up.
var ErrQuit = errors.New("console: player quit")

// Run plays s until the code is broken, the player quits or in is exhausted.
func Run(in io.Reader, out io.Writer, s *game.Session) error {
	sc := bufio.NewScanner(in)
	fmt.Fprintf(out, "Pool: %s. Code length: %d\n", s.Alphabet(), s.Length())

	for sc.Scan() {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}

		switch text {
		case ":history":
			for i, g := range s.History() {
				fmt.Fprintf(out, "%d. %s  Correct: %d. Close: %d.\n", i+1, g.Text, g.Correct, g.Close)
			}
			continue
		case ":restart":
			s.Restart()
			fmt.Fprintln(out, "History cleared. Same code, fresh start.")
			continue
		case ":quit":
			fmt.Fprintf(out, "The secret code was %s.\n", s.Secret())
			return ErrQuit
		}

		g, err := s.Guess(text)
		if err != nil {
			if !errors.Is(err, game.ErrInvalidGuess) {
				return err
			}
			log.Debug().Err(err).Str("guess", text).Msg("rejected guess")
			fmt.Fprintf(out, "%s.\n", err)
			continue
		}
		if g.Solved() {
			fmt.Fprintf(out, "Congratulations! The secret code was %s. Guesses: %d.\n", s.Secret(), s.GuessCount())
			return nil
		}
		fmt.Fprintf(out, "Correct: %d. Close: %d.\n", g.Correct, g.Close)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return ErrInputClosed
}
