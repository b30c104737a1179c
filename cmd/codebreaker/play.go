package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/robalobadob/codebreaker/internal/code"
	"github.com/robalobadob/codebreaker/internal/config"
	"github.com/robalobadob/codebreaker/internal/console"
	"github.com/robalobadob/codebreaker/internal/game"
	"github.com/robalobadob/codebreaker/internal/pool"
	"github.com/robalobadob/codebreaker/internal/randutil"
)

// PlayCmd runs one interactive game on stdin/stdout.
type PlayCmd struct {
	config.Pools `embed:""`

	Pool    string `help:"Pool preset (defaults to the first preset)."`
	Symbols string `help:"Custom symbol pool; overrides --pool."`
	Length  int    `help:"Code length; overrides the preset's length."`
	Seed    *int64 `help:"Deterministic seed for the secret (optional)."`

	in  io.Reader
	out io.Writer
}

func (c *PlayCmd) Run(logger zerolog.Logger) error {
	pools, err := pool.Init(c.PoolsFile)
	if err != nil {
		return fmt.Errorf("load pools: %w", err)
	}
	symbols, length, err := c.resolve(pools)
	if err != nil {
		return err
	}

	var rng code.RandSource = randutil.Crypto()
	if c.Seed != nil {
		logger.Debug().Int64("seed", *c.Seed).Msg("using deterministic seed")
		rng = randutil.New(*c.Seed)
	}

	s, err := game.New(symbols, length, rng)
	if err != nil {
		return err
	}

	in, out := c.in, c.out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	err = console.Run(in, out, s)
	if errors.Is(err, console.ErrQuit) {
		return nil
	}
	return err
}

// resolve picks the symbols and length from the flags and presets.
func (c *PlayCmd) resolve(pools *pool.Registry) (string, int, error) {
	p := pools.Default()
	if c.Pool != "" {
		var ok bool
		if p, ok = pools.Lookup(c.Pool); !ok {
			return "", 0, fmt.Errorf("unknown pool %q", c.Pool)
		}
	}
	symbols, length := p.Symbols, p.Length
	if c.Symbols != "" {
		symbols = c.Symbols
	}
	if c.Length != 0 {
		length = c.Length
	}
	if !code.ValidLength(length) {
		return "", 0, fmt.Errorf("length %d: %w", length, code.ErrInvalidLength)
	}
	return symbols, length, nil
}
