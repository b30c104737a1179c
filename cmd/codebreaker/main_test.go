package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/codebreaker/internal/code"
	"github.com/robalobadob/codebreaker/internal/console"
	"github.com/robalobadob/codebreaker/internal/game"
	"github.com/robalobadob/codebreaker/internal/randutil"
)

func seededSecret(t *testing.T, symbols string, length int, seed int64) string {
	t.Helper()
	s, err := game.New(symbols, length, randutil.New(seed))
	require.NoError(t, err)
	return s.Secret()
}

func TestPlayWins(t *testing.T) {
	seed := int64(11)
	secret := seededSecret(t, "0123456789", 4, seed)

	var out bytes.Buffer
	cmd := &PlayCmd{
		Pool: "digits",
		Seed: &seed,
		in:   strings.NewReader("12\n" + secret + "\n"),
		out:  &out,
	}
	require.NoError(t, cmd.Run(zerolog.Nop()))
	assert.Contains(t, out.String(), "Pool: 0123456789. Code length: 4\n")
	assert.Contains(t, out.String(), "invalid guess length")
	assert.Contains(t, out.String(), "Congratulations! The secret code was "+secret+". Guesses: 1.")
}

func TestPlayCustomSymbolsAndQuit(t *testing.T) {
	seed := int64(3)
	var out bytes.Buffer
	cmd := &PlayCmd{
		Symbols: "XYZ",
		Length:  2,
		Seed:    &seed,
		in:      strings.NewReader(":quit\n"),
		out:     &out,
	}
	require.NoError(t, cmd.Run(zerolog.Nop()))
	assert.Contains(t, out.String(), "Pool: XYZ. Code length: 2\n")
	assert.Contains(t, out.String(), "The secret code was "+seededSecret(t, "XYZ", 2, seed)+".")
}

func TestPlayInputClosed(t *testing.T) {
	var out bytes.Buffer
	cmd := &PlayCmd{in: strings.NewReader(""), out: &out}
	assert.ErrorIs(t, cmd.Run(zerolog.Nop()), console.ErrInputClosed)
}

func TestPlayUnknownPool(t *testing.T) {
	cmd := &PlayCmd{Pool: "nope", in: strings.NewReader(""), out: &bytes.Buffer{}}
	assert.ErrorContains(t, cmd.Run(zerolog.Nop()), `unknown pool "nope"`)
}

func TestPlayRejectsOversizedLength(t *testing.T) {
	cmd := &PlayCmd{Symbols: "AB", Length: code.MaxLength + 1, in: strings.NewReader(""), out: &bytes.Buffer{}}
	assert.ErrorIs(t, cmd.Run(zerolog.Nop()), code.ErrInvalidLength)
}

func TestCLIParse(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test"}, kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)

	ctx, err := parser.Parse([]string{"serve", "--port", "8080", "--daily-pool", "digits", "--seed", "5"})
	require.NoError(t, err)
	assert.Equal(t, "serve", ctx.Command())
	assert.Equal(t, ":8080", cli.Serve.Addr())
	assert.Equal(t, "digits", cli.Serve.DailyPool)
	require.NotNil(t, cli.Serve.Seed)
	assert.Equal(t, int64(5), *cli.Serve.Seed)

	_, err = parser.Parse([]string{"serve", "--env", "production"})
	assert.Error(t, err, "production needs a real JWT secret")

	ctx, err = parser.Parse([]string{"play", "--pool", "hard", "--length", "5"})
	require.NoError(t, err)
	assert.Equal(t, "play", ctx.Command())
	assert.Equal(t, "hard", cli.Play.Pool)
	assert.Equal(t, 5, cli.Play.Length)
}
