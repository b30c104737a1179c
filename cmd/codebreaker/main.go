// Command codebreaker plays the code-breaking game in a terminal or serves it
// over HTTP.
package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/codebreaker/internal/config"
	"github.com/robalobadob/codebreaker/internal/logging"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version        kong.VersionFlag `short:"v" help:"Show version"`
	config.Logging `embed:""`

	Play  PlayCmd  `cmd:"" default:"withargs" help:"Play a game in the terminal"`
	Serve ServeCmd `cmd:"" help:"Run the HTTP API"`
}

func main() {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("codebreaker"),
		kong.Description("Guess the secret code: correct means right symbol, right place; close means right symbol, wrong place."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)

	logger, err := logging.Setup(os.Stderr, cli.LogLevel, cli.LogFormat)
	ctx.FatalIfErrorf(err)

	if err := ctx.Run(logger); err != nil {
		log.Error().Err(err).Str("command", ctx.Command()).Msg("command failed")
		os.Exit(1)
	}
}
