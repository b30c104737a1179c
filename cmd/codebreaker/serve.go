package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/robalobadob/codebreaker/internal/code"
	"github.com/robalobadob/codebreaker/internal/config"
	"github.com/robalobadob/codebreaker/internal/db"
	"github.com/robalobadob/codebreaker/internal/httpserver"
	"github.com/robalobadob/codebreaker/internal/pool"
	"github.com/robalobadob/codebreaker/internal/randutil"
	"github.com/robalobadob/codebreaker/internal/store"
)

// ServeCmd runs the HTTP API until interrupted.
type ServeCmd struct {
	config.Server `embed:""`
	config.Pools  `embed:""`

	Seed *int64 `help:"Deterministic seed for all secrets (testing only)."`
}

func (c *ServeCmd) Run(logger zerolog.Logger) error {
	pools, err := pool.Init(c.PoolsFile)
	if err != nil {
		return fmt.Errorf("load pools: %w", err)
	}

	ctx := signalContext(logger)

	conn, err := db.Open(ctx)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer conn.Close()

	opts := []httpserver.Option{httpserver.WithLogger(logger)}
	if c.Seed != nil {
		logger.Warn().Int64("seed", *c.Seed).Msg("using deterministic seed; secrets are predictable")
		src := randutil.Locked(randutil.New(*c.Seed))
		opts = append(opts, httpserver.WithRandSource(func() code.RandSource { return src }))
	}

	srv, err := httpserver.New(c.Server, store.NewMemoryStore(), conn, pools, opts...)
	if err != nil {
		return err
	}

	logger.Info().
		Str("address", c.Addr()).
		Str("env", c.Environment).
		Int("pools", pools.Stats()).
		Str("daily_pool", c.DailyPool).
		Msg("starting codebreaker server")

	if err := srv.Start(ctx, c.Addr()); err != nil {
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
