package main

import (
	"context"
	"flag"
	"os"

	"marinaops/internal/config"
	"marinaops/internal/db"
	"marinaops/internal/logging"
	"marinaops/internal/migrate"
)

func main() {
	var (
		down  bool
		steps int
	)
	flag.BoolVar(&down, "down", false, "Roll migrations back instead of applying them")
	flag.IntVar(&steps, "steps", 0, "Number of migrations to roll back with -down (0 = all)")
	flag.Parse()

	cfg := config.FromEnv()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout).With().Str("cmd", "migrate").Logger()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, db.Options{MaxConns: 2})
	if err != nil {
		logger.Fatal().Err(err).Msg("connect db")
	}
	defer pool.Close()

	if down {
		if err := migrate.Rollback(ctx, pool, steps); err != nil {
			logger.Fatal().Err(err).Msg("roll back migrations")
		}
	} else if err := migrate.Apply(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("apply migrations")
	}

	version, dirty, err := migrate.Version(ctx, pool)
	if err != nil {
		logger.Fatal().Err(err).Msg("read schema version")
	}
	logger.Info().Uint("version", version).Bool("dirty", dirty).Msg("migrations done")
}
