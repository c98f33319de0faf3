package main

import (
	"context"
	"os"

	"marinaops/internal/config"
	"marinaops/internal/db"
	"marinaops/internal/logging"
	"marinaops/internal/seed"
)

func main() {
	cfg := config.FromEnv()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout).With().Str("cmd", "seed").Logger()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, db.Options{MaxConns: 2})
	if err != nil {
		logger.Fatal().Err(err).Msg("connect db")
	}
	defer pool.Close()

	admin := seed.Admin{
		Name:     os.Getenv("SEED_ADMIN_NAME"),
		Email:    os.Getenv("SEED_ADMIN_EMAIL"),
		Password: os.Getenv("SEED_ADMIN_PASSWORD"),
	}
	if err := seed.Apply(ctx, pool, admin); err != nil {
		logger.Fatal().Err(err).Msg("seed apply")
	}

	logger.Info().Bool("admin", admin.Email != "").Msg("seed applied")
}
