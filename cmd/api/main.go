package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"marinaops/internal/app"
	"marinaops/internal/auth"
	"marinaops/internal/config"
	"marinaops/internal/db"
	"marinaops/internal/httpserver"
	"marinaops/internal/logging"
	"marinaops/internal/metrics"
	"marinaops/internal/notify"
)

func main() {
	cfg := config.FromEnv()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout).With().Str("cmd", "api").Logger()
	if err := cfg.CheckJWTSecret(); err != nil {
		logger.Fatal().Err(err).Msg("invalid token configuration")
	}

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString, db.Options{Logger: &logger})
	if err != nil {
		logger.Fatal().Err(err).Msg("connect to db")
	}
	defer dbpool.Close()

	var publisher notify.Publisher = notify.Nop{}
	if cfg.AMQPURL != "" {
		broker, err := notify.DialAMQP(cfg.AMQPURL, cfg.NotifyQueue, &logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("connect to broker")
		}
		defer broker.Close()
		publisher = broker
		logger.Info().Str("queue", cfg.NotifyQueue).Msg("publishing notifications to broker")
	}

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	services := app.Wire(app.Postgres(dbpool, &logger), tokens, publisher, &logger)

	srv, err := httpserver.New(cfg.HTTPAddr, &logger, dbpool, httpserver.Deps{
		Services: services,
		Metrics:  metrics.New(),
		Origins:  cfg.CORSOrigins,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("init server")
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-serverErr:
		logger.Error().Err(err).Msg("server error")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	} else {
		logger.Info().Msg("server stopped")
	}
}
