package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

// Options tune the pool. Zero values keep the pgx defaults.
type Options struct {
	MaxConns int32
	// Logger receives query traces at debug level when set.
	Logger *zerolog.Logger
}

// Connect opens a pgx connection pool and verifies connectivity with a ping.
func Connect(ctx context.Context, dsn string, opts Options) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	if opts.Logger != nil && opts.Logger.GetLevel() <= zerolog.DebugLevel {
		cfg.ConnConfig.Tracer = &tracelog.TraceLog{
			Logger:   queryLogger{log: opts.Logger.With().Str("component", "pgx").Logger()},
			LogLevel: tracelog.LogLevelDebug,
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// queryLogger adapts zerolog to pgx's tracelog.
type queryLogger struct {
	log zerolog.Logger
}

func (l queryLogger) Log(_ context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
	var ev *zerolog.Event
	switch level {
	case tracelog.LogLevelError:
		ev = l.log.Error()
	case tracelog.LogLevelWarn:
		ev = l.log.Warn()
	case tracelog.LogLevelInfo:
		ev = l.log.Info()
	default:
		ev = l.log.Debug()
	}
	ev.Fields(data).Msg(msg)
}
