package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"marinaops/internal/logging"
)

// pinger is what /readyz pings; *pgxpool.Pool satisfies it.
type pinger interface {
	Ping(ctx context.Context) error
}

// Server owns the marinaops HTTP listener.
type Server struct {
	httpServer *http.Server
	logger     zerolog.Logger
}

// New builds a Server with every API route. db may be nil, in which case
// /readyz always reports unavailable.
func New(addr string, logger *zerolog.Logger, db pinger, deps Deps) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)
	l := logging.OrNop(logger).With().Str("component", "http").Logger()
	router, err := buildRouter(l, db, deps)
	if err != nil {
		return nil, err
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       2 * time.Minute,
		},
		logger: l,
	}, nil
}

func (s *Server) ListenAndServe() error {
	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("listening")
	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("draining connections")
	return s.httpServer.Shutdown(ctx)
}

func healthHandler(c *gin.Context) {
	respond(c, http.StatusOK, "ok", gin.H{"status": "ok"})
}

func readyHandler(db pinger, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			respond(c, http.StatusServiceUnavailable, "database not configured", gin.H{"status": "unavailable"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			logger.Warn().Err(err).Msg("readiness ping failed")
			respond(c, http.StatusServiceUnavailable, "database not reachable", gin.H{"status": "unavailable"})
			return
		}
		respond(c, http.StatusOK, "ready", gin.H{"status": "ready"})
	}
}
