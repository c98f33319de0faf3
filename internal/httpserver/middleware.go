package httpserver

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"marinaops/internal/auth"
	"marinaops/internal/domain"
)

const (
	requestIDHeader = "X-Request-ID"
	ownerHeader     = "CUSTOMER_OWNER_ID"

	requestIDKey = "requestID"
	callerKey    = "caller"
	scopeKey     = "scope"
)

// requestIDMiddleware keeps an incoming X-Request-ID or mints one.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

func accessLog(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		ev := logger.Info()
		if status >= 500 {
			ev = logger.Warn()
		}
		ev.Str("request_id", requestID(c)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("http request")
	}
}

var errMissingToken = domain.Unauthorizedf("missing bearer token")

// authenticate parses the bearer token and reloads the user it names into
// the request's Caller.
func authenticate(tokens *auth.Tokens, resolver *auth.Resolver, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			fail(c, logger, errMissingToken)
			return
		}
		claimed, err := tokens.Parse(strings.TrimSpace(raw))
		if err != nil {
			fail(c, logger, err)
			return
		}
		caller, err := resolver.Reload(c.Request.Context(), claimed)
		if err != nil {
			fail(c, logger, err)
			return
		}
		c.Set(callerKey, caller)
		c.Next()
	}
}

// scoped resolves the customer owner scope of the request. The header
// wins; when it is absent or not positive the caller's own owner is used.
func scoped(resolver *auth.Resolver, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := callerOf(c)
		ownerID := caller.DefaultOwnerID()
		if v := strings.TrimSpace(c.GetHeader(ownerHeader)); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				fail(c, logger, domain.Invalidf("%s must be an integer", ownerHeader))
				return
			}
			if n > 0 {
				ownerID = n
			}
		}
		scope, err := resolver.Resolve(c.Request.Context(), caller, ownerID)
		if err != nil {
			fail(c, logger, err)
			return
		}
		c.Set(scopeKey, scope)
		c.Next()
	}
}

func callerOf(c *gin.Context) auth.Caller {
	v, _ := c.Get(callerKey)
	caller, _ := v.(auth.Caller)
	return caller
}

func scopeOf(c *gin.Context) auth.Scope {
	v, _ := c.Get(scopeKey)
	scope, _ := v.(auth.Scope)
	return scope
}
