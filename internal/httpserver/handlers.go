package httpserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"marinaops/internal/assemble"
	"marinaops/internal/domain"
	"marinaops/internal/service/authn"
	"marinaops/internal/service/inventory"
	"marinaops/internal/service/notification"
	"marinaops/internal/service/reference"
	"marinaops/internal/service/workorder"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token     string                `json:"token"`
	TokenType string                `json:"tokenType"`
	ExpiresAt time.Time             `json:"expiresAt"`
	User      assemble.UserResponse `json:"user"`
}

func loginHandler(svc *authn.Service, src assemble.Source, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, logger, domain.Invalidf("email and password are required"))
			return
		}
		session, err := svc.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			fail(c, logger, err)
			return
		}
		u, err := assemble.New(src).User(c.Request.Context(), session.User)
		if err != nil {
			fail(c, logger, err)
			return
		}
		respond(c, http.StatusOK, "login successful", loginResponse{
			Token:     session.Token,
			TokenType: "Bearer",
			ExpiresAt: session.ExpiresAt,
			User:      u,
		})
	}
}

func statesHandler(svc *reference.Service, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		states, err := svc.States(c.Request.Context())
		if err != nil {
			fail(c, logger, err)
			return
		}
		out := make([]assemble.StateResponse, 0, len(states))
		for _, s := range states {
			out = append(out, assemble.State(s))
		}
		respond(c, http.StatusOK, "states fetched", out)
	}
}

func countriesHandler(svc *reference.Service, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		countries, err := svc.Countries(c.Request.Context())
		if err != nil {
			fail(c, logger, err)
			return
		}
		out := make([]assemble.CountryResponse, 0, len(countries))
		for _, co := range countries {
			out = append(out, assemble.Country(co))
		}
		respond(c, http.StatusOK, "countries fetched", out)
	}
}

func lookupHandler(svc *reference.Service, kind domain.LookupKind, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := svc.Lookups(c.Request.Context(), kind)
		if err != nil {
			fail(c, logger, err)
			return
		}
		out := make([]assemble.LookupResponse, 0, len(rows))
		for _, l := range rows {
			out = append(out, assemble.Lookup(l))
		}
		respond(c, http.StatusOK, string(kind)+" fetched", out)
	}
}

func vendorInventoryHandler(svc *inventory.Service, src assemble.Source, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := idParam(c)
		if err != nil {
			fail(c, logger, err)
			return
		}
		items, err := svc.ListByVendor(c.Request.Context(), scopeOf(c), id)
		if err != nil {
			fail(c, logger, err)
			return
		}
		out, err := assemble.New(src).Inventory(c.Request.Context(), items)
		if err != nil {
			fail(c, logger, err)
			return
		}
		respondPage(c, "inventory fetched", out, int64(len(out)), len(out))
	}
}

func convertHandler(svc *workorder.Service, src assemble.Source, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := idParam(c)
		if err != nil {
			fail(c, logger, err)
			return
		}
		wo, err := svc.Convert(c.Request.Context(), scopeOf(c), id)
		if err != nil {
			fail(c, logger, err)
			return
		}
		out, err := assemble.New(src).Job(c.Request.Context(), *wo)
		if err != nil {
			fail(c, logger, err)
			return
		}
		respond(c, http.StatusCreated, "estimate converted to work order", out)
	}
}

func notificationsHandler(svc *notification.Service, src assemble.Source, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := pageRequest(c)
		if err != nil {
			fail(c, logger, err)
			return
		}
		res, err := svc.List(c.Request.Context(), scopeOf(c), req)
		if err != nil {
			fail(c, logger, err)
			return
		}
		out, err := assemble.New(src).Notifications(c.Request.Context(), res.Items)
		if err != nil {
			fail(c, logger, err)
			return
		}
		respondPage(c, "notifications fetched", out, res.Total, len(out))
	}
}

func unreadCountHandler(svc *notification.Service, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := svc.UnreadCount(c.Request.Context(), scopeOf(c))
		if err != nil {
			fail(c, logger, err)
			return
		}
		respond(c, http.StatusOK, "unread notifications counted", gin.H{"unread": n})
	}
}

func markReadHandler(svc *notification.Service, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := idParam(c)
		if err != nil {
			fail(c, logger, err)
			return
		}
		if _, err := svc.MarkRead(c.Request.Context(), scopeOf(c), id); err != nil {
			fail(c, logger, err)
			return
		}
		respond(c, http.StatusOK, "notification marked read", nil)
	}
}
