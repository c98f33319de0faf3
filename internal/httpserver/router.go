package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"marinaops/internal/app"
	"marinaops/internal/assemble"
	"marinaops/internal/domain"
	"marinaops/internal/metrics"
	"marinaops/internal/service/boatyard"
	"marinaops/internal/service/customer"
	"marinaops/internal/service/inventory"
	"marinaops/internal/service/invoice"
	"marinaops/internal/service/mooring"
	"marinaops/internal/service/servicearea"
	"marinaops/internal/service/user"
	"marinaops/internal/service/vendor"
	"marinaops/internal/service/workorder"
)

// Deps are the services the router dispatches to.
type Deps struct {
	*app.Services
	Metrics *metrics.Metrics
	Origins []string
}

func (d Deps) validate() error {
	if d.Services == nil {
		return errors.New("httpserver: services are required")
	}
	switch {
	case d.Tokens == nil || d.Resolver == nil:
		return errors.New("httpserver: tokens and resolver are required")
	case d.Login == nil || d.References == nil || d.Users == nil || d.Notifications == nil:
		return errors.New("httpserver: account services are required")
	case d.Customers == nil || d.Boatyards == nil || d.ServiceAreas == nil || d.Moorings == nil:
		return errors.New("httpserver: marina services are required")
	case d.Vendors == nil || d.Inventory == nil:
		return errors.New("httpserver: vendor services are required")
	case d.WorkOrders == nil || d.Estimates == nil || d.Invoices == nil || d.Payments == nil:
		return errors.New("httpserver: billing services are required")
	}
	return nil
}

// buildRouter wires routes for the API.
func buildRouter(logger zerolog.Logger, db pinger, deps Deps) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	router := gin.New()
	router.Use(requestIDMiddleware(), accessLog(logger), gin.Recovery(), corsMiddleware(deps.Origins))
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware())
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db, logger))

	v1 := router.Group("/api/v1")
	v1.POST("/auth/login", loginHandler(deps.Login, deps.Source, logger))

	authed := v1.Group("", authenticate(deps.Tokens, deps.Resolver, logger))
	meta := authed.Group("/metadata")
	meta.GET("/states", statesHandler(deps.References, logger))
	meta.GET("/countries", countriesHandler(deps.References, logger))
	for path, kind := range lookupRoutes {
		meta.GET("/"+path, lookupHandler(deps.References, kind, logger))
	}

	api := authed.Group("", scoped(deps.Resolver, logger))
	src := deps.Source

	mount(api, "/users", src, logger, resource[domain.User, user.Patch, assemble.UserResponse]{
		name: "user", list: deps.Users.List, get: deps.Users.Get, create: deps.Users.Create,
		update: deps.Users.Update, remove: deps.Users.Delete,
		one: (*assemble.Assembler).User, many: (*assemble.Assembler).Users,
	})
	mount(api, "/customers", src, logger, resource[domain.Customer, customer.Patch, assemble.CustomerResponse]{
		name: "customer", list: deps.Customers.List, get: deps.Customers.Get, create: deps.Customers.Create,
		update: deps.Customers.Update, remove: deps.Customers.Delete,
		one: (*assemble.Assembler).Customer, many: (*assemble.Assembler).Customers,
	})
	mount(api, "/boatyards", src, logger, resource[domain.Boatyard, boatyard.Patch, assemble.BoatyardResponse]{
		name: "boatyard", list: deps.Boatyards.List, get: deps.Boatyards.Get, create: deps.Boatyards.Create,
		update: deps.Boatyards.Update, remove: deps.Boatyards.Delete,
		one: (*assemble.Assembler).Boatyard, many: (*assemble.Assembler).Boatyards,
	})
	mount(api, "/service-areas", src, logger, resource[domain.ServiceArea, servicearea.Patch, assemble.ServiceAreaResponse]{
		name: "service area", list: deps.ServiceAreas.List, get: deps.ServiceAreas.Get, create: deps.ServiceAreas.Create,
		update: deps.ServiceAreas.Update, remove: deps.ServiceAreas.Delete,
		one: (*assemble.Assembler).ServiceArea, many: (*assemble.Assembler).ServiceAreas,
	})
	mount(api, "/moorings", src, logger, resource[domain.Mooring, mooring.Patch, assemble.MooringResponse]{
		name: "mooring", list: deps.Moorings.List, get: deps.Moorings.Get, create: deps.Moorings.Create,
		update: deps.Moorings.Update, remove: deps.Moorings.Delete,
		one: (*assemble.Assembler).Mooring, many: (*assemble.Assembler).Moorings,
	})
	mount(api, "/vendors", src, logger, resource[domain.Vendor, vendor.Patch, assemble.VendorResponse]{
		name: "vendor", list: deps.Vendors.List, get: deps.Vendors.Get, create: deps.Vendors.Create,
		update: deps.Vendors.Update, remove: deps.Vendors.Delete,
		one: (*assemble.Assembler).Vendor, many: (*assemble.Assembler).Vendors,
	})
	api.GET("/vendors/:id/inventory", vendorInventoryHandler(deps.Inventory, src, logger))
	mount(api, "/inventory", src, logger, resource[domain.Inventory, inventory.Patch, assemble.InventoryResponse]{
		name: "inventory item", list: deps.Inventory.List, get: deps.Inventory.Get, create: deps.Inventory.Create,
		update: deps.Inventory.Update, remove: deps.Inventory.Delete,
		one: (*assemble.Assembler).InventoryItem, many: (*assemble.Assembler).Inventory,
	})
	mount(api, "/work-orders", src, logger, jobResource("work order", deps.WorkOrders))
	mount(api, "/estimates", src, logger, jobResource("estimate", deps.Estimates))
	api.POST("/estimates/:id/convert", convertHandler(deps.Estimates, src, logger))
	mount(api, "/invoices", src, logger, resource[domain.Invoice, invoice.Patch, assemble.InvoiceResponse]{
		name: "invoice", list: deps.Invoices.List, get: deps.Invoices.Get, create: deps.Invoices.Create,
		update: deps.Invoices.Update, remove: deps.Invoices.Delete,
		one: (*assemble.Assembler).Invoice, many: (*assemble.Assembler).Invoices,
	})
	mount(api, "/payments", src, logger, resource[domain.Payment, invoice.PaymentPatch, assemble.PaymentResponse]{
		name: "payment", list: deps.Payments.List, get: deps.Payments.Get, create: deps.Payments.Create,
		update: deps.Payments.Update, remove: deps.Payments.Delete,
		one: (*assemble.Assembler).Payment, many: (*assemble.Assembler).Payments,
	})

	notes := api.Group("/notifications")
	notes.GET("", notificationsHandler(deps.Notifications, src, logger))
	notes.GET("/unread-count", unreadCountHandler(deps.Notifications, logger))
	notes.PUT("/:id/read", markReadHandler(deps.Notifications, logger))

	return router, nil
}

func jobResource(name string, svc *workorder.Service) resource[domain.Job, workorder.Patch, assemble.JobResponse] {
	return resource[domain.Job, workorder.Patch, assemble.JobResponse]{
		name: name, list: svc.List, get: svc.Get, create: svc.Create,
		update: svc.Update, remove: svc.Delete,
		one: (*assemble.Assembler).Job, many: (*assemble.Assembler).Jobs,
	}
}

var lookupRoutes = map[string]domain.LookupKind{
	"inventory-types":     domain.LookupInventoryType,
	"service-area-types":  domain.LookupServiceAreaType,
	"work-order-statuses": domain.LookupWorkOrderStatus,
	"payment-statuses":    domain.LookupPaymentStatus,
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Authorization", "Content-Type", ownerHeader, requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if strings.TrimSpace(o) == "*" {
			cfg.AllowAllOrigins = true
		}
	}
	if !cfg.AllowAllOrigins {
		cfg.AllowOrigins = origins
	}
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowAllOrigins = true
	}
	return cors.New(cfg)
}
