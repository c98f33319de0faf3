// Package app assembles repositories into the service graph shared by
// the API server and the command line tools.
package app

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"marinaops/internal/assemble"
	"marinaops/internal/auth"
	"marinaops/internal/domain"
	"marinaops/internal/notify"
	boatyardrepo "marinaops/internal/repository/boatyard"
	customerrepo "marinaops/internal/repository/customer"
	inventoryrepo "marinaops/internal/repository/inventory"
	invoicerepo "marinaops/internal/repository/invoice"
	jobrepo "marinaops/internal/repository/job"
	"marinaops/internal/repository/memory"
	mooringrepo "marinaops/internal/repository/mooring"
	notificationrepo "marinaops/internal/repository/notification"
	"marinaops/internal/repository/pgutil"
	referencerepo "marinaops/internal/repository/reference"
	servicearearepo "marinaops/internal/repository/servicearea"
	userrepo "marinaops/internal/repository/user"
	vendorrepo "marinaops/internal/repository/vendor"
	"marinaops/internal/service/authn"
	"marinaops/internal/service/boatyard"
	"marinaops/internal/service/customer"
	"marinaops/internal/service/inventory"
	"marinaops/internal/service/invoice"
	"marinaops/internal/service/mooring"
	"marinaops/internal/service/notification"
	"marinaops/internal/service/reference"
	"marinaops/internal/service/servicearea"
	"marinaops/internal/service/user"
	"marinaops/internal/service/vendor"
	"marinaops/internal/service/workorder"
)

// Repositories is one implementation of every store.
type Repositories struct {
	Tx            pgutil.Runner
	References    referencerepo.Repository
	Users         userrepo.Repository
	Customers     customerrepo.Repository
	Boatyards     boatyardrepo.Repository
	ServiceAreas  servicearearepo.Repository
	Moorings      mooringrepo.Repository
	Vendors       vendorrepo.Repository
	Inventory     inventoryrepo.Repository
	Jobs          jobrepo.Repository
	Invoices      invoicerepo.Repository
	Payments      invoicerepo.PaymentRepository
	Notifications notificationrepo.Repository
}

// Postgres returns pgx-backed repositories sharing pool.
func Postgres(pool *pgxpool.Pool, logger *zerolog.Logger) Repositories {
	return Repositories{
		Tx:            pgutil.NewTransactor(pool),
		References:    referencerepo.NewPostgres(pool, logger),
		Users:         userrepo.NewPostgres(pool, logger),
		Customers:     customerrepo.NewPostgres(pool, logger),
		Boatyards:     boatyardrepo.NewPostgres(pool, logger),
		ServiceAreas:  servicearearepo.NewPostgres(pool, logger),
		Moorings:      mooringrepo.NewPostgres(pool, logger),
		Vendors:       vendorrepo.NewPostgres(pool, logger),
		Inventory:     inventoryrepo.NewPostgres(pool, logger),
		Jobs:          jobrepo.NewPostgres(pool, logger),
		Invoices:      invoicerepo.NewPostgres(pool, logger),
		Payments:      invoicerepo.NewPaymentPostgres(pool, logger),
		Notifications: notificationrepo.NewPostgres(pool, logger),
	}
}

// Memory returns repositories over an in-process store. Transactions are
// not emulated.
func Memory(store *memory.Store) Repositories {
	return Repositories{
		Tx:            pgutil.NoTx{},
		References:    store.References(),
		Users:         store.Users(),
		Customers:     store.Customers(),
		Boatyards:     store.Boatyards(),
		ServiceAreas:  store.ServiceAreas(),
		Moorings:      store.Moorings(),
		Vendors:       store.Vendors(),
		Inventory:     store.Inventory(),
		Jobs:          store.Jobs(),
		Invoices:      store.Invoices(),
		Payments:      store.Payments(),
		Notifications: store.Notifications(),
	}
}

// Services is the wired service graph.
type Services struct {
	Tokens   *auth.Tokens
	Resolver *auth.Resolver
	Source   assemble.Source

	Login         *authn.Service
	References    *reference.Service
	Users         *user.Service
	Customers     *customer.Service
	Boatyards     *boatyard.Service
	ServiceAreas  *servicearea.Service
	Moorings      *mooring.Service
	Vendors       *vendor.Service
	Inventory     *inventory.Service
	WorkOrders    *workorder.Service
	Estimates     *workorder.Service
	Invoices      *invoice.Service
	Payments      *invoice.Payments
	Notifications *notification.Service
}

// Wire builds every service over repos. A nil publisher disables broker
// delivery of notifications.
func Wire(repos Repositories, tokens *auth.Tokens, publisher notify.Publisher, logger *zerolog.Logger) *Services {
	refs := reference.New(repos.References)
	moorings := mooring.New(repos.Moorings, repos.Customers, repos.Boatyards, repos.ServiceAreas, logger)
	notes := notification.New(repos.Notifications, publisher, logger)
	jobs := workorder.Deps{
		Jobs:      repos.Jobs,
		Moorings:  repos.Moorings,
		Customers: repos.Customers,
		Boatyards: repos.Boatyards,
		Users:     repos.Users,
		Refs:      refs,
		Notifier:  notes,
		Tx:        repos.Tx,
		Logger:    logger,
	}
	invoices := invoice.New(repos.Invoices, repos.Payments, repos.Jobs, refs, repos.Tx, logger)

	return &Services{
		Tokens:   tokens,
		Resolver: auth.NewResolver(repos.Users),
		Source: assemble.Source{
			Refs:         repos.References,
			Users:        repos.Users,
			Customers:    repos.Customers,
			Boatyards:    repos.Boatyards,
			ServiceAreas: repos.ServiceAreas,
			Vendors:      repos.Vendors,
			Moorings:     repos.Moorings,
			Inventory:    repos.Inventory,
			Jobs:         repos.Jobs,
			Invoices:     repos.Invoices,
		},
		Login:         authn.New(repos.Users, tokens, logger),
		References:    refs,
		Users:         user.New(repos.Users, refs, logger),
		Customers:     customer.New(repos.Customers, moorings, refs, repos.Tx, logger),
		Boatyards:     boatyard.New(repos.Boatyards, moorings, refs, repos.Tx, logger),
		ServiceAreas:  servicearea.New(repos.ServiceAreas, moorings, refs, repos.Tx, logger),
		Moorings:      moorings,
		Vendors:       vendor.New(repos.Vendors, repos.Inventory, refs, repos.Tx, logger),
		Inventory:     inventory.New(repos.Inventory, repos.Vendors, refs, logger),
		WorkOrders:    workorder.New(domain.JobWorkOrder, jobs),
		Estimates:     workorder.New(domain.JobEstimate, jobs),
		Invoices:      invoices,
		Payments:      invoice.NewPayments(invoices),
		Notifications: notes,
	}
}
