// Package invoice persists work-order invoices and their payments.
package invoice

import (
	"context"

	"marinaops/internal/domain"
	"marinaops/internal/filter"
	"marinaops/internal/page"
)

// Invoices describes how invoices are listed and searched.
var Invoices = &filter.Entity{
	Table: "invoices",
	Alias: "inv",
	Columns: []string{
		"inv.id", "inv.amount_cents", "inv.status_id", "inv.work_order_id", "inv.owner_id",
		"inv.created_at", "inv.updated_at", "inv.created_by", "inv.last_modified_by",
	},
	Joins: []string{
		"LEFT JOIN work_orders j ON j.id = inv.work_order_id",
		"LEFT JOIN payment_statuses ps ON ps.id = inv.status_id",
	},
	Owner: filter.NumberField("inv.owner_id"),
	Search: []filter.Field{
		filter.TextField("j.number"),
		filter.TextField("ps.name"),
		filter.CentsField("inv.amount_cents"),
	},
	Sort: map[string]string{
		"amount":    "inv.amount_cents",
		"createdAt": "inv.created_at",
	},
}

// Payments describes how payments are listed and searched.
var Payments = &filter.Entity{
	Table: "payments",
	Alias: "p",
	Columns: []string{
		"p.id", "p.amount_cents", "p.payment_type", "p.status_id", "p.invoice_id", "p.owner_id",
		"p.created_at", "p.updated_at", "p.created_by", "p.last_modified_by",
	},
	Joins: []string{
		"LEFT JOIN payment_statuses ps ON ps.id = p.status_id",
	},
	Owner: filter.NumberField("p.owner_id"),
	Search: []filter.Field{
		filter.TextField("p.payment_type"),
		filter.TextField("ps.name"),
		filter.CentsField("p.amount_cents"),
	},
	Sort: map[string]string{
		"amount":      "p.amount_cents",
		"paymentType": "p.payment_type",
		"createdAt":   "p.created_at",
	},
}

// Repository persists invoices.
type Repository interface {
	List(ctx context.Context, where filter.Predicate, req page.Request) (page.Page[domain.Invoice], error)
	GetByID(ctx context.Context, id int64) (*domain.Invoice, error)
	// GetForUpdate reads the invoice and locks its row until the
	// surrounding transaction ends.
	GetForUpdate(ctx context.Context, id int64) (*domain.Invoice, error)
	Create(ctx context.Context, inv *domain.Invoice) error
	Update(ctx context.Context, inv *domain.Invoice) error
	Delete(ctx context.Context, id int64) error
}

// PaymentRepository persists payments.
type PaymentRepository interface {
	List(ctx context.Context, where filter.Predicate, req page.Request) (page.Page[domain.Payment], error)
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)
	// PaidCents sums the payments of invoiceID.
	PaidCents(ctx context.Context, invoiceID int64) (int64, error)
	Create(ctx context.Context, p *domain.Payment) error
	Update(ctx context.Context, p *domain.Payment) error
	Delete(ctx context.Context, id int64) error
}
