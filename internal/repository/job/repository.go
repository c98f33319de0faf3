// Package job persists work orders and estimates. Both live in tables of
// the same shape and share one repository keyed by domain.JobKind.
package job

import (
	"context"

	"marinaops/internal/domain"
	"marinaops/internal/filter"
	"marinaops/internal/page"
)

func newEntity(table string) *filter.Entity {
	return &filter.Entity{
		Table: table,
		Alias: "j",
		Columns: []string{
			"j.id", "j.number", "j.scheduled_date", "j.due_date", "j.problem",
			"j.mooring_id", "j.customer_id", "j.boatyard_id", "j.technician_id", "j.status_id", "j.owner_id",
			"j.created_at", "j.updated_at", "j.created_by", "j.last_modified_by",
		},
		Joins: []string{
			"LEFT JOIN moorings m ON m.id = j.mooring_id",
			"LEFT JOIN customers c ON c.id = j.customer_id",
			"LEFT JOIN boatyards b ON b.id = j.boatyard_id",
			"LEFT JOIN users t ON t.id = j.technician_id",
			"LEFT JOIN work_order_statuses ws ON ws.id = j.status_id",
		},
		Owner: filter.NumberField("j.owner_id"),
		Search: []filter.Field{
			filter.TextField("j.number"),
			filter.TextField("j.problem"),
			filter.TextField("m.mooring_number"),
			filter.TextField("m.boat_name"),
			filter.TextField("c.first_name"),
			filter.TextField("c.last_name"),
			filter.TextField("b.name"),
			filter.TextField("t.name"),
			filter.TextField("ws.name"),
		},
		Sort: map[string]string{
			"number":        "j.number",
			"scheduledDate": "j.scheduled_date",
			"dueDate":       "j.due_date",
			"createdAt":     "j.created_at",
		},
	}
}

var (
	WorkOrders = newEntity("work_orders")
	Estimates  = newEntity("estimates")
)

// EntityFor returns the list description of kind.
func EntityFor(kind domain.JobKind) *filter.Entity {
	if kind == domain.JobEstimate {
		return Estimates
	}
	return WorkOrders
}

// Repository persists jobs of both kinds.
type Repository interface {
	List(ctx context.Context, kind domain.JobKind, where filter.Predicate, req page.Request) (page.Page[domain.Job], error)
	GetByID(ctx context.Context, kind domain.JobKind, id int64) (*domain.Job, error)
	NumberTaken(ctx context.Context, kind domain.JobKind, ownerID int64, number string) (bool, error)
	Create(ctx context.Context, j *domain.Job) error
	Update(ctx context.Context, j *domain.Job) error
	Delete(ctx context.Context, kind domain.JobKind, id int64) error
}
