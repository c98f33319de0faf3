package mooring

import (
	"context"

	"marinaops/internal/domain"
	"marinaops/internal/filter"
	"marinaops/internal/page"
)

// Entity describes how moorings are listed and searched.
var Entity = &filter.Entity{
	Table: "moorings",
	Alias: "m",
	Columns: []string{
		"m.id", "m.mooring_number", "m.boat_name", "m.boat_size", "m.boat_type", "m.boat_weight",
		"m.size_of_weight", "m.type_of_weight", "m.top_chain_condition", "m.bottom_chain_condition",
		"m.shackle_swivel_condition", "m.eye_condition", "m.pennant_condition", "m.depth_at_mean_high_water",
		"m.gps_coordinates", "m.status", "m.customer_id", "m.boatyard_id", "m.service_area_id", "m.owner_id",
		"m.created_at", "m.updated_at", "m.created_by", "m.last_modified_by",
	},
	Joins: []string{
		"LEFT JOIN customers c ON c.id = m.customer_id",
		"LEFT JOIN boatyards b ON b.id = m.boatyard_id",
		"LEFT JOIN service_areas sa ON sa.id = m.service_area_id",
	},
	Owner: filter.NumberField("m.owner_id"),
	Search: []filter.Field{
		filter.TextField("m.mooring_number"),
		filter.TextField("m.boat_name"),
		filter.TextField("m.boat_type"),
		filter.TextField("m.status"),
		filter.TextField("c.first_name"),
		filter.TextField("c.last_name"),
		filter.TextField("b.name"),
		filter.TextField("sa.name"),
	},
	Sort: map[string]string{
		"mooringNumber": "m.mooring_number",
		"boatName":      "m.boat_name",
		"status":        "m.status",
		"createdAt":     "m.created_at",
	},
}

// Repository persists moorings.
type Repository interface {
	List(ctx context.Context, where filter.Predicate, req page.Request) (page.Page[domain.Mooring], error)
	GetByID(ctx context.Context, id int64) (*domain.Mooring, error)
	ListByParent(ctx context.Context, parent domain.MooringParent, parentID int64) ([]domain.Mooring, error)
	NumberTaken(ctx context.Context, ownerID int64, number string, exceptID int64) (bool, error)
	Create(ctx context.Context, m *domain.Mooring) error
	Update(ctx context.Context, m *domain.Mooring) error
	Delete(ctx context.Context, id int64) error
	// DeleteByParent removes every mooring hanging off parentID.
	DeleteByParent(ctx context.Context, parent domain.MooringParent, parentID int64) (int64, error)
}
