package boatyard

import (
	"context"

	"marinaops/internal/domain"
	"marinaops/internal/filter"
	"marinaops/internal/page"
)

// Entity describes how boatyards are listed and searched.
var Entity = &filter.Entity{
	Table: "boatyards",
	Alias: "b",
	Columns: []string{
		"b.id", "b.boatyard_id", "b.name", "b.street", "b.apt", "b.zip_code",
		"b.state_id", "b.country_id", "b.gps_coordinates", "b.main_contact", "b.owner_id",
		"b.created_at", "b.updated_at", "b.created_by", "b.last_modified_by",
	},
	Joins: []string{
		"LEFT JOIN states st ON st.id = b.state_id",
		"LEFT JOIN countries co ON co.id = b.country_id",
	},
	Owner: filter.NumberField("b.owner_id"),
	Search: []filter.Field{
		filter.TextField("b.boatyard_id"),
		filter.TextField("b.name"),
		filter.TextField("b.street"),
		filter.TextField("b.apt"),
		filter.TextField("b.zip_code"),
		filter.TextField("b.main_contact"),
		filter.TextField("st.name"),
		filter.TextField("co.name"),
	},
	Sort: map[string]string{
		"boatyardId":   "b.boatyard_id",
		"boatyardName": "b.name",
		"name":         "b.name",
		"createdAt":    "b.created_at",
	},
}

// Repository persists boatyards.
type Repository interface {
	List(ctx context.Context, where filter.Predicate, req page.Request) (page.Page[domain.Boatyard], error)
	GetByID(ctx context.Context, id int64) (*domain.Boatyard, error)
	NameTaken(ctx context.Context, ownerID int64, name string, exceptID int64) (bool, error)
	BusinessIDTaken(ctx context.Context, ownerID int64, businessID string) (bool, error)
	Create(ctx context.Context, b *domain.Boatyard) error
	Update(ctx context.Context, b *domain.Boatyard) error
	Delete(ctx context.Context, id int64) error
}
