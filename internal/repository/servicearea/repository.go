package servicearea

import (
	"context"

	"marinaops/internal/domain"
	"marinaops/internal/filter"
	"marinaops/internal/page"
)

// Entity describes how service areas are listed and searched.
var Entity = &filter.Entity{
	Table: "service_areas",
	Alias: "sa",
	Columns: []string{
		"sa.id", "sa.service_area_id", "sa.name", "sa.type_id", "sa.street", "sa.apt", "sa.zip_code",
		"sa.state_id", "sa.country_id", "sa.gps_coordinates", "sa.notes", "sa.owner_id",
		"sa.created_at", "sa.updated_at", "sa.created_by", "sa.last_modified_by",
	},
	Joins: []string{
		"LEFT JOIN states st ON st.id = sa.state_id",
		"LEFT JOIN countries co ON co.id = sa.country_id",
		"LEFT JOIN service_area_types sat ON sat.id = sa.type_id",
	},
	Owner: filter.NumberField("sa.owner_id"),
	Search: []filter.Field{
		filter.TextField("sa.service_area_id"),
		filter.TextField("sa.name"),
		filter.TextField("sa.street"),
		filter.TextField("sa.apt"),
		filter.TextField("sa.zip_code"),
		filter.TextField("sa.notes"),
		filter.TextField("st.name"),
		filter.TextField("co.name"),
		filter.TextField("sat.name"),
	},
	Sort: map[string]string{
		"serviceAreaId":   "sa.service_area_id",
		"serviceAreaName": "sa.name",
		"name":            "sa.name",
		"createdAt":       "sa.created_at",
	},
}

// Repository persists service areas.
type Repository interface {
	List(ctx context.Context, where filter.Predicate, req page.Request) (page.Page[domain.ServiceArea], error)
	GetByID(ctx context.Context, id int64) (*domain.ServiceArea, error)
	NameTaken(ctx context.Context, ownerID int64, name string, exceptID int64) (bool, error)
	BusinessIDTaken(ctx context.Context, ownerID int64, businessID string) (bool, error)
	Create(ctx context.Context, a *domain.ServiceArea) error
	Update(ctx context.Context, a *domain.ServiceArea) error
	Delete(ctx context.Context, id int64) error
}
