package customer

import (
	"context"

	"marinaops/internal/domain"
	"marinaops/internal/filter"
	"marinaops/internal/page"
)

// Entity describes how customers are listed and searched.
var Entity = &filter.Entity{
	Table: "customers",
	Alias: "c",
	Columns: []string{
		"c.id", "c.first_name", "c.last_name", "c.email", "c.phone",
		"c.street", "c.apt", "c.zip_code", "c.state_id", "c.country_id", "c.owner_id",
		"c.created_at", "c.updated_at", "c.created_by", "c.last_modified_by",
	},
	Joins: []string{
		"LEFT JOIN states st ON st.id = c.state_id",
		"LEFT JOIN countries co ON co.id = c.country_id",
	},
	Owner: filter.NumberField("c.owner_id"),
	Search: []filter.Field{
		filter.TextField("c.first_name"),
		filter.TextField("c.last_name"),
		filter.TextField("c.email"),
		filter.TextField("c.phone"),
		filter.TextField("c.street"),
		filter.TextField("c.apt"),
		filter.TextField("c.zip_code"),
		filter.TextField("st.name"),
		filter.TextField("co.name"),
	},
	Sort: map[string]string{
		"firstName": "c.first_name",
		"lastName":  "c.last_name",
		"email":     "c.email",
		"createdAt": "c.created_at",
	},
}

// Repository persists customers.
type Repository interface {
	List(ctx context.Context, where filter.Predicate, req page.Request) (page.Page[domain.Customer], error)
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	// EmailTaken reports whether another customer of ownerID uses email.
	EmailTaken(ctx context.Context, ownerID int64, email string, exceptID int64) (bool, error)
	Create(ctx context.Context, c *domain.Customer) error
	Update(ctx context.Context, c *domain.Customer) error
	Delete(ctx context.Context, id int64) error
}
