package user

import (
	"context"

	"marinaops/internal/domain"
	"marinaops/internal/filter"
	"marinaops/internal/page"
)

// Entity describes how users are listed and searched.
var Entity = &filter.Entity{
	Table: "users",
	Alias: "u",
	Columns: []string{
		"u.id", "u.name", "u.email", "u.phone", "u.password_hash", "u.role",
		"u.state_id", "u.country_id", "u.customer_admin_id",
		"u.created_at", "u.updated_at", "u.created_by", "u.last_modified_by",
	},
	Owner: filter.NumberField("u.customer_admin_id"),
	Search: []filter.Field{
		filter.TextField("u.name"),
		filter.TextField("u.email"),
		filter.TextField("u.phone"),
		filter.TextField("u.role"),
	},
	Sort: map[string]string{
		"name":      "u.name",
		"email":     "u.email",
		"role":      "u.role",
		"createdAt": "u.created_at",
	},
}

// Repository persists users.
type Repository interface {
	List(ctx context.Context, where filter.Predicate, req page.Request) (page.Page[domain.User], error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id int64) error
}
