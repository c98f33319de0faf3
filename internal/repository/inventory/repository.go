package inventory

import (
	"context"

	"marinaops/internal/domain"
	"marinaops/internal/filter"
	"marinaops/internal/page"
)

// Entity describes how inventory is listed and searched. Ownership comes
// from the vendor.
var Entity = &filter.Entity{
	Table: "inventory",
	Alias: "i",
	Columns: []string{
		"i.id", "i.item_name", "i.cost_cents", "i.sale_price_cents", "i.taxable", "i.quantity",
		"i.inventory_type_id", "i.vendor_id", "v.owner_id",
		"i.created_at", "i.updated_at", "i.created_by", "i.last_modified_by",
	},
	Joins: []string{
		"JOIN vendors v ON v.id = i.vendor_id",
		"LEFT JOIN inventory_types it ON it.id = i.inventory_type_id",
	},
	Owner: filter.NumberField("v.owner_id"),
	Search: []filter.Field{
		filter.TextField("i.item_name"),
		filter.TextField("v.company_name"),
		filter.TextField("it.name"),
		filter.CentsField("i.cost_cents"),
		filter.CentsField("i.sale_price_cents"),
		filter.NumberField("i.quantity"),
	},
	Sort: map[string]string{
		"itemName":  "i.item_name",
		"cost":      "i.cost_cents",
		"salePrice": "i.sale_price_cents",
		"quantity":  "i.quantity",
		"createdAt": "i.created_at",
	},
}

// Repository persists inventory items.
type Repository interface {
	List(ctx context.Context, where filter.Predicate, req page.Request) (page.Page[domain.Inventory], error)
	GetByID(ctx context.Context, id int64) (*domain.Inventory, error)
	ListByVendor(ctx context.Context, vendorID int64) ([]domain.Inventory, error)
	Create(ctx context.Context, item *domain.Inventory) error
	Update(ctx context.Context, item *domain.Inventory) error
	// Upsert creates the item or updates the vendor's item with the same name.
	Upsert(ctx context.Context, item *domain.Inventory) error
	Delete(ctx context.Context, id int64) error
	DeleteByVendor(ctx context.Context, vendorID int64) (int64, error)
}
