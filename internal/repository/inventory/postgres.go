package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"marinaops/internal/domain"
	"marinaops/internal/filter"
	"marinaops/internal/logging"
	"marinaops/internal/page"
	"marinaops/internal/repository/pgutil"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *zerolog.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrNop(logger)}
}

var selectItem = `SELECT ` + strings.Join(Entity.Columns, ", ") + ` FROM inventory i ` + Entity.Joins[0] + ` `

func scanItem(row pgx.Row) (domain.Inventory, error) {
	var it domain.Inventory
	err := row.Scan(
		&it.ID, &it.ItemName, &it.CostCents, &it.SalePriceCents, &it.Taxable, &it.Quantity,
		&it.InventoryTypeID, &it.VendorID, &it.OwnerID,
		&it.CreatedAt, &it.UpdatedAt, &it.CreatedBy, &it.LastModifiedBy,
	)
	return it, err
}

func (r *postgresRepo) List(ctx context.Context, where filter.Predicate, req page.Request) (page.Page[domain.Inventory], error) {
	q, err := filter.NewQuery(Entity, where, req)
	if err != nil {
		return page.Page[domain.Inventory]{}, err
	}
	p, err := pgutil.FetchPage(ctx, pgutil.Conn(ctx, r.pool), q, scanItem)
	if err != nil {
		r.logger.Error().Err(err).Msg("list inventory")
		return p, pgutil.Translate(err, "inventory")
	}
	return p, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Inventory, error) {
	it, err := scanItem(pgutil.Conn(ctx, r.pool).QueryRow(ctx, selectItem+`WHERE i.id = $1`, id))
	if err != nil {
		return nil, pgutil.Translate(err, fmt.Sprintf("inventory item %d", id))
	}
	return &it, nil
}

func (r *postgresRepo) ListByVendor(ctx context.Context, vendorID int64) ([]domain.Inventory, error) {
	out, err := pgutil.Collect(ctx, pgutil.Conn(ctx, r.pool), selectItem+`WHERE i.vendor_id = $1 ORDER BY i.id`, []any{vendorID}, scanItem)
	if err != nil {
		r.logger.Error().Err(err).Int64("vendor", vendorID).Msg("list vendor inventory")
		return nil, pgutil.Translate(err, "inventory")
	}
	return out, nil
}

func (r *postgresRepo) Create(ctx context.Context, it *domain.Inventory) error {
	const q = `
INSERT INTO inventory (item_name, cost_cents, sale_price_cents, taxable, quantity, inventory_type_id, vendor_id,
                       created_at, updated_at, created_by, last_modified_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING id
`
	err := pgutil.Conn(ctx, r.pool).QueryRow(ctx, q,
		it.ItemName, it.CostCents, it.SalePriceCents, it.Taxable, it.Quantity, it.InventoryTypeID, it.VendorID,
		it.CreatedAt, it.UpdatedAt, it.CreatedBy, it.LastModifiedBy,
	).Scan(&it.ID)
	if err != nil {
		r.logger.Warn().Err(err).Str("item", it.ItemName).Msg("create inventory item")
		return pgutil.Translate(err, "inventory item "+it.ItemName)
	}
	return nil
}

func (r *postgresRepo) Update(ctx context.Context, it *domain.Inventory) error {
	const q = `
UPDATE inventory
SET item_name = $2, cost_cents = $3, sale_price_cents = $4, taxable = $5, quantity = $6,
    inventory_type_id = $7, vendor_id = $8, updated_at = $9, last_modified_by = $10
WHERE id = $1
`
	tag, err := pgutil.Conn(ctx, r.pool).Exec(ctx, q,
		it.ID, it.ItemName, it.CostCents, it.SalePriceCents, it.Taxable, it.Quantity,
		it.InventoryTypeID, it.VendorID, it.UpdatedAt, it.LastModifiedBy,
	)
	return pgutil.Affected(tag, err, fmt.Sprintf("inventory item %d", it.ID))
}

func (r *postgresRepo) Upsert(ctx context.Context, it *domain.Inventory) error {
	const q = `
INSERT INTO inventory (item_name, cost_cents, sale_price_cents, taxable, quantity, inventory_type_id, vendor_id,
                       created_at, updated_at, created_by, last_modified_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (vendor_id, lower(item_name)) DO UPDATE
SET cost_cents = EXCLUDED.cost_cents,
    sale_price_cents = EXCLUDED.sale_price_cents,
    taxable = EXCLUDED.taxable,
    quantity = EXCLUDED.quantity,
    inventory_type_id = COALESCE(EXCLUDED.inventory_type_id, inventory.inventory_type_id),
    updated_at = EXCLUDED.updated_at,
    last_modified_by = EXCLUDED.last_modified_by
RETURNING id
`
	err := pgutil.Conn(ctx, r.pool).QueryRow(ctx, q,
		it.ItemName, it.CostCents, it.SalePriceCents, it.Taxable, it.Quantity, it.InventoryTypeID, it.VendorID,
		it.CreatedAt, it.UpdatedAt, it.CreatedBy, it.LastModifiedBy,
	).Scan(&it.ID)
	if err != nil {
		r.logger.Warn().Err(err).Str("item", it.ItemName).Int64("vendor", it.VendorID).Msg("upsert inventory item")
		return pgutil.Translate(err, "inventory item "+it.ItemName)
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) error {
	tag, err := pgutil.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM inventory WHERE id = $1`, id)
	return pgutil.Affected(tag, err, fmt.Sprintf("inventory item %d", id))
}

func (r *postgresRepo) DeleteByVendor(ctx context.Context, vendorID int64) (int64, error) {
	tag, err := pgutil.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM inventory WHERE vendor_id = $1`, vendorID)
	if err != nil {
		return 0, pgutil.Translate(err, "inventory")
	}
	return tag.RowsAffected(), nil
}
