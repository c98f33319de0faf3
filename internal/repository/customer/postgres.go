package customer

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

var selectCustomer = `SELECT ` + strings.Join(Entity.Columns, ", ") + ` FROM customers c `

func scanCustomer(row pgx.Row) (domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
		&c.Street, &c.Apt, &c.ZipCode, &c.StateID, &c.CountryID, &c.OwnerID,
		&c.CreatedAt, &c.UpdatedAt, &c.CreatedBy, &c.LastModifiedBy,
	)
	return c, err
}

func (r *postgresRepo) List(ctx context.Context, where filter.Predicate, req page.Request) (page.Page[domain.Customer], error) {
	q, err := filter.NewQuery(Entity, where, req)
	if err != nil {
		return page.Page[domain.Customer]{}, err
	}
	p, err := pgutil.FetchPage(ctx, pgutil.Conn(ctx, r.pool), q, scanCustomer)
	if err != nil {
		r.logger.Error().Err(err).Msg("list customers")
		return p, pgutil.Translate(err, "customers")
	}
	return p, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	c, err := scanCustomer(pgutil.Conn(ctx, r.pool).QueryRow(ctx, selectCustomer+`WHERE c.id = $1`, id))
	if err != nil {
		return nil, pgutil.Translate(err, fmt.Sprintf("customer %d", id))
	}
	return &c, nil
}

func (r *postgresRepo) EmailTaken(ctx context.Context, ownerID int64, email string, exceptID int64) (bool, error) {
	ok, err := pgutil.Exists(ctx, pgutil.Conn(ctx, r.pool),
		`SELECT EXISTS (SELECT 1 FROM customers WHERE owner_id = $1 AND lower(email) = lower($2) AND id <> $3)`,
		ownerID, email, exceptID)
	return ok, pgutil.Translate(err, "customer")
}

func (r *postgresRepo) Create(ctx context.Context, c *domain.Customer) error {
	const q = `
INSERT INTO customers (first_name, last_name, email, phone, street, apt, zip_code, state_id, country_id, owner_id,
                       created_at, updated_at, created_by, last_modified_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
RETURNING id
`
	err := pgutil.Conn(ctx, r.pool).QueryRow(ctx, q,
		c.FirstName, c.LastName, c.Email, c.Phone, c.Street, c.Apt, c.ZipCode, c.StateID, c.CountryID, c.OwnerID,
		c.CreatedAt, c.UpdatedAt, c.CreatedBy, c.LastModifiedBy,
	).Scan(&c.ID)
	if err != nil {
		r.logger.Warn().Err(err).Int64("owner", c.OwnerID).Msg("create customer")
		return pgutil.Translate(err, "customer "+c.Email)
	}
	return nil
}

func (r *postgresRepo) Update(ctx context.Context, c *domain.Customer) error {
	const q = `
UPDATE customers
SET first_name = $2, last_name = $3, email = $4, phone = $5, street = $6, apt = $7, zip_code = $8,
    state_id = $9, country_id = $10, updated_at = $11, last_modified_by = $12
WHERE id = $1
`
	tag, err := pgutil.Conn(ctx, r.pool).Exec(ctx, q,
		c.ID, c.FirstName, c.LastName, c.Email, c.Phone, c.Street, c.Apt, c.ZipCode,
		c.StateID, c.CountryID, c.UpdatedAt, c.LastModifiedBy,
	)
	return pgutil.Affected(tag, err, fmt.Sprintf("customer %d", c.ID))
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) error {
	tag, err := pgutil.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	return pgutil.Affected(tag, err, fmt.Sprintf("customer %d", id))
}
