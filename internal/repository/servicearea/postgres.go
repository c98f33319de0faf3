package servicearea

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

var selectArea = `SELECT ` + strings.Join(Entity.Columns, ", ") + ` FROM service_areas sa `

func scanArea(row pgx.Row) (domain.ServiceArea, error) {
	var a domain.ServiceArea
	err := row.Scan(
		&a.ID, &a.ServiceAreaID, &a.Name, &a.TypeID, &a.Street, &a.Apt, &a.ZipCode,
		&a.StateID, &a.CountryID, &a.GPSCoordinates, &a.Notes, &a.OwnerID,
		&a.CreatedAt, &a.UpdatedAt, &a.CreatedBy, &a.LastModifiedBy,
	)
	return a, err
}

func (r *postgresRepo) List(ctx context.Context, where filter.Predicate, req page.Request) (page.Page[domain.ServiceArea], error) {
	q, err := filter.NewQuery(Entity, where, req)
	if err != nil {
		return page.Page[domain.ServiceArea]{}, err
	}
	p, err := pgutil.FetchPage(ctx, pgutil.Conn(ctx, r.pool), q, scanArea)
	if err != nil {
		r.logger.Error().Err(err).Msg("list service areas")
		return p, pgutil.Translate(err, "service areas")
	}
	return p, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.ServiceArea, error) {
	a, err := scanArea(pgutil.Conn(ctx, r.pool).QueryRow(ctx, selectArea+`WHERE sa.id = $1`, id))
	if err != nil {
		return nil, pgutil.Translate(err, fmt.Sprintf("service area %d", id))
	}
	return &a, nil
}

func (r *postgresRepo) NameTaken(ctx context.Context, ownerID int64, name string, exceptID int64) (bool, error) {
	ok, err := pgutil.Exists(ctx, pgutil.Conn(ctx, r.pool),
		`SELECT EXISTS (SELECT 1 FROM service_areas WHERE owner_id = $1 AND lower(name) = lower($2) AND id <> $3)`,
		ownerID, name, exceptID)
	return ok, pgutil.Translate(err, "service area")
}

func (r *postgresRepo) BusinessIDTaken(ctx context.Context, ownerID int64, businessID string) (bool, error) {
	ok, err := pgutil.Exists(ctx, pgutil.Conn(ctx, r.pool),
		`SELECT EXISTS (SELECT 1 FROM service_areas WHERE owner_id = $1 AND service_area_id = $2)`,
		ownerID, businessID)
	return ok, pgutil.Translate(err, "service area")
}

func (r *postgresRepo) Create(ctx context.Context, a *domain.ServiceArea) error {
	const q = `
INSERT INTO service_areas (service_area_id, name, type_id, street, apt, zip_code, state_id, country_id,
                           gps_coordinates, notes, owner_id, created_at, updated_at, created_by, last_modified_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
RETURNING id
`
	err := pgutil.Conn(ctx, r.pool).QueryRow(ctx, q,
		a.ServiceAreaID, a.Name, a.TypeID, a.Street, a.Apt, a.ZipCode, a.StateID, a.CountryID,
		a.GPSCoordinates, a.Notes, a.OwnerID, a.CreatedAt, a.UpdatedAt, a.CreatedBy, a.LastModifiedBy,
	).Scan(&a.ID)
	if err != nil {
		r.logger.Warn().Err(err).Str("serviceArea", a.ServiceAreaID).Msg("create service area")
		return pgutil.Translate(err, "service area "+a.Name)
	}
	return nil
}

func (r *postgresRepo) Update(ctx context.Context, a *domain.ServiceArea) error {
	const q = `
UPDATE service_areas
SET name = $2, type_id = $3, street = $4, apt = $5, zip_code = $6, state_id = $7, country_id = $8,
    gps_coordinates = $9, notes = $10, updated_at = $11, last_modified_by = $12
WHERE id = $1
`
	tag, err := pgutil.Conn(ctx, r.pool).Exec(ctx, q,
		a.ID, a.Name, a.TypeID, a.Street, a.Apt, a.ZipCode, a.StateID, a.CountryID,
		a.GPSCoordinates, a.Notes, a.UpdatedAt, a.LastModifiedBy,
	)
	return pgutil.Affected(tag, err, fmt.Sprintf("service area %d", a.ID))
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) error {
	tag, err := pgutil.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM service_areas WHERE id = $1`, id)
	return pgutil.Affected(tag, err, fmt.Sprintf("service area %d", id))
}
