package boatyard

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

var selectBoatyard = `SELECT ` + strings.Join(Entity.Columns, ", ") + ` FROM boatyards b `

func scanBoatyard(row pgx.Row) (domain.Boatyard, error) {
	var b domain.Boatyard
	err := row.Scan(
		&b.ID, &b.BoatyardID, &b.Name, &b.Street, &b.Apt, &b.ZipCode,
		&b.StateID, &b.CountryID, &b.GPSCoordinates, &b.MainContact, &b.OwnerID,
		&b.CreatedAt, &b.UpdatedAt, &b.CreatedBy, &b.LastModifiedBy,
	)
	return b, err
}

func (r *postgresRepo) List(ctx context.Context, where filter.Predicate, req page.Request) (page.Page[domain.Boatyard], error) {
	q, err := filter.NewQuery(Entity, where, req)
	if err != nil {
		return page.Page[domain.Boatyard]{}, err
	}
	p, err := pgutil.FetchPage(ctx, pgutil.Conn(ctx, r.pool), q, scanBoatyard)
	if err != nil {
		r.logger.Error().Err(err).Msg("list boatyards")
		return p, pgutil.Translate(err, "boatyards")
	}
	return p, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Boatyard, error) {
	b, err := scanBoatyard(pgutil.Conn(ctx, r.pool).QueryRow(ctx, selectBoatyard+`WHERE b.id = $1`, id))
	if err != nil {
		return nil, pgutil.Translate(err, fmt.Sprintf("boatyard %d", id))
	}
	return &b, nil
}

func (r *postgresRepo) NameTaken(ctx context.Context, ownerID int64, name string, exceptID int64) (bool, error) {
	ok, err := pgutil.Exists(ctx, pgutil.Conn(ctx, r.pool),
		`SELECT EXISTS (SELECT 1 FROM boatyards WHERE owner_id = $1 AND lower(name) = lower($2) AND id <> $3)`,
		ownerID, name, exceptID)
	return ok, pgutil.Translate(err, "boatyard")
}

func (r *postgresRepo) BusinessIDTaken(ctx context.Context, ownerID int64, businessID string) (bool, error) {
	ok, err := pgutil.Exists(ctx, pgutil.Conn(ctx, r.pool),
		`SELECT EXISTS (SELECT 1 FROM boatyards WHERE owner_id = $1 AND boatyard_id = $2)`,
		ownerID, businessID)
	return ok, pgutil.Translate(err, "boatyard")
}

func (r *postgresRepo) Create(ctx context.Context, b *domain.Boatyard) error {
	const q = `
INSERT INTO boatyards (boatyard_id, name, street, apt, zip_code, state_id, country_id, gps_coordinates, main_contact,
                       owner_id, created_at, updated_at, created_by, last_modified_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
RETURNING id
`
	err := pgutil.Conn(ctx, r.pool).QueryRow(ctx, q,
		b.BoatyardID, b.Name, b.Street, b.Apt, b.ZipCode, b.StateID, b.CountryID, b.GPSCoordinates, b.MainContact,
		b.OwnerID, b.CreatedAt, b.UpdatedAt, b.CreatedBy, b.LastModifiedBy,
	).Scan(&b.ID)
	if err != nil {
		r.logger.Warn().Err(err).Str("boatyard", b.BoatyardID).Msg("create boatyard")
		return pgutil.Translate(err, "boatyard "+b.Name)
	}
	return nil
}

func (r *postgresRepo) Update(ctx context.Context, b *domain.Boatyard) error {
	const q = `
UPDATE boatyards
SET name = $2, street = $3, apt = $4, zip_code = $5, state_id = $6, country_id = $7, gps_coordinates = $8,
    main_contact = $9, updated_at = $10, last_modified_by = $11
WHERE id = $1
`
	tag, err := pgutil.Conn(ctx, r.pool).Exec(ctx, q,
		b.ID, b.Name, b.Street, b.Apt, b.ZipCode, b.StateID, b.CountryID, b.GPSCoordinates,
		b.MainContact, b.UpdatedAt, b.LastModifiedBy,
	)
	return pgutil.Affected(tag, err, fmt.Sprintf("boatyard %d", b.ID))
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) error {
	tag, err := pgutil.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM boatyards WHERE id = $1`, id)
	return pgutil.Affected(tag, err, fmt.Sprintf("boatyard %d", id))
}
