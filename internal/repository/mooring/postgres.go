package mooring

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

var selectMooring = `SELECT ` + strings.Join(Entity.Columns, ", ") + ` FROM moorings m `

func scanMooring(row pgx.Row) (domain.Mooring, error) {
	var m domain.Mooring
	err := row.Scan(
		&m.ID, &m.MooringNumber, &m.BoatName, &m.BoatSize, &m.BoatType, &m.BoatWeight,
		&m.SizeOfWeight, &m.TypeOfWeight, &m.TopChainCondition, &m.BottomChainCondition,
		&m.ShackleSwivelCondition, &m.EyeCondition, &m.PennantCondition, &m.DepthAtMeanHighWater,
		&m.GPSCoordinates, &m.Status, &m.CustomerID, &m.BoatyardID, &m.ServiceAreaID, &m.OwnerID,
		&m.CreatedAt, &m.UpdatedAt, &m.CreatedBy, &m.LastModifiedBy,
	)
	return m, err
}

func parentColumn(parent domain.MooringParent) (string, error) {
	switch parent {
	case domain.ParentCustomer, domain.ParentBoatyard, domain.ParentServiceArea:
		return string(parent), nil
	}
	return "", domain.Invalidf("unknown mooring parent %q", parent)
}

func (r *postgresRepo) List(ctx context.Context, where filter.Predicate, req page.Request) (page.Page[domain.Mooring], error) {
	q, err := filter.NewQuery(Entity, where, req)
	if err != nil {
		return page.Page[domain.Mooring]{}, err
	}
	p, err := pgutil.FetchPage(ctx, pgutil.Conn(ctx, r.pool), q, scanMooring)
	if err != nil {
		r.logger.Error().Err(err).Msg("list moorings")
		return p, pgutil.Translate(err, "moorings")
	}
	return p, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Mooring, error) {
	m, err := scanMooring(pgutil.Conn(ctx, r.pool).QueryRow(ctx, selectMooring+`WHERE m.id = $1`, id))
	if err != nil {
		return nil, pgutil.Translate(err, fmt.Sprintf("mooring %d", id))
	}
	return &m, nil
}

func (r *postgresRepo) ListByParent(ctx context.Context, parent domain.MooringParent, parentID int64) ([]domain.Mooring, error) {
	col, err := parentColumn(parent)
	if err != nil {
		return nil, err
	}
	out, err := pgutil.Collect(ctx, pgutil.Conn(ctx, r.pool),
		selectMooring+`WHERE m.`+col+` = $1 ORDER BY m.id`, []any{parentID}, scanMooring)
	if err != nil {
		r.logger.Error().Err(err).Str("parent", col).Int64("parentId", parentID).Msg("list moorings by parent")
		return nil, pgutil.Translate(err, "moorings")
	}
	return out, nil
}

func (r *postgresRepo) NumberTaken(ctx context.Context, ownerID int64, number string, exceptID int64) (bool, error) {
	ok, err := pgutil.Exists(ctx, pgutil.Conn(ctx, r.pool),
		`SELECT EXISTS (SELECT 1 FROM moorings WHERE owner_id = $1 AND lower(mooring_number) = lower($2) AND id <> $3)`,
		ownerID, number, exceptID)
	return ok, pgutil.Translate(err, "mooring")
}

func (r *postgresRepo) Create(ctx context.Context, m *domain.Mooring) error {
	const q = `
INSERT INTO moorings (mooring_number, boat_name, boat_size, boat_type, boat_weight, size_of_weight, type_of_weight,
                      top_chain_condition, bottom_chain_condition, shackle_swivel_condition, eye_condition,
                      pennant_condition, depth_at_mean_high_water, gps_coordinates, status,
                      customer_id, boatyard_id, service_area_id, owner_id,
                      created_at, updated_at, created_by, last_modified_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
RETURNING id
`
	err := pgutil.Conn(ctx, r.pool).QueryRow(ctx, q,
		m.MooringNumber, m.BoatName, m.BoatSize, m.BoatType, m.BoatWeight, m.SizeOfWeight, m.TypeOfWeight,
		m.TopChainCondition, m.BottomChainCondition, m.ShackleSwivelCondition, m.EyeCondition,
		m.PennantCondition, m.DepthAtMeanHighWater, m.GPSCoordinates, m.Status,
		m.CustomerID, m.BoatyardID, m.ServiceAreaID, m.OwnerID,
		m.CreatedAt, m.UpdatedAt, m.CreatedBy, m.LastModifiedBy,
	).Scan(&m.ID)
	if err != nil {
		r.logger.Warn().Err(err).Str("mooring", m.MooringNumber).Msg("create mooring")
		return pgutil.Translate(err, "mooring "+m.MooringNumber)
	}
	return nil
}

func (r *postgresRepo) Update(ctx context.Context, m *domain.Mooring) error {
	const q = `
UPDATE moorings
SET mooring_number = $2, boat_name = $3, boat_size = $4, boat_type = $5, boat_weight = $6, size_of_weight = $7,
    type_of_weight = $8, top_chain_condition = $9, bottom_chain_condition = $10, shackle_swivel_condition = $11,
    eye_condition = $12, pennant_condition = $13, depth_at_mean_high_water = $14, gps_coordinates = $15,
    status = $16, customer_id = $17, boatyard_id = $18, service_area_id = $19,
    updated_at = $20, last_modified_by = $21
WHERE id = $1
`
	tag, err := pgutil.Conn(ctx, r.pool).Exec(ctx, q,
		m.ID, m.MooringNumber, m.BoatName, m.BoatSize, m.BoatType, m.BoatWeight, m.SizeOfWeight,
		m.TypeOfWeight, m.TopChainCondition, m.BottomChainCondition, m.ShackleSwivelCondition,
		m.EyeCondition, m.PennantCondition, m.DepthAtMeanHighWater, m.GPSCoordinates,
		m.Status, m.CustomerID, m.BoatyardID, m.ServiceAreaID,
		m.UpdatedAt, m.LastModifiedBy,
	)
	return pgutil.Affected(tag, err, fmt.Sprintf("mooring %d", m.ID))
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) error {
	tag, err := pgutil.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM moorings WHERE id = $1`, id)
	return pgutil.Affected(tag, err, fmt.Sprintf("mooring %d", id))
}

func (r *postgresRepo) DeleteByParent(ctx context.Context, parent domain.MooringParent, parentID int64) (int64, error) {
	col, err := parentColumn(parent)
	if err != nil {
		return 0, err
	}
	tag, err := pgutil.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM moorings WHERE `+col+` = $1`, parentID)
	if err != nil {
		return 0, pgutil.Translate(err, "moorings")
	}
	return tag.RowsAffected(), nil
}
