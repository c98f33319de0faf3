package job

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

func label(kind domain.JobKind) string {
	if kind == domain.JobEstimate {
		return "estimate"
	}
	return "work order"
}

func scanner(kind domain.JobKind) func(pgx.Row) (domain.Job, error) {
	return func(row pgx.Row) (domain.Job, error) {
		j := domain.Job{Kind: kind}
		err := row.Scan(
			&j.ID, &j.Number, &j.ScheduledDate, &j.DueDate, &j.Problem,
			&j.MooringID, &j.CustomerID, &j.BoatyardID, &j.TechnicianID, &j.StatusID, &j.OwnerID,
			&j.CreatedAt, &j.UpdatedAt, &j.CreatedBy, &j.LastModifiedBy,
		)
		return j, err
	}
}

func (r *postgresRepo) List(ctx context.Context, kind domain.JobKind, where filter.Predicate, req page.Request) (page.Page[domain.Job], error) {
	q, err := filter.NewQuery(EntityFor(kind), where, req)
	if err != nil {
		return page.Page[domain.Job]{}, err
	}
	p, err := pgutil.FetchPage(ctx, pgutil.Conn(ctx, r.pool), q, scanner(kind))
	if err != nil {
		r.logger.Error().Err(err).Str("kind", string(kind)).Msg("list jobs")
		return p, pgutil.Translate(err, label(kind)+"s")
	}
	return p, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, kind domain.JobKind, id int64) (*domain.Job, error) {
	e := EntityFor(kind)
	q := `SELECT ` + strings.Join(e.Columns, ", ") + ` FROM ` + e.Table + ` j WHERE j.id = $1`
	j, err := scanner(kind)(pgutil.Conn(ctx, r.pool).QueryRow(ctx, q, id))
	if err != nil {
		return nil, pgutil.Translate(err, fmt.Sprintf("%s %d", label(kind), id))
	}
	return &j, nil
}

func (r *postgresRepo) NumberTaken(ctx context.Context, kind domain.JobKind, ownerID int64, number string) (bool, error) {
	q := `SELECT EXISTS (SELECT 1 FROM ` + EntityFor(kind).Table + ` WHERE owner_id = $1 AND number = $2)`
	ok, err := pgutil.Exists(ctx, pgutil.Conn(ctx, r.pool), q, ownerID, number)
	return ok, pgutil.Translate(err, label(kind))
}

func (r *postgresRepo) Create(ctx context.Context, j *domain.Job) error {
	q := `
INSERT INTO ` + EntityFor(j.Kind).Table + ` (number, scheduled_date, due_date, problem, mooring_id, customer_id, boatyard_id,
    technician_id, status_id, owner_id, created_at, updated_at, created_by, last_modified_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
RETURNING id
`
	err := pgutil.Conn(ctx, r.pool).QueryRow(ctx, q,
		j.Number, j.ScheduledDate, j.DueDate, j.Problem, j.MooringID, j.CustomerID, j.BoatyardID,
		j.TechnicianID, j.StatusID, j.OwnerID, j.CreatedAt, j.UpdatedAt, j.CreatedBy, j.LastModifiedBy,
	).Scan(&j.ID)
	if err != nil {
		r.logger.Warn().Err(err).Str("number", j.Number).Msg("create job")
		return pgutil.Translate(err, label(j.Kind)+" "+j.Number)
	}
	return nil
}

func (r *postgresRepo) Update(ctx context.Context, j *domain.Job) error {
	q := `
UPDATE ` + EntityFor(j.Kind).Table + `
SET scheduled_date = $2, due_date = $3, problem = $4, mooring_id = $5, customer_id = $6, boatyard_id = $7,
    technician_id = $8, status_id = $9, updated_at = $10, last_modified_by = $11
WHERE id = $1
`
	tag, err := pgutil.Conn(ctx, r.pool).Exec(ctx, q,
		j.ID, j.ScheduledDate, j.DueDate, j.Problem, j.MooringID, j.CustomerID, j.BoatyardID,
		j.TechnicianID, j.StatusID, j.UpdatedAt, j.LastModifiedBy,
	)
	return pgutil.Affected(tag, err, fmt.Sprintf("%s %d", label(j.Kind), j.ID))
}

func (r *postgresRepo) Delete(ctx context.Context, kind domain.JobKind, id int64) error {
	tag, err := pgutil.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM `+EntityFor(kind).Table+` WHERE id = $1`, id)
	return pgutil.Affected(tag, err, fmt.Sprintf("%s %d", label(kind), id))
}
