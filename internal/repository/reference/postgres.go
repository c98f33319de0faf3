package reference

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"marinaops/internal/domain"
	"marinaops/internal/logging"
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

func scanState(row pgx.Row) (domain.State, error) {
	var s domain.State
	err := row.Scan(&s.ID, &s.Name, &s.Code)
	return s, err
}

func scanCountry(row pgx.Row) (domain.Country, error) {
	var c domain.Country
	err := row.Scan(&c.ID, &c.Name, &c.Code)
	return c, err
}

func (r *postgresRepo) States(ctx context.Context) ([]domain.State, error) {
	out, err := pgutil.Collect(ctx, pgutil.Conn(ctx, r.pool), `SELECT id, name, code FROM states ORDER BY name`, nil, scanState)
	if err != nil {
		r.logger.Error().Err(err).Msg("list states")
		return nil, pgutil.Translate(err, "states")
	}
	return out, nil
}

func (r *postgresRepo) Countries(ctx context.Context) ([]domain.Country, error) {
	out, err := pgutil.Collect(ctx, pgutil.Conn(ctx, r.pool), `SELECT id, name, code FROM countries ORDER BY name`, nil, scanCountry)
	if err != nil {
		r.logger.Error().Err(err).Msg("list countries")
		return nil, pgutil.Translate(err, "countries")
	}
	return out, nil
}

func (r *postgresRepo) GetState(ctx context.Context, id int64) (*domain.State, error) {
	s, err := scanState(pgutil.Conn(ctx, r.pool).QueryRow(ctx, `SELECT id, name, code FROM states WHERE id = $1`, id))
	if err != nil {
		return nil, pgutil.Translate(err, fmt.Sprintf("state %d", id))
	}
	return &s, nil
}

func (r *postgresRepo) GetCountry(ctx context.Context, id int64) (*domain.Country, error) {
	c, err := scanCountry(pgutil.Conn(ctx, r.pool).QueryRow(ctx, `SELECT id, name, code FROM countries WHERE id = $1`, id))
	if err != nil {
		return nil, pgutil.Translate(err, fmt.Sprintf("country %d", id))
	}
	return &c, nil
}

func lookupScanner(kind domain.LookupKind) func(pgx.Row) (domain.Lookup, error) {
	return func(row pgx.Row) (domain.Lookup, error) {
		l := domain.Lookup{Kind: kind}
		err := row.Scan(&l.ID, &l.Name)
		return l, err
	}
}

// Table names come from the LookupKind whitelist, never from input.
func (r *postgresRepo) Lookups(ctx context.Context, kind domain.LookupKind) ([]domain.Lookup, error) {
	if !kind.Valid() {
		return nil, domain.Invalidf("unknown lookup %q", kind)
	}
	q := `SELECT id, name FROM ` + string(kind) + ` ORDER BY id`
	out, err := pgutil.Collect(ctx, pgutil.Conn(ctx, r.pool), q, nil, lookupScanner(kind))
	if err != nil {
		r.logger.Error().Err(err).Str("lookup", string(kind)).Msg("list lookups")
		return nil, pgutil.Translate(err, string(kind))
	}
	return out, nil
}

func (r *postgresRepo) GetLookup(ctx context.Context, kind domain.LookupKind, id int64) (*domain.Lookup, error) {
	if !kind.Valid() {
		return nil, domain.Invalidf("unknown lookup %q", kind)
	}
	q := `SELECT id, name FROM ` + string(kind) + ` WHERE id = $1`
	l, err := lookupScanner(kind)(pgutil.Conn(ctx, r.pool).QueryRow(ctx, q, id))
	if err != nil {
		return nil, pgutil.Translate(err, fmt.Sprintf("%s %d", kind, id))
	}
	return &l, nil
}

func (r *postgresRepo) LookupByName(ctx context.Context, kind domain.LookupKind, name string) (*domain.Lookup, error) {
	if !kind.Valid() {
		return nil, domain.Invalidf("unknown lookup %q", kind)
	}
	q := `SELECT id, name FROM ` + string(kind) + ` WHERE upper(name) = upper($1)`
	l, err := lookupScanner(kind)(pgutil.Conn(ctx, r.pool).QueryRow(ctx, q, name))
	if err != nil {
		return nil, pgutil.Translate(err, fmt.Sprintf("%s %q", kind, name))
	}
	return &l, nil
}
