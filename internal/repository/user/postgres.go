package user

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

var selectUser = `SELECT ` + strings.Join(Entity.Columns, ", ") + ` FROM users u `

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	var role string
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &role,
		&u.StateID, &u.CountryID, &u.CustomerAdminID,
		&u.CreatedAt, &u.UpdatedAt, &u.CreatedBy, &u.LastModifiedBy,
	)
	u.Role = domain.Role(role)
	return u, err
}

func (r *postgresRepo) List(ctx context.Context, where filter.Predicate, req page.Request) (page.Page[domain.User], error) {
	q, err := filter.NewQuery(Entity, where, req)
	if err != nil {
		return page.Page[domain.User]{}, err
	}
	p, err := pgutil.FetchPage(ctx, pgutil.Conn(ctx, r.pool), q, scanUser)
	if err != nil {
		r.logger.Error().Err(err).Msg("list users")
		return p, pgutil.Translate(err, "users")
	}
	return p, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, err := scanUser(pgutil.Conn(ctx, r.pool).QueryRow(ctx, selectUser+`WHERE u.id = $1`, id))
	if err != nil {
		return nil, pgutil.Translate(err, fmt.Sprintf("user %d", id))
	}
	return &u, nil
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := scanUser(pgutil.Conn(ctx, r.pool).QueryRow(ctx, selectUser+`WHERE lower(u.email) = lower($1) LIMIT 1`, email))
	if err != nil {
		return nil, pgutil.Translate(err, "user")
	}
	return &u, nil
}

func (r *postgresRepo) Create(ctx context.Context, u *domain.User) error {
	const q = `
INSERT INTO users (name, email, phone, password_hash, role, state_id, country_id, customer_admin_id,
                   created_at, updated_at, created_by, last_modified_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING id
`
	err := pgutil.Conn(ctx, r.pool).QueryRow(ctx, q,
		u.Name, strings.ToLower(u.Email), u.Phone, u.PasswordHash, string(u.Role),
		u.StateID, u.CountryID, u.CustomerAdminID,
		u.CreatedAt, u.UpdatedAt, u.CreatedBy, u.LastModifiedBy,
	).Scan(&u.ID)
	if err != nil {
		r.logger.Warn().Err(err).Str("email", u.Email).Msg("create user")
		return pgutil.Translate(err, "user "+u.Email)
	}
	return nil
}

func (r *postgresRepo) Update(ctx context.Context, u *domain.User) error {
	const q = `
UPDATE users
SET name = $2, email = $3, phone = $4, password_hash = $5, role = $6, state_id = $7, country_id = $8,
    customer_admin_id = $9, updated_at = $10, last_modified_by = $11
WHERE id = $1
`
	tag, err := pgutil.Conn(ctx, r.pool).Exec(ctx, q,
		u.ID, u.Name, strings.ToLower(u.Email), u.Phone, u.PasswordHash, string(u.Role),
		u.StateID, u.CountryID, u.CustomerAdminID, u.UpdatedAt, u.LastModifiedBy,
	)
	return pgutil.Affected(tag, err, fmt.Sprintf("user %d", u.ID))
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) error {
	tag, err := pgutil.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return pgutil.Affected(tag, err, fmt.Sprintf("user %d", id))
}
