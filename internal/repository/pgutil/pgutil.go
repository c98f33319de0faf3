// Package pgutil holds the pieces every Postgres repository shares:
// error translation, transaction propagation through the context and
// paged list queries built by the filter package.
package pgutil

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"marinaops/internal/domain"
	"marinaops/internal/filter"
	"marinaops/internal/page"
)

// DB is satisfied by *pgxpool.Pool and pgx.Tx.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Runner runs fn inside one transaction.
type Runner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

// Transactor starts pgx transactions and hands them to repositories
// through the context.
type Transactor struct {
	pool *pgxpool.Pool
}

func NewTransactor(pool *pgxpool.Pool) *Transactor {
	return &Transactor{pool: pool}
}

// WithinTx commits when fn returns nil and rolls back otherwise. Nested
// calls join the outer transaction.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}
	return pgx.BeginFunc(ctx, t.pool, func(tx pgx.Tx) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// NoTx runs fn directly. Used where no database is involved.
type NoTx struct{}

func (NoTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Conn returns the transaction carried by ctx, or pool.
func Conn(ctx context.Context, pool *pgxpool.Pool) DB {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return pool
}

// Translate maps pgx and Postgres errors onto domain errors. what names
// the record in messages, e.g. "boatyard 12".
func Translate(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NotFoundf("%s not found", what)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return &domain.Error{Kind: domain.KindDuplicate, Message: what + " already exists", Err: err}
		case "23503":
			return &domain.Error{Kind: domain.KindValidation, Message: what + " references a missing or still used record", Err: err}
		case "23514", "23502":
			return &domain.Error{Kind: domain.KindValidation, Message: what + " violates a constraint", Err: err}
		}
	}
	var derr *domain.Error
	if errors.As(err, &derr) {
		return err
	}
	return domain.Internal(what, err)
}

// FetchPage runs the count and the page query of q.
func FetchPage[T any](ctx context.Context, db DB, q filter.Query, scan func(pgx.Row) (T, error)) (page.Page[T], error) {
	countSQL, countArgs := q.Count()
	var total int64
	if err := db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return page.Page[T]{}, err
	}

	items := make([]T, 0)
	if total == 0 {
		return page.Page[T]{Items: items}, nil
	}

	selectSQL, args := q.Select()
	rows, err := db.Query(ctx, selectSQL, args...)
	if err != nil {
		return page.Page[T]{}, err
	}
	defer rows.Close()
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return page.Page[T]{}, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return page.Page[T]{}, err
	}
	return page.Page[T]{Items: items, Total: total}, nil
}

// Collect scans every row of a plain query.
func Collect[T any](ctx context.Context, db DB, sql string, args []any, scan func(pgx.Row) (T, error)) ([]T, error) {
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// Exists runs a SELECT EXISTS(...) query.
func Exists(ctx context.Context, db DB, sql string, args ...any) (bool, error) {
	var ok bool
	err := db.QueryRow(ctx, sql, args...).Scan(&ok)
	return ok, err
}

// Affected turns a zero-row update or delete into NotFound.
func Affected(tag pgconn.CommandTag, err error, what string) error {
	if err != nil {
		return Translate(err, what)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("%s not found", what)
	}
	return nil
}
