package notification

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

func scanNotification(row pgx.Row) (domain.Notification, error) {
	var n domain.Notification
	err := row.Scan(&n.ID, &n.CreatedByID, &n.SentToID, &n.Message, &n.Read, &n.EntityType, &n.EntityID, &n.CreatedAt)
	return n, err
}

func (r *postgresRepo) List(ctx context.Context, where filter.Predicate, req page.Request) (page.Page[domain.Notification], error) {
	q, err := filter.NewQuery(Entity, where, req)
	if err != nil {
		return page.Page[domain.Notification]{}, err
	}
	p, err := pgutil.FetchPage(ctx, pgutil.Conn(ctx, r.pool), q, scanNotification)
	if err != nil {
		r.logger.Error().Err(err).Msg("list notifications")
		return p, pgutil.Translate(err, "notifications")
	}
	return p, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Notification, error) {
	q := `SELECT ` + strings.Join(Entity.Columns, ", ") + ` FROM notifications n WHERE n.id = $1`
	n, err := scanNotification(pgutil.Conn(ctx, r.pool).QueryRow(ctx, q, id))
	if err != nil {
		return nil, pgutil.Translate(err, fmt.Sprintf("notification %d", id))
	}
	return &n, nil
}

func (r *postgresRepo) Create(ctx context.Context, n *domain.Notification) error {
	const q = `
INSERT INTO notifications (created_by_id, sent_to_id, message, is_read, entity_type, entity_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id
`
	err := pgutil.Conn(ctx, r.pool).QueryRow(ctx, q,
		n.CreatedByID, n.SentToID, n.Message, n.Read, n.EntityType, n.EntityID, n.CreatedAt,
	).Scan(&n.ID)
	if err != nil {
		r.logger.Warn().Err(err).Int64("sentTo", n.SentToID).Msg("create notification")
		return pgutil.Translate(err, "notification")
	}
	return nil
}

func (r *postgresRepo) MarkRead(ctx context.Context, id int64) error {
	tag, err := pgutil.Conn(ctx, r.pool).Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1`, id)
	return pgutil.Affected(tag, err, fmt.Sprintf("notification %d", id))
}

func (r *postgresRepo) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := pgutil.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE sent_to_id = $1 AND NOT is_read`, userID).Scan(&n)
	if err != nil {
		return 0, pgutil.Translate(err, "notifications")
	}
	return n, nil
}
