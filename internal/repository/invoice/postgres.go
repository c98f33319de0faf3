package invoice

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

var selectInvoice = `SELECT ` + strings.Join(Invoices.Columns, ", ") + ` FROM invoices inv `

func scanInvoice(row pgx.Row) (domain.Invoice, error) {
	var inv domain.Invoice
	err := row.Scan(
		&inv.ID, &inv.AmountCents, &inv.StatusID, &inv.WorkOrderID, &inv.OwnerID,
		&inv.CreatedAt, &inv.UpdatedAt, &inv.CreatedBy, &inv.LastModifiedBy,
	)
	return inv, err
}

func (r *postgresRepo) List(ctx context.Context, where filter.Predicate, req page.Request) (page.Page[domain.Invoice], error) {
	q, err := filter.NewQuery(Invoices, where, req)
	if err != nil {
		return page.Page[domain.Invoice]{}, err
	}
	p, err := pgutil.FetchPage(ctx, pgutil.Conn(ctx, r.pool), q, scanInvoice)
	if err != nil {
		r.logger.Error().Err(err).Msg("list invoices")
		return p, pgutil.Translate(err, "invoices")
	}
	return p, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	inv, err := scanInvoice(pgutil.Conn(ctx, r.pool).QueryRow(ctx, selectInvoice+`WHERE inv.id = $1`, id))
	if err != nil {
		return nil, pgutil.Translate(err, fmt.Sprintf("invoice %d", id))
	}
	return &inv, nil
}

func (r *postgresRepo) GetForUpdate(ctx context.Context, id int64) (*domain.Invoice, error) {
	inv, err := scanInvoice(pgutil.Conn(ctx, r.pool).QueryRow(ctx, selectInvoice+`WHERE inv.id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, pgutil.Translate(err, fmt.Sprintf("invoice %d", id))
	}
	return &inv, nil
}

func (r *postgresRepo) Create(ctx context.Context, inv *domain.Invoice) error {
	const q = `
INSERT INTO invoices (amount_cents, status_id, work_order_id, owner_id, created_at, updated_at, created_by, last_modified_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id
`
	err := pgutil.Conn(ctx, r.pool).QueryRow(ctx, q,
		inv.AmountCents, inv.StatusID, inv.WorkOrderID, inv.OwnerID,
		inv.CreatedAt, inv.UpdatedAt, inv.CreatedBy, inv.LastModifiedBy,
	).Scan(&inv.ID)
	if err != nil {
		r.logger.Warn().Err(err).Int64("workOrder", inv.WorkOrderID).Msg("create invoice")
		return pgutil.Translate(err, "invoice")
	}
	return nil
}

func (r *postgresRepo) Update(ctx context.Context, inv *domain.Invoice) error {
	const q = `
UPDATE invoices
SET amount_cents = $2, status_id = $3, work_order_id = $4, updated_at = $5, last_modified_by = $6
WHERE id = $1
`
	tag, err := pgutil.Conn(ctx, r.pool).Exec(ctx, q,
		inv.ID, inv.AmountCents, inv.StatusID, inv.WorkOrderID, inv.UpdatedAt, inv.LastModifiedBy)
	return pgutil.Affected(tag, err, fmt.Sprintf("invoice %d", inv.ID))
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) error {
	tag, err := pgutil.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	return pgutil.Affected(tag, err, fmt.Sprintf("invoice %d", id))
}

type paymentRepo struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPaymentPostgres returns a PaymentRepository backed by Postgres.
func NewPaymentPostgres(pool *pgxpool.Pool, logger *zerolog.Logger) PaymentRepository {
	return &paymentRepo{pool: pool, logger: logging.OrNop(logger)}
}

var selectPayment = `SELECT ` + strings.Join(Payments.Columns, ", ") + ` FROM payments p `

func scanPayment(row pgx.Row) (domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(
		&p.ID, &p.AmountCents, &p.PaymentType, &p.StatusID, &p.InvoiceID, &p.OwnerID,
		&p.CreatedAt, &p.UpdatedAt, &p.CreatedBy, &p.LastModifiedBy,
	)
	return p, err
}

func (r *paymentRepo) List(ctx context.Context, where filter.Predicate, req page.Request) (page.Page[domain.Payment], error) {
	q, err := filter.NewQuery(Payments, where, req)
	if err != nil {
		return page.Page[domain.Payment]{}, err
	}
	p, err := pgutil.FetchPage(ctx, pgutil.Conn(ctx, r.pool), q, scanPayment)
	if err != nil {
		r.logger.Error().Err(err).Msg("list payments")
		return p, pgutil.Translate(err, "payments")
	}
	return p, nil
}

func (r *paymentRepo) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	p, err := scanPayment(pgutil.Conn(ctx, r.pool).QueryRow(ctx, selectPayment+`WHERE p.id = $1`, id))
	if err != nil {
		return nil, pgutil.Translate(err, fmt.Sprintf("payment %d", id))
	}
	return &p, nil
}

func (r *paymentRepo) PaidCents(ctx context.Context, invoiceID int64) (int64, error) {
	var sum int64
	err := pgutil.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM payments WHERE invoice_id = $1`, invoiceID).Scan(&sum)
	if err != nil {
		return 0, pgutil.Translate(err, "payments")
	}
	return sum, nil
}

func (r *paymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	const q = `
INSERT INTO payments (amount_cents, payment_type, status_id, invoice_id, owner_id, created_at, updated_at, created_by, last_modified_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id
`
	err := pgutil.Conn(ctx, r.pool).QueryRow(ctx, q,
		p.AmountCents, p.PaymentType, p.StatusID, p.InvoiceID, p.OwnerID,
		p.CreatedAt, p.UpdatedAt, p.CreatedBy, p.LastModifiedBy,
	).Scan(&p.ID)
	if err != nil {
		r.logger.Warn().Err(err).Int64("invoice", p.InvoiceID).Msg("create payment")
		return pgutil.Translate(err, "payment")
	}
	return nil
}

func (r *paymentRepo) Update(ctx context.Context, p *domain.Payment) error {
	const q = `
UPDATE payments
SET amount_cents = $2, payment_type = $3, status_id = $4, updated_at = $5, last_modified_by = $6
WHERE id = $1
`
	tag, err := pgutil.Conn(ctx, r.pool).Exec(ctx, q,
		p.ID, p.AmountCents, p.PaymentType, p.StatusID, p.UpdatedAt, p.LastModifiedBy)
	return pgutil.Affected(tag, err, fmt.Sprintf("payment %d", p.ID))
}

func (r *paymentRepo) Delete(ctx context.Context, id int64) error {
	tag, err := pgutil.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	return pgutil.Affected(tag, err, fmt.Sprintf("payment %d", id))
}
