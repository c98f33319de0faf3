// Package seed loads reference data and the first administrator.
package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"marinaops/internal/domain"
)

// Execer is satisfied by *pgxpool.Pool and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Admin describes the administrator account to create. An empty Email
// skips it.
type Admin struct {
	Name     string
	Email    string
	Password string
}

type place struct{ name, code string }

var states = []place{
	{"Connecticut", "CT"},
	{"Florida", "FL"},
	{"Maine", "ME"},
	{"Maryland", "MD"},
	{"Massachusetts", "MA"},
	{"New Hampshire", "NH"},
	{"New Jersey", "NJ"},
	{"New York", "NY"},
	{"Rhode Island", "RI"},
	{"Washington", "WA"},
}

var countries = []place{
	{"United States", "US"},
	{"Canada", "CA"},
}

var lookups = map[domain.LookupKind][]string{
	domain.LookupInventoryType:   {"Hardware", "Chain", "Rope", "Tackle", "Labor"},
	domain.LookupServiceAreaType: {"Harbor", "Mooring Field", "River", "Open Water"},
	domain.LookupWorkOrderStatus: {domain.WorkOrderStatusOpen, "IN_PROGRESS", "ON_HOLD", "COMPLETED", "CLOSED"},
	domain.LookupPaymentStatus:   {domain.PaymentStatusUnpaid, domain.PaymentStatusPartial, domain.PaymentStatusPaid},
}

// lookupOrder fixes insert order so ids are stable across runs.
var lookupOrder = []domain.LookupKind{
	domain.LookupInventoryType,
	domain.LookupServiceAreaType,
	domain.LookupWorkOrderStatus,
	domain.LookupPaymentStatus,
}

// Apply inserts reference rows and the administrator. It is idempotent via
// ON CONFLICT; an existing administrator keeps its password.
func Apply(ctx context.Context, db Execer, admin Admin) error {
	for _, s := range states {
		if err := upsertPlace(ctx, db, "states", s); err != nil {
			return fmt.Errorf("seed state %s: %w", s.code, err)
		}
	}
	for _, c := range countries {
		if err := upsertPlace(ctx, db, "countries", c); err != nil {
			return fmt.Errorf("seed country %s: %w", c.code, err)
		}
	}
	for _, kind := range lookupOrder {
		for _, name := range lookups[kind] {
			q := fmt.Sprintf(`INSERT INTO %s (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, kind)
			if _, err := db.Exec(ctx, q, name); err != nil {
				return fmt.Errorf("seed %s %s: %w", kind, name, err)
			}
		}
	}
	if admin.Email == "" {
		return nil
	}
	if err := ensureAdmin(ctx, db, admin); err != nil {
		return fmt.Errorf("seed administrator: %w", err)
	}
	return nil
}

func upsertPlace(ctx context.Context, db Execer, table string, p place) error {
	q := fmt.Sprintf(`
INSERT INTO %s (name, code)
VALUES ($1, $2)
ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name
`, table)
	_, err := db.Exec(ctx, q, p.name, p.code)
	return err
}

func ensureAdmin(ctx context.Context, db Execer, admin Admin) error {
	if len(admin.Password) < 8 {
		return domain.Invalidf("administrator password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	name := admin.Name
	if name == "" {
		name = "Administrator"
	}
	const q = `
INSERT INTO users (name, email, password_hash, role, created_by, last_modified_by)
SELECT $1, $2, $3, $4, 'seed', 'seed'
WHERE NOT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($2))
`
	_, err = db.Exec(ctx, q, name, strings.TrimSpace(admin.Email), string(hash), string(domain.RoleAdministrator))
	return err
}
