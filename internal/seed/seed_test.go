package seed

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

type call struct {
	sql  string
	args []any
}

type recorder struct {
	calls  []call
	failOn string
}

func (r *recorder) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if r.failOn != "" && strings.Contains(sql, r.failOn) {
		return pgconn.CommandTag{}, errors.New("boom")
	}
	r.calls = append(r.calls, call{sql: sql, args: args})
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (r *recorder) into(table string) []call {
	var out []call
	for _, c := range r.calls {
		if strings.Contains(c.sql, "INSERT INTO "+table+" ") {
			out = append(out, c)
		}
	}
	return out
}

func TestApply_ReferenceDataAndAdmin(t *testing.T) {
	db := &recorder{}
	err := Apply(context.Background(), db, Admin{Email: " admin@marina.test ", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := len(db.into("states")); got != len(states) {
		t.Fatalf("expected %d states, got %d", len(states), got)
	}
	if got := len(db.into("countries")); got != len(countries) {
		t.Fatalf("expected %d countries, got %d", len(countries), got)
	}
	statuses := db.into("payment_statuses")
	if len(statuses) != 3 || statuses[0].args[0] != "UNPAID" {
		t.Fatalf("unexpected payment statuses: %+v", statuses)
	}

	users := db.into("users")
	if len(users) != 1 {
		t.Fatalf("expected one administrator insert, got %d", len(users))
	}
	args := users[0].args
	if args[0] != "Administrator" || args[1] != "admin@marina.test" || args[3] != "ADMINISTRATOR" {
		t.Fatalf("unexpected administrator args: %v", args)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(args[2].(string)), []byte("s3cret-pass")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestApply_SkipsAdminWithoutEmail(t *testing.T) {
	db := &recorder{}
	if err := Apply(context.Background(), db, Admin{}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(db.into("users")) != 0 {
		t.Fatalf("no administrator expected")
	}
}

func TestApply_Errors(t *testing.T) {
	if err := Apply(context.Background(), &recorder{}, Admin{Email: "a@b.c", Password: "short"}); err == nil {
		t.Fatalf("expected short password to be rejected")
	}
	err := Apply(context.Background(), &recorder{failOn: "work_order_statuses"}, Admin{})
	if err == nil || !strings.Contains(err.Error(), "work_order_statuses") {
		t.Fatalf("expected the failing table in the error, got %v", err)
	}
}
