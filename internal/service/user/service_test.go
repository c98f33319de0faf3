package user

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"marinaops/internal/auth"
	"marinaops/internal/domain"
	"marinaops/internal/page"
	"marinaops/internal/repository/memory"
	"marinaops/internal/service/reference"
)

func strPtr(v string) *string { return &v }

type fixture struct {
	store  *memory.Store
	svc    *Service
	admin  auth.Scope
	ownerA int64
	ownerB int64
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.New()
	adminID := store.AddUser(domain.User{Name: "Admin", Email: "admin@example.com", Role: domain.RoleAdministrator})
	a := store.AddUser(domain.User{Name: "Alice", Email: "alice@example.com", Role: domain.RoleOwner})
	b := store.AddUser(domain.User{Name: "Bob", Email: "bob@example.com", Role: domain.RoleOwner})
	return fixture{
		store:  store,
		svc:    New(store.Users(), reference.New(store.References()), nil),
		admin:  auth.Unrestricted(auth.Caller{UserID: adminID, Email: "admin@example.com", Role: domain.RoleAdministrator}),
		ownerA: a,
		ownerB: b,
	}
}

func ownerScope(id int64) auth.Scope {
	return auth.Owned(auth.Caller{UserID: id, Email: "owner@example.com", Role: domain.RoleOwner}, id)
}

func TestCreateDelegateUnderOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	scope := ownerScope(f.ownerA)

	u, err := f.svc.Create(ctx, scope, Patch{
		Name:     strPtr("Tom"),
		Email:    strPtr("Tom@Example.com"),
		Password: strPtr("Sup3rSecret"),
		Role:     strPtr("technician"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.CustomerAdminID == nil || *u.CustomerAdminID != f.ownerA || u.Role != domain.RoleTechnician {
		t.Fatalf("unexpected user %+v", u)
	}
	if u.Email != "tom@example.com" {
		t.Fatalf("email should be lower-cased, got %q", u.Email)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("Sup3rSecret")) != nil {
		t.Fatalf("password not hashed with bcrypt")
	}

	_, err = f.svc.Create(ctx, scope, Patch{
		Name: strPtr("Eve"), Email: strPtr("eve@example.com"), Password: strPtr("Sup3rSecret"), Role: strPtr("OWNER"),
	})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("owners must not create owners, got %v", err)
	}

	_, err = f.svc.Create(ctx, scope, Patch{
		Name: strPtr("Tom2"), Email: strPtr("tom@example.com"), Password: strPtr("Sup3rSecret"), Role: strPtr("FINANCE"),
	})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected duplicate email, got %v", err)
	}
}

func TestListIsScopedToOwnerAndDelegates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.ownerA
	f.store.AddUser(domain.User{Name: "Tech A", Email: "ta@example.com", Role: domain.RoleTechnician, CustomerAdminID: &a})
	b := f.ownerB
	f.store.AddUser(domain.User{Name: "Tech B", Email: "tb@example.com", Role: domain.RoleTechnician, CustomerAdminID: &b})

	got, err := f.svc.List(ctx, ownerScope(a), page.Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Total != 2 {
		t.Fatalf("expected owner + delegate, got %d", got.Total)
	}
	for _, u := range got.Items {
		if u.ID != a && (u.CustomerAdminID == nil || *u.CustomerAdminID != a) {
			t.Fatalf("user %d leaked into owner %d scope", u.ID, a)
		}
	}

	all, err := f.svc.List(ctx, f.admin, page.Request{})
	if err != nil || all.Total != 5 {
		t.Fatalf("admin should see every user, got %d (%v)", all.Total, err)
	}

	if _, err := f.svc.Get(ctx, ownerScope(a), b); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestAdminCreatesOwnersOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Create(ctx, f.admin, Patch{
		Name: strPtr("Tech"), Email: strPtr("t@example.com"), Password: strPtr("Sup3rSecret"), Role: strPtr("TECHNICIAN"),
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	u, err := f.svc.Create(ctx, f.admin, Patch{
		Name: strPtr("Carol"), Email: strPtr("carol@example.com"), Password: strPtr("Sup3rSecret"), Role: strPtr("OWNER"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.CustomerAdminID != nil {
		t.Fatalf("owners report to nobody, got %v", *u.CustomerAdminID)
	}
}

func TestUpdateKeepsOmittedFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u, err := f.svc.Update(ctx, ownerScope(f.ownerA), f.ownerA, Patch{Phone: strPtr("555-0100")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Name != "Alice" || u.Email != "alice@example.com" || u.Phone != "555-0100" {
		t.Fatalf("unexpected user %+v", u)
	}
	if _, err := f.svc.Update(ctx, ownerScope(f.ownerA), f.ownerA, Patch{Role: strPtr("ADMINISTRATOR")}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized role change, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.ownerA
	tech := f.store.AddUser(domain.User{Name: "Tech", Email: "tech@example.com", Role: domain.RoleTechnician, CustomerAdminID: &a})

	if err := f.svc.Delete(ctx, ownerScope(a), a); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("self delete should fail, got %v", err)
	}
	if err := f.svc.Delete(ctx, ownerScope(a), tech); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.Get(ctx, f.admin, tech); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
