package boatyard

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"marinaops/internal/auth"
	"marinaops/internal/domain"
	"marinaops/internal/page"
	"marinaops/internal/repository/memory"
	"marinaops/internal/repository/pgutil"
	"marinaops/internal/service/mooring"
	"marinaops/internal/service/reference"
)

func strPtr(v string) *string { return &v }
func idPtr(v int64) *int64    { return &v }

type fixture struct {
	store    *memory.Store
	svc      *Service
	moorings *mooring.Service
	state    int64
	country  int64
	ownerA   auth.Scope
	ownerB   auth.Scope
}

func newFixture() fixture {
	store := memory.New()
	a := store.AddUser(domain.User{Email: "a@example.com", Role: domain.RoleOwner})
	b := store.AddUser(domain.User{Email: "b@example.com", Role: domain.RoleOwner})
	moorings := mooring.New(store.Moorings(), store.Customers(), store.Boatyards(), store.ServiceAreas(), nil)
	return fixture{
		store:    store,
		svc:      New(store.Boatyards(), moorings, reference.New(store.References()), pgutil.NoTx{}, nil),
		moorings: moorings,
		state:    store.AddState("Rhode Island", "RI"),
		country:  store.AddCountry("United States", "US"),
		ownerA:   auth.Owned(auth.Caller{UserID: a, Email: "a@example.com", Role: domain.RoleOwner}, a),
		ownerB:   auth.Owned(auth.Caller{UserID: b, Email: "b@example.com", Role: domain.RoleOwner}, b),
	}
}

func (f fixture) patch(name string) Patch {
	return Patch{
		Name:           strPtr(name),
		Street:         strPtr("1 Wharf St"),
		StateID:        idPtr(f.state),
		CountryID:      idPtr(f.country),
		GPSCoordinates: strPtr("41.49 -71.31"),
		MainContact:    strPtr("Harbor master"),
	}
}

func TestCreateRequiresGPS(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.patch("Newport Yard")
	p.GPSCoordinates = nil
	if _, err := f.svc.Create(ctx, f.ownerA, p); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	p = f.patch("Newport Yard")
	p.GPSCoordinates = strPtr("200 200")
	if _, err := f.svc.Create(ctx, f.ownerA, p); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for bad gps, got %v", err)
	}
	p = f.patch("Newport Yard")
	p.StateID = idPtr(9999)
	if _, err := f.svc.Create(ctx, f.ownerA, p); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for unknown state, got %v", err)
	}
}

func TestCreateAssignsBusinessID(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b, err := f.svc.Create(ctx, f.ownerA, f.patch("Newport Yard"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !regexp.MustCompile(`^BY\d{3}$`).MatchString(b.BoatyardID) {
		t.Fatalf("unexpected business id %q", b.BoatyardID)
	}
	if b.CreatedBy != "a@example.com" || b.CreatedAt.IsZero() {
		t.Fatalf("audit columns not stamped: %+v", b.Audit)
	}
	got, err := f.svc.List(ctx, f.ownerA, page.Request{SearchText: b.BoatyardID})
	if err != nil || got.Total != 1 || got.Items[0].ID != b.ID {
		t.Fatalf("expected to find %s, got %+v (%v)", b.BoatyardID, got, err)
	}

	if _, err := f.svc.Create(ctx, f.ownerA, f.patch("newport yard")); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected duplicate name, got %v", err)
	}
	if _, err := f.svc.Create(ctx, f.ownerB, f.patch("Newport Yard")); err != nil {
		t.Fatalf("names are unique per owner only: %v", err)
	}
}

func TestCreateNeedsConcreteOwner(t *testing.T) {
	f := newFixture()
	admin := auth.Unrestricted(auth.Caller{UserID: 99, Role: domain.RoleAdministrator})
	if _, err := f.svc.Create(context.Background(), admin, f.patch("Yard")); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListIsScopedAndSearchable(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	for _, name := range []string{"Alpha Marine", "Beta Boats"} {
		if _, err := f.svc.Create(ctx, f.ownerA, f.patch(name)); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if _, err := f.svc.Create(ctx, f.ownerB, f.patch("Alpha Marine")); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := f.svc.List(ctx, f.ownerA, page.Request{SearchText: "MARINE"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Total != 1 || got.Items[0].Name != "Alpha Marine" || got.Items[0].OwnerID != f.ownerA.OwnerID() {
		t.Fatalf("unexpected page %+v", got)
	}
	got, _ = f.svc.List(ctx, f.ownerA, page.Request{SearchText: "rhode"})
	if got.Total != 2 {
		t.Fatalf("joined state name should match, got %d", got.Total)
	}
	got, _ = f.svc.List(ctx, f.ownerA, page.Request{SearchText: "zzz"})
	if got.Total != 0 {
		t.Fatalf("expected no match, got %d", got.Total)
	}

	admin := auth.Unrestricted(auth.Caller{UserID: 99, Role: domain.RoleAdministrator})
	got, _ = f.svc.List(ctx, admin, page.Request{})
	if got.Total != 3 {
		t.Fatalf("unrestricted scope should see all, got %d", got.Total)
	}
}

func TestPaging(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	for i := range 25 {
		if _, err := f.svc.Create(ctx, f.ownerA, f.patch(fmt.Sprintf("Yard %02d", i))); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	got, err := f.svc.List(ctx, f.ownerA, page.Request{PageNumber: 0, PageSize: 10, SortBy: "name", SortDir: "desc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Total != 25 || len(got.Items) != 10 {
		t.Fatalf("expected 10 of 25, got %d of %d", len(got.Items), got.Total)
	}
	if got.Items[0].Name != "Yard 24" || got.Items[9].Name != "Yard 15" {
		t.Fatalf("unexpected order: %s .. %s", got.Items[0].Name, got.Items[9].Name)
	}
}

func TestUpdateKeepsOmittedFields(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b, err := f.svc.Create(ctx, f.ownerA, f.patch("Yard"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	up, err := f.svc.Update(ctx, f.ownerA, b.ID, Patch{MainContact: strPtr("Dock office")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if up.GPSCoordinates != "41.49 -71.31" || up.Street != "1 Wharf St" || up.BoatyardID != b.BoatyardID {
		t.Fatalf("omitted fields changed: %+v", up)
	}
	if up.MainContact != "Dock office" {
		t.Fatalf("patch not applied: %+v", up)
	}
	if _, err := f.svc.Update(ctx, f.ownerB, b.ID, Patch{MainContact: strPtr("x")}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestDeleteCascadesToMoorings(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b, err := f.svc.Create(ctx, f.ownerA, f.patch("Yard"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for i := range 3 {
		_, err := f.moorings.Create(ctx, f.ownerA, mooring.Patch{
			MooringNumber: strPtr(fmt.Sprintf("M-%d", i)),
			BoatyardID:    idPtr(b.ID),
		})
		if err != nil {
			t.Fatalf("create mooring: %v", err)
		}
	}
	keep, err := f.moorings.Create(ctx, f.ownerA, mooring.Patch{MooringNumber: strPtr("M-other")})
	if err != nil {
		t.Fatalf("create mooring: %v", err)
	}

	if err := f.svc.Delete(ctx, f.ownerB, b.ID); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if err := f.svc.Delete(ctx, f.ownerA, b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	left, _ := f.moorings.ListByParent(ctx, domain.ParentBoatyard, b.ID)
	if len(left) != 0 {
		t.Fatalf("expected moorings to be deleted, %d left", len(left))
	}
	if _, err := f.moorings.Get(ctx, f.ownerA, keep.ID); err != nil {
		t.Fatalf("unrelated mooring deleted: %v", err)
	}
	if _, err := f.svc.Get(ctx, f.ownerA, b.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
