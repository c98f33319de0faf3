package servicearea

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

func TestServiceAreaLifecycle(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	ownerID := store.AddUser(domain.User{Email: "a@example.com", Role: domain.RoleOwner})
	otherID := store.AddUser(domain.User{Email: "b@example.com", Role: domain.RoleOwner})
	state := store.AddState("Maine", "ME")
	country := store.AddCountry("United States", "US")
	field := store.AddLookup(domain.LookupServiceAreaType, "Mooring field")
	moorings := mooring.New(store.Moorings(), store.Customers(), store.Boatyards(), store.ServiceAreas(), nil)
	svc := New(store.ServiceAreas(), moorings, reference.New(store.References()), pgutil.NoTx{}, nil)
	scope := auth.Owned(auth.Caller{UserID: ownerID, Email: "a@example.com", Role: domain.RoleOwner}, ownerID)
	other := auth.Owned(auth.Caller{UserID: otherID, Email: "b@example.com", Role: domain.RoleOwner}, otherID)

	p := Patch{
		Name:      strPtr("North Field"),
		TypeID:    idPtr(field),
		StateID:   idPtr(state),
		CountryID: idPtr(country),
		Notes:     strPtr("exposed to the east"),
	}
	if _, err := svc.Create(ctx, scope, p); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("gps is required on create, got %v", err)
	}
	p.GPSCoordinates = strPtr("43.66,-70.25")
	a, err := svc.Create(ctx, scope, p)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !regexp.MustCompile(`^SA\d{3}$`).MatchString(a.ServiceAreaID) {
		t.Fatalf("unexpected business id %q", a.ServiceAreaID)
	}

	badType := p
	badType.Name = strPtr("South Field")
	badType.TypeID = idPtr(4242)
	if _, err := svc.Create(ctx, scope, badType); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("unknown type should fail, got %v", err)
	}

	got, err := svc.List(ctx, scope, page.Request{SearchText: "mooring FIELD"})
	if err != nil || got.Total != 1 {
		t.Fatalf("type name should be searchable, got %d (%v)", got.Total, err)
	}
	got, _ = svc.List(ctx, other, page.Request{})
	if got.Total != 0 {
		t.Fatalf("other owner must not see the area, got %d", got.Total)
	}

	up, err := svc.Update(ctx, scope, a.ID, Patch{Name: strPtr("North Field 2")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if up.Notes != "exposed to the east" || up.TypeID == nil || *up.TypeID != field {
		t.Fatalf("omitted fields changed: %+v", up)
	}

	for i := range 4 {
		if _, err := moorings.Create(ctx, scope, mooring.Patch{
			MooringNumber: strPtr(fmt.Sprintf("N-%d", i)),
			ServiceAreaID: idPtr(a.ID),
		}); err != nil {
			t.Fatalf("create mooring: %v", err)
		}
	}
	if err := svc.Delete(ctx, scope, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	left, _ := moorings.List(ctx, scope, page.Request{})
	if left.Total != 0 {
		t.Fatalf("expected all 4 moorings deleted, %d left", left.Total)
	}
}
