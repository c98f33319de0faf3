package inventory

import (
	"context"
	"errors"
	"testing"

	"marinaops/internal/auth"
	"marinaops/internal/domain"
	"marinaops/internal/page"
	"marinaops/internal/repository/memory"
	"marinaops/internal/service/reference"
)

func strPtr(v string) *string { return &v }
func idPtr(v int64) *int64    { return &v }

func TestInventoryRules(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	a := store.AddUser(domain.User{Email: "a@example.com", Role: domain.RoleOwner})
	b := store.AddUser(domain.User{Email: "b@example.com", Role: domain.RoleOwner})
	hardware := store.AddLookup(domain.LookupInventoryType, "Hardware")
	vendor := &domain.Vendor{CompanyName: "Chains Inc", OwnerID: a}
	if err := store.Vendors().Create(ctx, vendor); err != nil {
		t.Fatalf("seed vendor: %v", err)
	}
	svc := New(store.Inventory(), store.Vendors(), reference.New(store.References()), nil)
	scopeA := auth.Owned(auth.Caller{UserID: a, Email: "a@example.com", Role: domain.RoleOwner}, a)
	scopeB := auth.Owned(auth.Caller{UserID: b, Email: "b@example.com", Role: domain.RoleOwner}, b)

	p := Patch{
		ItemName:        strPtr("Galvanized shackle"),
		CostCents:       idPtr(1250),
		SalePriceCents:  idPtr(1999),
		InventoryTypeID: idPtr(hardware),
		VendorID:        idPtr(vendor.ID),
	}
	if _, err := svc.Create(ctx, scopeB, p); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("vendor outside scope must be rejected, got %v", err)
	}
	neg := p
	neg.CostCents = idPtr(-1)
	if _, err := svc.Create(ctx, scopeA, neg); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("negative cost must be rejected, got %v", err)
	}
	noPrice := p
	noPrice.SalePriceCents = nil
	if _, err := svc.Create(ctx, scopeA, noPrice); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("sale price is required, got %v", err)
	}

	it, err := svc.Create(ctx, scopeA, p)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if it.OwnerID != a {
		t.Fatalf("owner should come from the vendor, got %d", it.OwnerID)
	}

	got, err := svc.List(ctx, scopeA, page.Request{SearchText: "$12.50"})
	if err != nil || got.Total != 1 {
		t.Fatalf("cost in dollars should match, got %d (%v)", got.Total, err)
	}
	got, _ = svc.List(ctx, scopeA, page.Request{SearchText: "hardware"})
	if got.Total != 1 {
		t.Fatalf("inventory type should be searchable, got %d", got.Total)
	}
	got, _ = svc.List(ctx, scopeB, page.Request{})
	if got.Total != 0 {
		t.Fatalf("owner B must not see owner A inventory, got %d", got.Total)
	}

	qty := 12
	up, err := svc.Update(ctx, scopeA, it.ID, Patch{Quantity: &qty})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if up.CostCents != 1250 || up.Quantity != 12 {
		t.Fatalf("unexpected item %+v", up)
	}

	again := p
	again.ItemName = strPtr("GALVANIZED SHACKLE")
	again.CostCents = idPtr(1300)
	if _, err := svc.Upsert(ctx, scopeA, again); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	items, err := svc.ListByVendor(ctx, scopeA, vendor.ID)
	if err != nil || len(items) != 1 || items[0].CostCents != 1300 {
		t.Fatalf("upsert should update in place, got %+v (%v)", items, err)
	}
}
