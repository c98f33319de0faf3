package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"marinaops/internal/auth"
	"marinaops/internal/domain"
	"marinaops/internal/service/inventory"
)

type stubItemWriter struct {
	items []inventory.Patch
	fail  string
}

func (s *stubItemWriter) Upsert(_ context.Context, _ auth.Scope, p inventory.Patch) (*domain.Inventory, error) {
	if *p.ItemName == s.fail {
		return nil, domain.Invalidf("rejected")
	}
	s.items = append(s.items, p)
	return &domain.Inventory{ItemName: *p.ItemName}, nil
}

type stubTypes struct {
	ids   map[string]int64
	calls int
}

func (s *stubTypes) LookupID(_ context.Context, kind domain.LookupKind, name string) (*int64, error) {
	s.calls++
	if kind != domain.LookupInventoryType {
		return nil, errors.New("unexpected lookup kind")
	}
	id, ok := s.ids[name]
	if !ok {
		return nil, nil
	}
	return &id, nil
}

func ownerScope() auth.Scope {
	return auth.Owned(auth.Caller{UserID: 7, Role: domain.RoleOwner}, 7)
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := "ItemName,Cost,SalePrice,Taxable,Quantity,InventoryType\n" +
		"Chain 3/4in,\"$1,250.00\",1600.5,yes,4,Hardware\n" +
		"\n" +
		"Shackle,12,18.99,,,Hardware\n" +
		"Pennant,40.1,55,n,10,\n"

	writer := &stubItemWriter{}
	types := &stubTypes{ids: map[string]int64{"Hardware": 3}}
	imp := NewCSVImporter(strings.NewReader(csvData), writer, types, ownerScope(), 42, nil)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 3 || len(writer.items) != 3 {
		t.Fatalf("expected 3 items imported, got %d (%d saved)", count, len(writer.items))
	}

	chain := writer.items[0]
	if *chain.ItemName != "Chain 3/4in" || *chain.CostCents != 125000 || *chain.SalePriceCents != 160050 {
		t.Fatalf("unexpected chain row: %+v", chain)
	}
	if !*chain.Taxable || *chain.Quantity != 4 || *chain.InventoryTypeID != 3 || *chain.VendorID != 42 {
		t.Fatalf("unexpected chain details: %+v", chain)
	}
	if writer.items[1].Taxable != nil || writer.items[1].Quantity != nil {
		t.Fatalf("empty cells should leave fields unset: %+v", writer.items[1])
	}
	if writer.items[2].InventoryTypeID != nil || *writer.items[2].Taxable {
		t.Fatalf("unexpected pennant row: %+v", writer.items[2])
	}
	if types.calls != 1 {
		t.Fatalf("expected inventory type to be resolved once, got %d lookups", types.calls)
	}
}

func TestCSVImporter_RejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		csv  string
		want int
	}{
		{"missing column", "itemName,cost\nChain,1\n", 0},
		{"bad amount", "itemName,cost,salePrice\nChain,1,abc\n", 0},
		{"unknown type", "itemName,cost,salePrice,inventoryType\nChain,1,2,Rope\n", 0},
		{"stops at the failing row", "itemName,cost,salePrice\nChain,1,2\nBroken,1,2\nShackle,1,2\n", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			writer := &stubItemWriter{fail: "Broken"}
			imp := NewCSVImporter(strings.NewReader(tc.csv), writer, &stubTypes{}, ownerScope(), 1, nil)
			count, err := imp.Run(context.Background())
			if err == nil {
				t.Fatalf("expected an error")
			}
			if count != tc.want {
				t.Fatalf("expected %d rows written before the error, got %d", tc.want, count)
			}
		})
	}
}

func TestParseCents(t *testing.T) {
	cases := map[string]int64{
		"7":         700,
		"12.5":      1250,
		"0.99":      99,
		".5":        50,
		"$1,250.00": 125000,
	}
	for in, want := range cases {
		got, err := parseCents(in)
		if err != nil || got != want {
			t.Fatalf("parseCents(%q) = %d, %v; want %d", in, got, err, want)
		}
	}
	for _, in := range []string{"", "1.234", "-3", "abc"} {
		if _, err := parseCents(in); err == nil {
			t.Fatalf("parseCents(%q) should fail", in)
		}
	}
}
