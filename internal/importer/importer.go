// Package importer loads vendor price lists into inventory.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"marinaops/internal/auth"
	"marinaops/internal/domain"
	"marinaops/internal/logging"
	"marinaops/internal/service/inventory"
)

// ItemWriter upserts one inventory item by vendor and item name.
type ItemWriter interface {
	Upsert(ctx context.Context, scope auth.Scope, p inventory.Patch) (*domain.Inventory, error)
}

// TypeResolver maps an inventory type name to its id; nil means unknown.
type TypeResolver interface {
	LookupID(ctx context.Context, kind domain.LookupKind, name string) (*int64, error)
}

// CSVImporter reads a price list with the columns
// itemName, cost, salePrice, taxable, quantity, inventoryType.
// Header names are matched case-insensitively; only itemName, cost and
// salePrice are mandatory.
type CSVImporter struct {
	reader   *csv.Reader
	items    ItemWriter
	types    TypeResolver
	scope    auth.Scope
	vendorID int64
	log      zerolog.Logger
}

func NewCSVImporter(r io.Reader, items ItemWriter, types TypeResolver, scope auth.Scope, vendorID int64, logger *zerolog.Logger) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader:   csvr,
		items:    items,
		types:    types,
		scope:    scope,
		vendorID: vendorID,
		log:      logging.OrNop(logger),
	}
}

// Run upserts every row and returns how many were written. It stops at the
// first invalid row; rows already written stay written.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, col := range []string{"itemname", "cost", "saleprice"} {
		if _, ok := index[col]; !ok {
			return 0, domain.Invalidf("price list is missing column %q", col)
		}
	}

	types := map[string]*int64{}
	imported := 0
	for line := 2; ; line++ {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row %d: %w", line, err)
		}
		if blank(record) {
			continue
		}

		p, typeName, err := i.parseRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("row %d: %w", line, err)
		}
		if typeName != "" {
			id, ok := types[strings.ToLower(typeName)]
			if !ok {
				if id, err = i.types.LookupID(ctx, domain.LookupInventoryType, typeName); err != nil {
					return imported, fmt.Errorf("row %d: resolve inventory type: %w", line, err)
				}
				if id == nil {
					return imported, fmt.Errorf("row %d: %w", line, domain.Invalidf("unknown inventory type %q", typeName))
				}
				types[strings.ToLower(typeName)] = id
			}
			p.InventoryTypeID = id
		}

		if _, err := i.items.Upsert(ctx, i.scope, p); err != nil {
			return imported, fmt.Errorf("row %d: upsert %q: %w", line, *p.ItemName, err)
		}
		imported++
	}

	i.log.Info().Int64("vendor", i.vendorID).Int("items", imported).Msg("price list imported")
	return imported, nil
}

func (i *CSVImporter) parseRow(record []string, index map[string]int) (inventory.Patch, string, error) {
	name := pick(record, index, "itemname")
	if name == "" {
		return inventory.Patch{}, "", domain.Invalidf("itemName is required")
	}
	cost, err := parseCents(pick(record, index, "cost"))
	if err != nil {
		return inventory.Patch{}, "", domain.Invalidf("cost: %v", err)
	}
	sale, err := parseCents(pick(record, index, "saleprice"))
	if err != nil {
		return inventory.Patch{}, "", domain.Invalidf("salePrice: %v", err)
	}

	vendor := i.vendorID
	p := inventory.Patch{
		ItemName:       &name,
		CostCents:      &cost,
		SalePriceCents: &sale,
		VendorID:       &vendor,
	}
	if v := pick(record, index, "taxable"); v != "" {
		taxable, err := parseBool(v)
		if err != nil {
			return inventory.Patch{}, "", domain.Invalidf("taxable: %v", err)
		}
		p.Taxable = &taxable
	}
	if v := pick(record, index, "quantity"); v != "" {
		qty, err := strconv.Atoi(v)
		if err != nil {
			return inventory.Patch{}, "", domain.Invalidf("quantity %q is not a whole number", v)
		}
		p.Quantity = &qty
	}
	return p, pick(record, index, "inventorytype"), nil
}

// parseCents reads a decimal money amount such as "12.5", "$1,250.00" or
// "7" into cents.
func parseCents(s string) (int64, error) {
	s = strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(s))
	if s == "" {
		return 0, errors.New("amount is required")
	}
	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) > 2 {
		return 0, fmt.Errorf("%q has more than two decimals", s)
	}
	frac += strings.Repeat("0", 2-len(frac))
	if whole == "" {
		whole = "0"
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units < 0 {
		return 0, fmt.Errorf("%q is not an amount", s)
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil || cents < 0 {
		return 0, fmt.Errorf("%q is not an amount", s)
	}
	return units*100 + cents, nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	}
	return strconv.ParseBool(s)
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
