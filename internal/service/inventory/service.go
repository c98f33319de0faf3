// Package inventory manages the items vendors sell. An item belongs to
// the customer owner of its vendor.
package inventory

import (
	"context"

	"github.com/rs/zerolog"

	"marinaops/internal/auth"
	"marinaops/internal/domain"
	"marinaops/internal/filter"
	"marinaops/internal/logging"
	"marinaops/internal/page"
	inventoryrepo "marinaops/internal/repository/inventory"
	"marinaops/internal/service/crud"
	"marinaops/internal/service/reference"
	"marinaops/internal/validate"
)

type vendorRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Vendor, error)
}

type Service struct {
	repo    inventoryrepo.Repository
	vendors vendorRepo
	refs    *reference.Service
	clock   crud.Clock
	logger  zerolog.Logger
}

func New(repo inventoryrepo.Repository, vendors vendorRepo, refs *reference.Service, logger *zerolog.Logger) *Service {
	return &Service{repo: repo, vendors: vendors, refs: refs, logger: logging.OrNop(logger)}
}

// Patch carries the fields of a create or update request. Money is in cents.
type Patch struct {
	ItemName        *string `json:"itemName"`
	CostCents       *int64  `json:"costCents"`
	SalePriceCents  *int64  `json:"salePriceCents"`
	Taxable         *bool   `json:"taxable"`
	Quantity        *int    `json:"quantity"`
	InventoryTypeID *int64  `json:"inventoryTypeId"`
	VendorID        *int64  `json:"vendorId"`
}

func (p Patch) apply(it *domain.Inventory) {
	crud.SetString(&it.ItemName, p.ItemName)
	crud.Set(&it.CostCents, p.CostCents)
	crud.Set(&it.SalePriceCents, p.SalePriceCents)
	crud.Set(&it.Taxable, p.Taxable)
	crud.Set(&it.Quantity, p.Quantity)
	crud.SetRef(&it.InventoryTypeID, p.InventoryTypeID)
	crud.Set(&it.VendorID, p.VendorID)
}

func (s *Service) List(ctx context.Context, scope auth.Scope, req page.Request) (page.Page[domain.Inventory], error) {
	return s.repo.List(ctx, filter.Scoped(inventoryrepo.Entity, scope, req.SearchText), req)
}

// ListByVendor returns every item of a vendor in scope.
func (s *Service) ListByVendor(ctx context.Context, scope auth.Scope, vendorID int64) ([]domain.Inventory, error) {
	if _, err := s.vendor(ctx, scope, vendorID); err != nil {
		return nil, err
	}
	return s.repo.ListByVendor(ctx, vendorID)
}

func (s *Service) Get(ctx context.Context, scope auth.Scope, id int64) (*domain.Inventory, error) {
	return crud.Fetch(ctx, scope, id, s.repo.GetByID, func(it *domain.Inventory) int64 { return it.OwnerID })
}

func (s *Service) Create(ctx context.Context, scope auth.Scope, p Patch) (*domain.Inventory, error) {
	if err := required(p); err != nil {
		return nil, err
	}
	it := &domain.Inventory{}
	if err := s.save(ctx, scope, it, p); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *Service) Update(ctx context.Context, scope auth.Scope, id int64, p Patch) (*domain.Inventory, error) {
	it, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, scope, it, p); err != nil {
		return nil, err
	}
	return it, nil
}

// Upsert creates the item or overwrites the vendor's item of the same
// name. It backs price-list imports.
func (s *Service) Upsert(ctx context.Context, scope auth.Scope, p Patch) (*domain.Inventory, error) {
	if err := required(p); err != nil {
		return nil, err
	}
	it := &domain.Inventory{}
	if err := s.check(ctx, scope, it, p); err != nil {
		return nil, err
	}
	it.Stamp(scope.Actor(), s.clock.Now())
	if err := s.repo.Upsert(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *Service) Delete(ctx context.Context, scope auth.Scope, id int64) error {
	if _, err := s.Get(ctx, scope, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) save(ctx context.Context, scope auth.Scope, it *domain.Inventory, p Patch) error {
	if err := s.check(ctx, scope, it, p); err != nil {
		return err
	}
	it.Stamp(scope.Actor(), s.clock.Now())
	if it.ID == 0 {
		return s.repo.Create(ctx, it)
	}
	return s.repo.Update(ctx, it)
}

// check validates the supplied fields, applies them and resolves the
// vendor, which must be in scope.
func (s *Service) check(ctx context.Context, scope auth.Scope, it *domain.Inventory, p Patch) error {
	if p.ItemName != nil {
		if err := validate.Required("itemName", *p.ItemName); err != nil {
			return err
		}
	}
	if p.CostCents != nil {
		if err := validate.NonNegative("costCents", *p.CostCents); err != nil {
			return err
		}
	}
	if p.SalePriceCents != nil {
		if err := validate.NonNegative("salePriceCents", *p.SalePriceCents); err != nil {
			return err
		}
	}
	if p.Quantity != nil {
		if err := validate.NonNegative("quantity", int64(*p.Quantity)); err != nil {
			return err
		}
	}
	p.apply(it)
	if err := s.refs.CheckLookup(ctx, domain.LookupInventoryType, it.InventoryTypeID); err != nil {
		return err
	}
	v, err := s.vendor(ctx, scope, it.VendorID)
	if err != nil {
		return err
	}
	it.OwnerID = v.OwnerID
	return nil
}

func (s *Service) vendor(ctx context.Context, scope auth.Scope, id int64) (*domain.Vendor, error) {
	v, err := crud.Fetch(ctx, scope, id, s.vendors.GetByID, func(v *domain.Vendor) int64 { return v.OwnerID })
	if domain.KindOf(err) == domain.KindNotFound {
		return nil, domain.Invalidf("vendor %d does not exist", id)
	}
	return v, err
}

func required(p Patch) error {
	if err := validate.Present("itemName", p.ItemName); err != nil {
		return err
	}
	switch {
	case p.CostCents == nil:
		return domain.Invalidf("costCents is required")
	case p.SalePriceCents == nil:
		return domain.Invalidf("salePriceCents is required")
	}
	return validate.PresentRef("vendorId", p.VendorID)
}
