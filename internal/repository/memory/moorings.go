package memory

import (
	"context"
	"sort"
	"strings"

	"marinaops/internal/domain"
	"marinaops/internal/filter"
	"marinaops/internal/page"
	inventoryrepo "marinaops/internal/repository/inventory"
	mooringrepo "marinaops/internal/repository/mooring"
)

// Moorings implements the mooring repository.
type Moorings struct{ s *Store }

var _ mooringrepo.Repository = Moorings{}

func (s *Store) Moorings() Moorings { return Moorings{s} }

func (r Moorings) row(m domain.Mooring) values {
	v := values{
		"m.id":             m.ID,
		"m.mooring_number": m.MooringNumber,
		"m.boat_name":      m.BoatName,
		"m.boat_type":      m.BoatType,
		"m.status":         m.Status,
		"m.customer_id":    deref(m.CustomerID),
		"m.boatyard_id":    deref(m.BoatyardID),
		"m.owner_id":       m.OwnerID,
		"m.created_at":     m.CreatedAt,
	}
	if m.CustomerID != nil {
		if c, ok := r.s.customers[*m.CustomerID]; ok {
			v["c.first_name"], v["c.last_name"] = c.FirstName, c.LastName
		}
	}
	if m.BoatyardID != nil {
		if b, ok := r.s.boatyards[*m.BoatyardID]; ok {
			v["b.name"] = b.Name
		}
	}
	if m.ServiceAreaID != nil {
		if a, ok := r.s.areas[*m.ServiceAreaID]; ok {
			v["sa.name"] = a.Name
		}
	}
	return v
}

func (r Moorings) List(_ context.Context, where filter.Predicate, req page.Request) (page.Page[domain.Mooring], error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return list(mooringrepo.Entity, r.s.moorings, where, req, r.row)
}

func (r Moorings) GetByID(_ context.Context, id int64) (*domain.Mooring, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.moorings[id]
	if !ok {
		return nil, notFound("mooring", id)
	}
	return &m, nil
}

func (r Moorings) ListByParent(_ context.Context, parent domain.MooringParent, parentID int64) ([]domain.Mooring, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.Mooring, 0)
	for _, m := range r.s.moorings {
		if p := m.ParentID(parent); p != nil && *p == parentID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r Moorings) NumberTaken(_ context.Context, ownerID int64, number string, exceptID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.numberTaken(ownerID, number, exceptID), nil
}

func (r Moorings) numberTaken(ownerID int64, number string, exceptID int64) bool {
	for _, m := range r.s.moorings {
		if m.ID != exceptID && m.OwnerID == ownerID && strings.EqualFold(m.MooringNumber, number) {
			return true
		}
	}
	return false
}

func (r Moorings) checkParents(m *domain.Mooring) error {
	if m.BoatyardID != nil && m.ServiceAreaID != nil {
		return domain.Invalidf("mooring cannot belong to a boatyard and a service area")
	}
	if m.CustomerID != nil {
		if _, ok := r.s.customers[*m.CustomerID]; !ok {
			return fkViolation("customer", *m.CustomerID)
		}
	}
	if m.BoatyardID != nil {
		if _, ok := r.s.boatyards[*m.BoatyardID]; !ok {
			return fkViolation("boatyard", *m.BoatyardID)
		}
	}
	if m.ServiceAreaID != nil {
		if _, ok := r.s.areas[*m.ServiceAreaID]; !ok {
			return fkViolation("service area", *m.ServiceAreaID)
		}
	}
	return nil
}

func (r Moorings) Create(_ context.Context, m *domain.Mooring) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.checkParents(m); err != nil {
		return err
	}
	if r.numberTaken(m.OwnerID, m.MooringNumber, 0) {
		return domain.Duplicatef("mooring %s already exists", m.MooringNumber)
	}
	m.ID = r.s.nextID()
	r.s.moorings[m.ID] = *m
	return nil
}

func (r Moorings) Update(_ context.Context, m *domain.Mooring) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.moorings[m.ID]; !ok {
		return notFound("mooring", m.ID)
	}
	if err := r.checkParents(m); err != nil {
		return err
	}
	if r.numberTaken(m.OwnerID, m.MooringNumber, m.ID) {
		return domain.Duplicatef("mooring %s already exists", m.MooringNumber)
	}
	r.s.moorings[m.ID] = *m
	return nil
}

func (r Moorings) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.moorings[id]; !ok {
		return notFound("mooring", id)
	}
	r.s.dropMooring(id)
	return nil
}

func (r Moorings) DeleteByParent(_ context.Context, parent domain.MooringParent, parentID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, m := range r.s.moorings {
		if p := m.ParentID(parent); p != nil && *p == parentID {
			r.s.dropMooring(id)
			n++
		}
	}
	return n, nil
}

// Inventory implements the inventory repository. Items take their owner
// from the vendor, as the Postgres join does.
type Inventory struct{ s *Store }

var _ inventoryrepo.Repository = Inventory{}

func (s *Store) Inventory() Inventory { return Inventory{s} }

func (r Inventory) withOwner(it domain.Inventory) domain.Inventory {
	it.OwnerID = r.s.vendors[it.VendorID].OwnerID
	return it
}

func (r Inventory) row(it domain.Inventory) values {
	v := r.s.vendors[it.VendorID]
	return values{
		"i.id":               it.ID,
		"i.item_name":        it.ItemName,
		"i.cost_cents":       it.CostCents,
		"i.sale_price_cents": it.SalePriceCents,
		"i.quantity":         it.Quantity,
		"i.created_at":       it.CreatedAt,
		"v.owner_id":         v.OwnerID,
		"v.company_name":     v.CompanyName,
		"it.name":            r.s.lookupName(domain.LookupInventoryType, it.InventoryTypeID),
	}
}

func (r Inventory) List(_ context.Context, where filter.Predicate, req page.Request) (page.Page[domain.Inventory], error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, err := list(inventoryrepo.Entity, r.s.inventory, where, req, r.row)
	for i := range p.Items {
		p.Items[i] = r.withOwner(p.Items[i])
	}
	return p, err
}

func (r Inventory) GetByID(_ context.Context, id int64) (*domain.Inventory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.inventory[id]
	if !ok {
		return nil, notFound("inventory item", id)
	}
	it = r.withOwner(it)
	return &it, nil
}

func (r Inventory) ListByVendor(_ context.Context, vendorID int64) ([]domain.Inventory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.Inventory, 0)
	for _, it := range r.s.inventory {
		if it.VendorID == vendorID {
			out = append(out, r.withOwner(it))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r Inventory) sameName(vendorID int64, name string, exceptID int64) (domain.Inventory, bool) {
	for _, it := range r.s.inventory {
		if it.ID != exceptID && it.VendorID == vendorID && strings.EqualFold(it.ItemName, name) {
			return it, true
		}
	}
	return domain.Inventory{}, false
}

func (r Inventory) Create(_ context.Context, it *domain.Inventory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.vendors[it.VendorID]; !ok {
		return fkViolation("vendor", it.VendorID)
	}
	if _, dup := r.sameName(it.VendorID, it.ItemName, 0); dup {
		return domain.Duplicatef("inventory item %s already exists", it.ItemName)
	}
	it.ID = r.s.nextID()
	r.s.inventory[it.ID] = *it
	return nil
}

func (r Inventory) Update(_ context.Context, it *domain.Inventory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.inventory[it.ID]; !ok {
		return notFound("inventory item", it.ID)
	}
	if _, ok := r.s.vendors[it.VendorID]; !ok {
		return fkViolation("vendor", it.VendorID)
	}
	if _, dup := r.sameName(it.VendorID, it.ItemName, it.ID); dup {
		return domain.Duplicatef("inventory item %s already exists", it.ItemName)
	}
	r.s.inventory[it.ID] = *it
	return nil
}

func (r Inventory) Upsert(_ context.Context, it *domain.Inventory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.vendors[it.VendorID]; !ok {
		return fkViolation("vendor", it.VendorID)
	}
	existing, ok := r.sameName(it.VendorID, it.ItemName, 0)
	if !ok {
		it.ID = r.s.nextID()
		r.s.inventory[it.ID] = *it
		return nil
	}
	existing.CostCents = it.CostCents
	existing.SalePriceCents = it.SalePriceCents
	existing.Taxable = it.Taxable
	existing.Quantity = it.Quantity
	if it.InventoryTypeID != nil {
		existing.InventoryTypeID = it.InventoryTypeID
	}
	existing.UpdatedAt = it.UpdatedAt
	existing.LastModifiedBy = it.LastModifiedBy
	r.s.inventory[existing.ID] = existing
	it.ID = existing.ID
	return nil
}

func (r Inventory) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.inventory[id]; !ok {
		return notFound("inventory item", id)
	}
	delete(r.s.inventory, id)
	return nil
}

func (r Inventory) DeleteByVendor(_ context.Context, vendorID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, it := range r.s.inventory {
		if it.VendorID == vendorID {
			delete(r.s.inventory, id)
			n++
		}
	}
	return n, nil
}
