// Package assemble turns domain records into response DTOs. References
// are resolved one level deep and memoised for the life of one Assembler,
// which serves exactly one response.
package assemble

import (
	"context"
	"errors"

	"marinaops/internal/domain"
)

// Getter loads one record by id.
type Getter[T any] interface {
	GetByID(ctx context.Context, id int64) (*T, error)
}

type References interface {
	GetState(ctx context.Context, id int64) (*domain.State, error)
	GetCountry(ctx context.Context, id int64) (*domain.Country, error)
	GetLookup(ctx context.Context, kind domain.LookupKind, id int64) (*domain.Lookup, error)
}

type Moorings interface {
	Getter[domain.Mooring]
	ListByParent(ctx context.Context, parent domain.MooringParent, parentID int64) ([]domain.Mooring, error)
}

type Inventory interface {
	ListByVendor(ctx context.Context, vendorID int64) ([]domain.Inventory, error)
}

type Jobs interface {
	GetByID(ctx context.Context, kind domain.JobKind, id int64) (*domain.Job, error)
}

// Source is where nested references are read from.
type Source struct {
	Refs         References
	Users        Getter[domain.User]
	Customers    Getter[domain.Customer]
	Boatyards    Getter[domain.Boatyard]
	ServiceAreas Getter[domain.ServiceArea]
	Vendors      Getter[domain.Vendor]
	Moorings     Moorings
	Inventory    Inventory
	Jobs         Jobs
	Invoices     Getter[domain.Invoice]
}

type lookupKey struct {
	kind domain.LookupKind
	id   int64
}

// Assembler is not safe for concurrent use. Build one per response.
type Assembler struct {
	src Source
	err error

	states       map[int64]*StateResponse
	countries    map[int64]*CountryResponse
	lookups      map[lookupKey]*LookupResponse
	users        map[int64]*UserRef
	customers    map[int64]*CustomerRef
	boatyards    map[int64]*BoatyardRef
	serviceAreas map[int64]*ServiceAreaRef
	vendors      map[int64]*VendorRef
	moorings     map[int64]*MooringRef
	jobs         map[int64]*JobRef
	invoices     map[int64]*InvoiceRef
}

func New(src Source) *Assembler {
	return &Assembler{
		src:          src,
		states:       map[int64]*StateResponse{},
		countries:    map[int64]*CountryResponse{},
		lookups:      map[lookupKey]*LookupResponse{},
		users:        map[int64]*UserRef{},
		customers:    map[int64]*CustomerRef{},
		boatyards:    map[int64]*BoatyardRef{},
		serviceAreas: map[int64]*ServiceAreaRef{},
		vendors:      map[int64]*VendorRef{},
		moorings:     map[int64]*MooringRef{},
		jobs:         map[int64]*JobRef{},
		invoices:     map[int64]*InvoiceRef{},
	}
}

// resolve loads key through get at most once per Assembler. A reference
// to a missing row renders as nil. Other failures are latched in a.err.
func resolve[K comparable, T, R any](ctx context.Context, a *Assembler, memo map[K]*R, key K, get func(context.Context, K) (*T, error), conv func(*T) *R) *R {
	if a.err != nil {
		return nil
	}
	if r, ok := memo[key]; ok {
		return r
	}
	rec, err := get(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		memo[key] = nil
		return nil
	}
	if err != nil {
		a.err = err
		return nil
	}
	r := conv(rec)
	memo[key] = r
	return r
}

func (a *Assembler) stateRef(ctx context.Context, id *int64) *StateResponse {
	if id == nil || a.src.Refs == nil {
		return nil
	}
	return resolve(ctx, a, a.states, *id, a.src.Refs.GetState, func(s *domain.State) *StateResponse {
		return &StateResponse{ID: s.ID, Name: s.Name, Code: s.Code}
	})
}

func (a *Assembler) countryRef(ctx context.Context, id *int64) *CountryResponse {
	if id == nil || a.src.Refs == nil {
		return nil
	}
	return resolve(ctx, a, a.countries, *id, a.src.Refs.GetCountry, func(c *domain.Country) *CountryResponse {
		return &CountryResponse{ID: c.ID, Name: c.Name, Code: c.Code}
	})
}

func (a *Assembler) lookupRef(ctx context.Context, kind domain.LookupKind, id *int64) *LookupResponse {
	if id == nil || a.src.Refs == nil {
		return nil
	}
	get := func(ctx context.Context, k lookupKey) (*domain.Lookup, error) {
		return a.src.Refs.GetLookup(ctx, k.kind, k.id)
	}
	return resolve(ctx, a, a.lookups, lookupKey{kind, *id}, get, func(l *domain.Lookup) *LookupResponse {
		return &LookupResponse{ID: l.ID, Name: l.Name}
	})
}

func (a *Assembler) userRef(ctx context.Context, id *int64) *UserRef {
	if id == nil || a.src.Users == nil {
		return nil
	}
	return resolve(ctx, a, a.users, *id, a.src.Users.GetByID, func(u *domain.User) *UserRef {
		return &UserRef{ID: u.ID, Name: u.Name, Email: u.Email, Role: string(u.Role)}
	})
}

func (a *Assembler) customerRef(ctx context.Context, id *int64) *CustomerRef {
	if id == nil || a.src.Customers == nil {
		return nil
	}
	return resolve(ctx, a, a.customers, *id, a.src.Customers.GetByID, func(c *domain.Customer) *CustomerRef {
		return &CustomerRef{ID: c.ID, FirstName: c.FirstName, LastName: c.LastName, EmailAddress: c.Email}
	})
}

func (a *Assembler) boatyardRef(ctx context.Context, id *int64) *BoatyardRef {
	if id == nil || a.src.Boatyards == nil {
		return nil
	}
	return resolve(ctx, a, a.boatyards, *id, a.src.Boatyards.GetByID, func(b *domain.Boatyard) *BoatyardRef {
		return &BoatyardRef{ID: b.ID, BoatyardID: b.BoatyardID, BoatyardName: b.Name}
	})
}

func (a *Assembler) serviceAreaRef(ctx context.Context, id *int64) *ServiceAreaRef {
	if id == nil || a.src.ServiceAreas == nil {
		return nil
	}
	return resolve(ctx, a, a.serviceAreas, *id, a.src.ServiceAreas.GetByID, func(s *domain.ServiceArea) *ServiceAreaRef {
		return &ServiceAreaRef{ID: s.ID, ServiceAreaID: s.ServiceAreaID, ServiceAreaName: s.Name}
	})
}

func (a *Assembler) vendorRef(ctx context.Context, id int64) *VendorRef {
	if a.src.Vendors == nil {
		return nil
	}
	return resolve(ctx, a, a.vendors, id, a.src.Vendors.GetByID, func(v *domain.Vendor) *VendorRef {
		return &VendorRef{ID: v.ID, CompanyName: v.CompanyName}
	})
}

func (a *Assembler) mooringRef(ctx context.Context, id int64) *MooringRef {
	if a.src.Moorings == nil {
		return nil
	}
	return resolve(ctx, a, a.moorings, id, a.src.Moorings.GetByID, func(m *domain.Mooring) *MooringRef {
		return &MooringRef{ID: m.ID, MooringNumber: m.MooringNumber, BoatName: m.BoatName}
	})
}

func (a *Assembler) workOrderRef(ctx context.Context, id int64) *JobRef {
	if a.src.Jobs == nil {
		return nil
	}
	get := func(ctx context.Context, id int64) (*domain.Job, error) {
		return a.src.Jobs.GetByID(ctx, domain.JobWorkOrder, id)
	}
	return resolve(ctx, a, a.jobs, id, get, func(j *domain.Job) *JobRef {
		return &JobRef{ID: j.ID, Number: j.Number}
	})
}

func (a *Assembler) invoiceRef(ctx context.Context, id int64) *InvoiceRef {
	if a.src.Invoices == nil {
		return nil
	}
	return resolve(ctx, a, a.invoices, id, a.src.Invoices.GetByID, func(inv *domain.Invoice) *InvoiceRef {
		return &InvoiceRef{ID: inv.ID, AmountCents: inv.AmountCents}
	})
}

// children lists the moorings hanging off a parent, flattened to ids.
func (a *Assembler) children(ctx context.Context, parent domain.MooringParent, id int64) []MooringResponse {
	out := []MooringResponse{}
	if a.err != nil || a.src.Moorings == nil {
		return out
	}
	ms, err := a.src.Moorings.ListByParent(ctx, parent, id)
	if err != nil {
		a.err = err
		return out
	}
	for _, m := range ms {
		out = append(out, flatMooring(m))
	}
	return out
}

func (a *Assembler) inventoryCount(ctx context.Context, vendorID int64) int {
	if a.err != nil || a.src.Inventory == nil {
		return 0
	}
	items, err := a.src.Inventory.ListByVendor(ctx, vendorID)
	if err != nil {
		a.err = err
		return 0
	}
	return len(items)
}

func audit(d domain.Audit) Audit {
	return Audit{CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt, CreatedBy: d.CreatedBy, LastModifiedBy: d.LastModifiedBy}
}

// many applies one to every item and reports the first failure.
func many[T, R any](ctx context.Context, a *Assembler, items []T, one func(context.Context, T) R) ([]R, error) {
	out := make([]R, 0, len(items))
	for _, it := range items {
		out = append(out, one(ctx, it))
		if a.err != nil {
			return nil, a.err
		}
	}
	return out, nil
}
