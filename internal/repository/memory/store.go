// Package memory is an in-process implementation of every repository,
// used by service and HTTP tests. List queries evaluate the same filter
// predicates the Postgres repositories compile to SQL, and deletes follow
// the foreign-key rules of the schema.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"marinaops/internal/domain"
	"marinaops/internal/filter"
	"marinaops/internal/page"
)

// Store holds every table.
type Store struct {
	mu  sync.Mutex
	seq int64

	states        map[int64]domain.State
	countries     map[int64]domain.Country
	lookups       map[domain.LookupKind]map[int64]domain.Lookup
	users         map[int64]domain.User
	customers     map[int64]domain.Customer
	boatyards     map[int64]domain.Boatyard
	areas         map[int64]domain.ServiceArea
	moorings      map[int64]domain.Mooring
	vendors       map[int64]domain.Vendor
	inventory     map[int64]domain.Inventory
	jobs          map[domain.JobKind]map[int64]domain.Job
	invoices      map[int64]domain.Invoice
	payments      map[int64]domain.Payment
	notifications map[int64]domain.Notification
}

func New() *Store {
	return &Store{
		states:    make(map[int64]domain.State),
		countries: make(map[int64]domain.Country),
		lookups: map[domain.LookupKind]map[int64]domain.Lookup{
			domain.LookupInventoryType:   {},
			domain.LookupServiceAreaType: {},
			domain.LookupWorkOrderStatus: {},
			domain.LookupPaymentStatus:   {},
		},
		users:     make(map[int64]domain.User),
		customers: make(map[int64]domain.Customer),
		boatyards: make(map[int64]domain.Boatyard),
		areas:     make(map[int64]domain.ServiceArea),
		moorings:  make(map[int64]domain.Mooring),
		vendors:   make(map[int64]domain.Vendor),
		inventory: make(map[int64]domain.Inventory),
		jobs: map[domain.JobKind]map[int64]domain.Job{
			domain.JobWorkOrder: {},
			domain.JobEstimate:  {},
		},
		invoices:      make(map[int64]domain.Invoice),
		payments:      make(map[int64]domain.Payment),
		notifications: make(map[int64]domain.Notification),
	}
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

// AddState inserts a state and returns its id.
func (s *Store) AddState(name, code string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID()
	s.states[id] = domain.State{ID: id, Name: name, Code: code}
	return id
}

// AddCountry inserts a country and returns its id.
func (s *Store) AddCountry(name, code string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID()
	s.countries[id] = domain.Country{ID: id, Name: name, Code: code}
	return id
}

// AddLookup inserts a lookup row and returns its id.
func (s *Store) AddLookup(kind domain.LookupKind, name string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID()
	s.lookups[kind][id] = domain.Lookup{ID: id, Kind: kind, Name: name}
	return id
}

// AddUser inserts u as is and returns its id.
func (s *Store) AddUser(u domain.User) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = s.nextID()
	s.users[u.ID] = u
	return u.ID
}

func (s *Store) stateName(id *int64) any {
	if id == nil {
		return nil
	}
	if st, ok := s.states[*id]; ok {
		return st.Name
	}
	return nil
}

func (s *Store) countryName(id *int64) any {
	if id == nil {
		return nil
	}
	if c, ok := s.countries[*id]; ok {
		return c.Name
	}
	return nil
}

func (s *Store) lookupName(kind domain.LookupKind, id *int64) any {
	if id == nil {
		return nil
	}
	if l, ok := s.lookups[kind][*id]; ok {
		return l.Name
	}
	return nil
}

func deref(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}

func dateValue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

type values map[string]any

// list filters, sorts and pages items the way the SQL built by
// filter.Query would.
func list[T any](e *filter.Entity, items map[int64]T, where filter.Predicate, req page.Request, row func(T) values) (page.Page[T], error) {
	if _, err := filter.NewQuery(e, where, req); err != nil {
		return page.Page[T]{}, err
	}
	req = req.Normalize()
	sortExpr, _ := e.SortExpr(req.SortBy)
	idExpr := e.Col("id")

	type hit struct {
		item T
		vals values
	}
	var hits []hit
	for _, it := range items {
		vals := row(it)
		if filter.Match(where, func(expr string) any { return vals[expr] }) {
			hits = append(hits, hit{item: it, vals: vals})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		c := compare(hits[i].vals[sortExpr], hits[j].vals[sortExpr])
		if c != 0 {
			if req.Desc() {
				return c > 0
			}
			return c < 0
		}
		return compare(hits[i].vals[idExpr], hits[j].vals[idExpr]) < 0
	})

	out := page.Page[T]{Items: make([]T, 0), Total: int64(len(hits))}
	start := req.Offset()
	if start >= len(hits) {
		return out, nil
	}
	end := start + req.PageSize
	if end > len(hits) {
		end = len(hits)
	}
	for _, h := range hits[start:end] {
		out.Items = append(out.Items, h.item)
	}
	return out, nil
}

// compare orders values like Postgres does for the column types in use,
// NULLs last.
func compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	switch x := a.(type) {
	case int64:
		y, _ := b.(int64)
		return cmpOrdered(x, y)
	case int:
		y, _ := b.(int)
		return cmpOrdered(x, y)
	case string:
		y, _ := b.(string)
		return strings.Compare(x, y)
	case bool:
		y, _ := b.(bool)
		if x == y {
			return 0
		}
		if !x {
			return -1
		}
		return 1
	case time.Time:
		y, _ := b.(time.Time)
		return x.Compare(y)
	}
	return 0
}

func cmpOrdered[N int | int64](a, b N) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func notFound(what string, id int64) error {
	return domain.NotFoundf("%s %d not found", what, id)
}
