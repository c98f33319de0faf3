package memory

import (
	"context"
	"sort"
	"strings"

	"marinaops/internal/domain"
	referencerepo "marinaops/internal/repository/reference"
)

// References implements the reference repository.
type References struct{ s *Store }

var _ referencerepo.Repository = References{}

func (s *Store) References() References { return References{s} }

func (r References) States(context.Context) ([]domain.State, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.State, 0, len(r.s.states))
	for _, st := range r.s.states {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r References) Countries(context.Context) ([]domain.Country, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.Country, 0, len(r.s.countries))
	for _, c := range r.s.countries {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r References) Lookups(_ context.Context, kind domain.LookupKind) ([]domain.Lookup, error) {
	if !kind.Valid() {
		return nil, domain.Invalidf("unknown lookup %q", kind)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.Lookup, 0, len(r.s.lookups[kind]))
	for _, l := range r.s.lookups[kind] {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r References) GetState(_ context.Context, id int64) (*domain.State, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.s.states[id]
	if !ok {
		return nil, notFound("state", id)
	}
	return &st, nil
}

func (r References) GetCountry(_ context.Context, id int64) (*domain.Country, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.countries[id]
	if !ok {
		return nil, notFound("country", id)
	}
	return &c, nil
}

func (r References) GetLookup(_ context.Context, kind domain.LookupKind, id int64) (*domain.Lookup, error) {
	if !kind.Valid() {
		return nil, domain.Invalidf("unknown lookup %q", kind)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.lookups[kind][id]
	if !ok {
		return nil, notFound(string(kind), id)
	}
	return &l, nil
}

func (r References) LookupByName(_ context.Context, kind domain.LookupKind, name string) (*domain.Lookup, error) {
	if !kind.Valid() {
		return nil, domain.Invalidf("unknown lookup %q", kind)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.lookups[kind] {
		if strings.EqualFold(l.Name, name) {
			return &l, nil
		}
	}
	return nil, domain.NotFoundf("%s %q not found", kind, name)
}
