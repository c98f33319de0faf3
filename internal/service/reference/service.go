// Package reference serves the lookup tables and checks references to them.
package reference

import (
	"context"
	"errors"

	"marinaops/internal/domain"
	referencerepo "marinaops/internal/repository/reference"
)

type Service struct {
	repo referencerepo.Repository
}

func New(repo referencerepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) States(ctx context.Context) ([]domain.State, error) {
	return s.repo.States(ctx)
}

func (s *Service) Countries(ctx context.Context) ([]domain.Country, error) {
	return s.repo.Countries(ctx)
}

func (s *Service) Lookups(ctx context.Context, kind domain.LookupKind) ([]domain.Lookup, error) {
	return s.repo.Lookups(ctx, kind)
}

// CheckAddress verifies that the given state and country exist. Nil ids
// are skipped.
func (s *Service) CheckAddress(ctx context.Context, stateID, countryID *int64) error {
	if stateID != nil {
		if _, err := s.repo.GetState(ctx, *stateID); err != nil {
			return asInvalid(err, "state %d does not exist", *stateID)
		}
	}
	if countryID != nil {
		if _, err := s.repo.GetCountry(ctx, *countryID); err != nil {
			return asInvalid(err, "country %d does not exist", *countryID)
		}
	}
	return nil
}

// CheckLookup verifies a lookup reference. Nil is accepted.
func (s *Service) CheckLookup(ctx context.Context, kind domain.LookupKind, id *int64) error {
	if id == nil {
		return nil
	}
	if _, err := s.repo.GetLookup(ctx, kind, *id); err != nil {
		return asInvalid(err, "%s %d does not exist", kind, *id)
	}
	return nil
}

// LookupID returns the id of the named lookup row, or nil when the table
// has no such row.
func (s *Service) LookupID(ctx context.Context, kind domain.LookupKind, name string) (*int64, error) {
	l, err := s.repo.LookupByName(ctx, kind, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	id := l.ID
	return &id, nil
}

// asInvalid reports a missing reference as a validation failure.
func asInvalid(err error, format string, args ...any) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Invalidf(format, args...)
	}
	return err
}
