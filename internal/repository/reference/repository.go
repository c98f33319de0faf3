package reference

import (
	"context"

	"marinaops/internal/domain"
)

// Repository reads the lookup tables.
type Repository interface {
	States(ctx context.Context) ([]domain.State, error)
	Countries(ctx context.Context) ([]domain.Country, error)
	Lookups(ctx context.Context, kind domain.LookupKind) ([]domain.Lookup, error)
	GetState(ctx context.Context, id int64) (*domain.State, error)
	GetCountry(ctx context.Context, id int64) (*domain.Country, error)
	GetLookup(ctx context.Context, kind domain.LookupKind, id int64) (*domain.Lookup, error)
	LookupByName(ctx context.Context, kind domain.LookupKind, name string) (*domain.Lookup, error)
}
