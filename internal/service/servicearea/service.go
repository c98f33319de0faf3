// Package servicearea manages open-water service areas. Each one gets an
// "SA" business id unique per customer owner.
package servicearea

import (
	"context"

	"github.com/rs/zerolog"

	"marinaops/internal/auth"
	"marinaops/internal/domain"
	"marinaops/internal/filter"
	"marinaops/internal/logging"
	"marinaops/internal/page"
	"marinaops/internal/repository/pgutil"
	servicearearepo "marinaops/internal/repository/servicearea"
	"marinaops/internal/service/crud"
	"marinaops/internal/service/reference"
	"marinaops/internal/validate"
)

const idPrefix = "SA"

type moorings interface {
	DeleteByParent(ctx context.Context, parent domain.MooringParent, parentID int64) (int64, error)
}

type Service struct {
	repo     servicearearepo.Repository
	moorings moorings
	refs     *reference.Service
	tx       pgutil.Runner
	clock    crud.Clock
	logger   zerolog.Logger
}

func New(repo servicearearepo.Repository, moorings moorings, refs *reference.Service, tx pgutil.Runner, logger *zerolog.Logger) *Service {
	return &Service{repo: repo, moorings: moorings, refs: refs, tx: tx, logger: logging.OrNop(logger)}
}

// Patch carries the fields of a create or update request.
type Patch struct {
	Name           *string `json:"serviceAreaName"`
	TypeID         *int64  `json:"serviceAreaTypeId"`
	Street         *string `json:"street"`
	Apt            *string `json:"apt"`
	ZipCode        *string `json:"zipCode"`
	StateID        *int64  `json:"stateId"`
	CountryID      *int64  `json:"countryId"`
	GPSCoordinates *string `json:"gpsCoordinates"`
	Notes          *string `json:"notes"`
}

func (p Patch) apply(a *domain.ServiceArea) {
	crud.SetString(&a.Name, p.Name)
	crud.SetRef(&a.TypeID, p.TypeID)
	crud.SetString(&a.Street, p.Street)
	crud.SetString(&a.Apt, p.Apt)
	crud.SetString(&a.ZipCode, p.ZipCode)
	crud.SetRef(&a.StateID, p.StateID)
	crud.SetRef(&a.CountryID, p.CountryID)
	crud.SetString(&a.GPSCoordinates, p.GPSCoordinates)
	crud.Set(&a.Notes, p.Notes)
}

func (s *Service) List(ctx context.Context, scope auth.Scope, req page.Request) (page.Page[domain.ServiceArea], error) {
	return s.repo.List(ctx, filter.Scoped(servicearearepo.Entity, scope, req.SearchText), req)
}

func (s *Service) Get(ctx context.Context, scope auth.Scope, id int64) (*domain.ServiceArea, error) {
	return crud.Fetch(ctx, scope, id, s.repo.GetByID, func(a *domain.ServiceArea) int64 { return a.OwnerID })
}

func (s *Service) Create(ctx context.Context, scope auth.Scope, p Patch) (*domain.ServiceArea, error) {
	owner, err := scope.WriteOwner()
	if err != nil {
		return nil, err
	}
	if err := validate.First(
		validate.Present("serviceAreaName", p.Name),
		validate.Present("gpsCoordinates", p.GPSCoordinates),
		validate.PresentRef("stateId", p.StateID),
		validate.PresentRef("countryId", p.CountryID),
	); err != nil {
		return nil, err
	}
	a := &domain.ServiceArea{OwnerID: owner}
	if err := s.save(ctx, scope, a, p); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Update(ctx context.Context, scope auth.Scope, id int64, p Patch) (*domain.ServiceArea, error) {
	a, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, scope, a, p); err != nil {
		return nil, err
	}
	return a, nil
}

// Delete removes the service area and all of its moorings in one transaction.
func (s *Service) Delete(ctx context.Context, scope auth.Scope, id int64) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.Get(ctx, scope, id); err != nil {
			return err
		}
		if _, err := s.moorings.DeleteByParent(ctx, domain.ParentServiceArea, id); err != nil {
			return err
		}
		return s.repo.Delete(ctx, id)
	})
}

func (s *Service) save(ctx context.Context, scope auth.Scope, a *domain.ServiceArea, p Patch) error {
	if p.Name != nil {
		if err := validate.Required("serviceAreaName", *p.Name); err != nil {
			return err
		}
	}
	if p.GPSCoordinates != nil {
		if err := validate.GPS(*p.GPSCoordinates); err != nil {
			return err
		}
	}
	p.apply(a)
	if err := s.refs.CheckAddress(ctx, a.StateID, a.CountryID); err != nil {
		return err
	}
	if err := s.refs.CheckLookup(ctx, domain.LookupServiceAreaType, a.TypeID); err != nil {
		return err
	}
	taken, err := s.repo.NameTaken(ctx, a.OwnerID, a.Name, a.ID)
	if err != nil {
		return err
	}
	if taken {
		return domain.Duplicatef("service area %s already exists", a.Name)
	}

	a.Stamp(scope.Actor(), s.clock.Now())
	if a.ID != 0 {
		return s.repo.Update(ctx, a)
	}
	a.ServiceAreaID, err = crud.BusinessID(ctx, idPrefix, 3, func(ctx context.Context, id string) (bool, error) {
		return s.repo.BusinessIDTaken(ctx, a.OwnerID, id)
	})
	if err != nil {
		return err
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return err
	}
	s.logger.Info().Int64("serviceArea", a.ID).Str("serviceAreaId", a.ServiceAreaID).Int64("owner", a.OwnerID).Msg("service area created")
	return nil
}
