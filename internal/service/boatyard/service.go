// Package boatyard manages boatyards. Each one gets a "BY" business id
// unique per customer owner.
package boatyard

import (
	"context"

	"github.com/rs/zerolog"

	"marinaops/internal/auth"
	"marinaops/internal/domain"
	"marinaops/internal/filter"
	"marinaops/internal/logging"
	"marinaops/internal/page"
	boatyardrepo "marinaops/internal/repository/boatyard"
	"marinaops/internal/repository/pgutil"
	"marinaops/internal/service/crud"
	"marinaops/internal/service/reference"
	"marinaops/internal/validate"
)

const idPrefix = "BY"

type moorings interface {
	DeleteByParent(ctx context.Context, parent domain.MooringParent, parentID int64) (int64, error)
}

type Service struct {
	repo     boatyardrepo.Repository
	moorings moorings
	refs     *reference.Service
	tx       pgutil.Runner
	clock    crud.Clock
	logger   zerolog.Logger
}

func New(repo boatyardrepo.Repository, moorings moorings, refs *reference.Service, tx pgutil.Runner, logger *zerolog.Logger) *Service {
	return &Service{repo: repo, moorings: moorings, refs: refs, tx: tx, logger: logging.OrNop(logger)}
}

// Patch carries the fields of a create or update request.
type Patch struct {
	Name           *string `json:"boatyardName"`
	Street         *string `json:"street"`
	Apt            *string `json:"apt"`
	ZipCode        *string `json:"zipCode"`
	StateID        *int64  `json:"stateId"`
	CountryID      *int64  `json:"countryId"`
	GPSCoordinates *string `json:"gpsCoordinates"`
	MainContact    *string `json:"mainContact"`
}

func (p Patch) apply(b *domain.Boatyard) {
	crud.SetString(&b.Name, p.Name)
	crud.SetString(&b.Street, p.Street)
	crud.SetString(&b.Apt, p.Apt)
	crud.SetString(&b.ZipCode, p.ZipCode)
	crud.SetRef(&b.StateID, p.StateID)
	crud.SetRef(&b.CountryID, p.CountryID)
	crud.SetString(&b.GPSCoordinates, p.GPSCoordinates)
	crud.SetString(&b.MainContact, p.MainContact)
}

func (s *Service) List(ctx context.Context, scope auth.Scope, req page.Request) (page.Page[domain.Boatyard], error) {
	return s.repo.List(ctx, filter.Scoped(boatyardrepo.Entity, scope, req.SearchText), req)
}

func (s *Service) Get(ctx context.Context, scope auth.Scope, id int64) (*domain.Boatyard, error) {
	return crud.Fetch(ctx, scope, id, s.repo.GetByID, func(b *domain.Boatyard) int64 { return b.OwnerID })
}

func (s *Service) Create(ctx context.Context, scope auth.Scope, p Patch) (*domain.Boatyard, error) {
	owner, err := scope.WriteOwner()
	if err != nil {
		return nil, err
	}
	if err := validate.First(
		validate.Present("boatyardName", p.Name),
		validate.Present("gpsCoordinates", p.GPSCoordinates),
		validate.PresentRef("stateId", p.StateID),
		validate.PresentRef("countryId", p.CountryID),
	); err != nil {
		return nil, err
	}
	b := &domain.Boatyard{OwnerID: owner}
	if err := s.save(ctx, scope, b, p); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) Update(ctx context.Context, scope auth.Scope, id int64, p Patch) (*domain.Boatyard, error) {
	b, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, scope, b, p); err != nil {
		return nil, err
	}
	return b, nil
}

// Delete removes the boatyard and all of its moorings in one transaction.
func (s *Service) Delete(ctx context.Context, scope auth.Scope, id int64) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.Get(ctx, scope, id); err != nil {
			return err
		}
		if _, err := s.moorings.DeleteByParent(ctx, domain.ParentBoatyard, id); err != nil {
			return err
		}
		return s.repo.Delete(ctx, id)
	})
}

func (s *Service) save(ctx context.Context, scope auth.Scope, b *domain.Boatyard, p Patch) error {
	if p.Name != nil {
		if err := validate.Required("boatyardName", *p.Name); err != nil {
			return err
		}
	}
	if p.GPSCoordinates != nil {
		if err := validate.GPS(*p.GPSCoordinates); err != nil {
			return err
		}
	}
	p.apply(b)
	if err := s.refs.CheckAddress(ctx, b.StateID, b.CountryID); err != nil {
		return err
	}
	taken, err := s.repo.NameTaken(ctx, b.OwnerID, b.Name, b.ID)
	if err != nil {
		return err
	}
	if taken {
		return domain.Duplicatef("boatyard %s already exists", b.Name)
	}

	b.Stamp(scope.Actor(), s.clock.Now())
	if b.ID != 0 {
		return s.repo.Update(ctx, b)
	}
	b.BoatyardID, err = crud.BusinessID(ctx, idPrefix, 3, func(ctx context.Context, id string) (bool, error) {
		return s.repo.BusinessIDTaken(ctx, b.OwnerID, id)
	})
	if err != nil {
		return err
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return err
	}
	s.logger.Info().Int64("boatyard", b.ID).Str("boatyardId", b.BoatyardID).Int64("owner", b.OwnerID).Msg("boatyard created")
	return nil
}
