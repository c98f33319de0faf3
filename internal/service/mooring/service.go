// Package mooring manages moorings and the boats on them.
package mooring

import (
	"context"

	"github.com/rs/zerolog"

	"marinaops/internal/auth"
	"marinaops/internal/domain"
	"marinaops/internal/filter"
	"marinaops/internal/logging"
	"marinaops/internal/page"
	mooringrepo "marinaops/internal/repository/mooring"
	"marinaops/internal/service/crud"
	"marinaops/internal/validate"
)

type customerRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
}

type boatyardRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Boatyard, error)
}

type serviceAreaRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.ServiceArea, error)
}

type Service struct {
	repo      mooringrepo.Repository
	customers customerRepo
	boatyards boatyardRepo
	areas     serviceAreaRepo
	clock     crud.Clock
	logger    zerolog.Logger
}

func New(repo mooringrepo.Repository, customers customerRepo, boatyards boatyardRepo, areas serviceAreaRepo, logger *zerolog.Logger) *Service {
	return &Service{repo: repo, customers: customers, boatyards: boatyards, areas: areas, logger: logging.OrNop(logger)}
}

// Patch carries the fields of a create or update request.
type Patch struct {
	MooringNumber          *string `json:"mooringNumber"`
	BoatName               *string `json:"boatName"`
	BoatSize               *string `json:"boatSize"`
	BoatType               *string `json:"boatType"`
	BoatWeight             *string `json:"boatWeight"`
	SizeOfWeight           *string `json:"sizeOfWeight"`
	TypeOfWeight           *string `json:"typeOfWeight"`
	TopChainCondition      *string `json:"topChainCondition"`
	BottomChainCondition   *string `json:"bottomChainCondition"`
	ShackleSwivelCondition *string `json:"shackleSwivelCondition"`
	EyeCondition           *string `json:"eyeCondition"`
	PennantCondition       *string `json:"pennantCondition"`
	DepthAtMeanHighWater   *string `json:"depthAtMeanHighWater"`
	GPSCoordinates         *string `json:"gpsCoordinates"`
	Status                 *string `json:"status"`
	CustomerID             *int64  `json:"customerId"`
	BoatyardID             *int64  `json:"boatyardId"`
	ServiceAreaID          *int64  `json:"serviceAreaId"`
}

func (p Patch) apply(m *domain.Mooring) {
	crud.SetString(&m.MooringNumber, p.MooringNumber)
	crud.SetString(&m.BoatName, p.BoatName)
	crud.SetString(&m.BoatSize, p.BoatSize)
	crud.SetString(&m.BoatType, p.BoatType)
	crud.SetString(&m.BoatWeight, p.BoatWeight)
	crud.SetString(&m.SizeOfWeight, p.SizeOfWeight)
	crud.SetString(&m.TypeOfWeight, p.TypeOfWeight)
	crud.SetString(&m.TopChainCondition, p.TopChainCondition)
	crud.SetString(&m.BottomChainCondition, p.BottomChainCondition)
	crud.SetString(&m.ShackleSwivelCondition, p.ShackleSwivelCondition)
	crud.SetString(&m.EyeCondition, p.EyeCondition)
	crud.SetString(&m.PennantCondition, p.PennantCondition)
	crud.SetString(&m.DepthAtMeanHighWater, p.DepthAtMeanHighWater)
	crud.SetString(&m.GPSCoordinates, p.GPSCoordinates)
	crud.SetString(&m.Status, p.Status)
	crud.SetRef(&m.CustomerID, p.CustomerID)
	crud.SetRef(&m.BoatyardID, p.BoatyardID)
	crud.SetRef(&m.ServiceAreaID, p.ServiceAreaID)
}

func (s *Service) List(ctx context.Context, scope auth.Scope, req page.Request) (page.Page[domain.Mooring], error) {
	return s.repo.List(ctx, filter.Scoped(mooringrepo.Entity, scope, req.SearchText), req)
}

func (s *Service) Get(ctx context.Context, scope auth.Scope, id int64) (*domain.Mooring, error) {
	return crud.Fetch(ctx, scope, id, s.repo.GetByID, func(m *domain.Mooring) int64 { return m.OwnerID })
}

func (s *Service) Create(ctx context.Context, scope auth.Scope, p Patch) (*domain.Mooring, error) {
	owner, err := scope.WriteOwner()
	if err != nil {
		return nil, err
	}
	if p.MooringNumber == nil {
		return nil, domain.Invalidf("mooringNumber is required")
	}
	m := &domain.Mooring{OwnerID: owner}
	if err := s.save(ctx, scope, m, p); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) Update(ctx context.Context, scope auth.Scope, id int64, p Patch) (*domain.Mooring, error) {
	m, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, scope, m, p); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) Delete(ctx context.Context, scope auth.Scope, id int64) error {
	if _, err := s.Get(ctx, scope, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// ListByParent returns the moorings of a customer, boatyard or service area.
func (s *Service) ListByParent(ctx context.Context, parent domain.MooringParent, parentID int64) ([]domain.Mooring, error) {
	return s.repo.ListByParent(ctx, parent, parentID)
}

// DeleteByParent removes every mooring of a parent record that is being
// deleted. Callers have already checked the parent against their scope.
func (s *Service) DeleteByParent(ctx context.Context, parent domain.MooringParent, parentID int64) (int64, error) {
	n, err := s.repo.DeleteByParent(ctx, parent, parentID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info().Str("parent", string(parent)).Int64("id", parentID).Int64("moorings", n).Msg("moorings deleted with parent")
	}
	return n, nil
}

func (s *Service) save(ctx context.Context, scope auth.Scope, m *domain.Mooring, p Patch) error {
	if p.MooringNumber != nil {
		if err := validate.Required("mooringNumber", *p.MooringNumber); err != nil {
			return err
		}
	}
	if p.GPSCoordinates != nil && *p.GPSCoordinates != "" {
		if err := validate.GPS(*p.GPSCoordinates); err != nil {
			return err
		}
	}
	p.apply(m)
	if m.BoatyardID != nil && m.ServiceAreaID != nil {
		return domain.Invalidf("a mooring belongs to a boatyard or a service area, not both")
	}
	if err := s.checkParents(ctx, m); err != nil {
		return err
	}
	taken, err := s.repo.NumberTaken(ctx, m.OwnerID, m.MooringNumber, m.ID)
	if err != nil {
		return err
	}
	if taken {
		return domain.Duplicatef("mooring number %s already exists", m.MooringNumber)
	}

	m.Stamp(scope.Actor(), s.clock.Now())
	if m.ID == 0 {
		return s.repo.Create(ctx, m)
	}
	return s.repo.Update(ctx, m)
}

// checkParents requires every referenced parent to exist under the
// mooring's owner.
func (s *Service) checkParents(ctx context.Context, m *domain.Mooring) error {
	if m.CustomerID != nil {
		c, err := s.customers.GetByID(ctx, *m.CustomerID)
		if err := parentErr(err, c != nil && c.OwnerID == m.OwnerID, "customer", *m.CustomerID); err != nil {
			return err
		}
	}
	if m.BoatyardID != nil {
		b, err := s.boatyards.GetByID(ctx, *m.BoatyardID)
		if err := parentErr(err, b != nil && b.OwnerID == m.OwnerID, "boatyard", *m.BoatyardID); err != nil {
			return err
		}
	}
	if m.ServiceAreaID != nil {
		a, err := s.areas.GetByID(ctx, *m.ServiceAreaID)
		if err := parentErr(err, a != nil && a.OwnerID == m.OwnerID, "service area", *m.ServiceAreaID); err != nil {
			return err
		}
	}
	return nil
}

func parentErr(err error, sameOwner bool, what string, id int64) error {
	switch {
	case domain.KindOf(err) == domain.KindNotFound:
		return domain.Invalidf("%s %d does not exist", what, id)
	case err != nil:
		return err
	case !sameOwner:
		return domain.Unauthorizedf("%s %d is associated with another user", what, id)
	}
	return nil
}
