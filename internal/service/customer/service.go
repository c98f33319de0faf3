// Package customer manages the boat owners served by a customer owner.
package customer

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"marinaops/internal/auth"
	"marinaops/internal/domain"
	"marinaops/internal/filter"
	"marinaops/internal/logging"
	"marinaops/internal/page"
	customerrepo "marinaops/internal/repository/customer"
	"marinaops/internal/repository/pgutil"
	"marinaops/internal/service/crud"
	"marinaops/internal/service/reference"
	"marinaops/internal/validate"
)

type moorings interface {
	DeleteByParent(ctx context.Context, parent domain.MooringParent, parentID int64) (int64, error)
}

type Service struct {
	repo     customerrepo.Repository
	moorings moorings
	refs     *reference.Service
	tx       pgutil.Runner
	clock    crud.Clock
	logger   zerolog.Logger
}

func New(repo customerrepo.Repository, moorings moorings, refs *reference.Service, tx pgutil.Runner, logger *zerolog.Logger) *Service {
	return &Service{repo: repo, moorings: moorings, refs: refs, tx: tx, logger: logging.OrNop(logger)}
}

// Patch carries the fields of a create or update request.
type Patch struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"emailAddress"`
	Phone     *string `json:"phone"`
	Street    *string `json:"streetHouse"`
	Apt       *string `json:"aptSuite"`
	ZipCode   *string `json:"zipCode"`
	StateID   *int64  `json:"stateId"`
	CountryID *int64  `json:"countryId"`
}

func (p Patch) apply(c *domain.Customer) {
	crud.SetString(&c.FirstName, p.FirstName)
	crud.SetString(&c.LastName, p.LastName)
	if p.Email != nil {
		c.Email = strings.ToLower(strings.TrimSpace(*p.Email))
	}
	crud.SetString(&c.Phone, p.Phone)
	crud.SetString(&c.Street, p.Street)
	crud.SetString(&c.Apt, p.Apt)
	crud.SetString(&c.ZipCode, p.ZipCode)
	crud.SetRef(&c.StateID, p.StateID)
	crud.SetRef(&c.CountryID, p.CountryID)
}

func (s *Service) List(ctx context.Context, scope auth.Scope, req page.Request) (page.Page[domain.Customer], error) {
	return s.repo.List(ctx, filter.Scoped(customerrepo.Entity, scope, req.SearchText), req)
}

func (s *Service) Get(ctx context.Context, scope auth.Scope, id int64) (*domain.Customer, error) {
	return crud.Fetch(ctx, scope, id, s.repo.GetByID, func(c *domain.Customer) int64 { return c.OwnerID })
}

func (s *Service) Create(ctx context.Context, scope auth.Scope, p Patch) (*domain.Customer, error) {
	owner, err := scope.WriteOwner()
	if err != nil {
		return nil, err
	}
	if err := validate.First(
		validate.Present("firstName", p.FirstName),
		validate.Present("emailAddress", p.Email),
	); err != nil {
		return nil, err
	}
	c := &domain.Customer{OwnerID: owner}
	if err := s.save(ctx, scope, c, p); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, scope auth.Scope, id int64, p Patch) (*domain.Customer, error) {
	c, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, scope, c, p); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes the customer and its moorings in one transaction.
func (s *Service) Delete(ctx context.Context, scope auth.Scope, id int64) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.Get(ctx, scope, id); err != nil {
			return err
		}
		if _, err := s.moorings.DeleteByParent(ctx, domain.ParentCustomer, id); err != nil {
			return err
		}
		return s.repo.Delete(ctx, id)
	})
}

func (s *Service) save(ctx context.Context, scope auth.Scope, c *domain.Customer, p Patch) error {
	if p.FirstName != nil {
		if err := validate.Required("firstName", *p.FirstName); err != nil {
			return err
		}
	}
	if p.Email != nil {
		if err := validate.Email("emailAddress", *p.Email); err != nil {
			return err
		}
	}
	p.apply(c)
	if err := s.refs.CheckAddress(ctx, c.StateID, c.CountryID); err != nil {
		return err
	}
	taken, err := s.repo.EmailTaken(ctx, c.OwnerID, c.Email, c.ID)
	if err != nil {
		return err
	}
	if taken {
		return domain.Duplicatef("customer with email %s already exists", c.Email)
	}

	c.Stamp(scope.Actor(), s.clock.Now())
	if c.ID == 0 {
		return s.repo.Create(ctx, c)
	}
	return s.repo.Update(ctx, c)
}
