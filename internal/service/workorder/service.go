// Package workorder manages work orders and estimates. Both kinds share
// one shape; a Service is bound to one kind.
package workorder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"marinaops/internal/auth"
	"marinaops/internal/domain"
	"marinaops/internal/filter"
	"marinaops/internal/logging"
	"marinaops/internal/page"
	jobrepo "marinaops/internal/repository/job"
	"marinaops/internal/repository/pgutil"
	"marinaops/internal/service/crud"
	"marinaops/internal/service/reference"
	"marinaops/internal/validate"
)

const numberDigits = 5

type mooringRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Mooring, error)
}

type customerRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
}

type boatyardRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Boatyard, error)
}

type userRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// notifier records inside the transaction and publishes after commit.
type notifier interface {
	Record(ctx context.Context, createdBy, sentTo int64, message, entityType string, entityID int64) (*domain.Notification, error)
	Publish(ctx context.Context, n *domain.Notification)
}

// Deps are the collaborators shared by both kinds.
type Deps struct {
	Jobs      jobrepo.Repository
	Moorings  mooringRepo
	Customers customerRepo
	Boatyards boatyardRepo
	Users     userRepo
	Refs      *reference.Service
	Notifier  notifier
	Tx        pgutil.Runner
	Logger    *zerolog.Logger
}

type Service struct {
	kind  domain.JobKind
	deps  Deps
	clock crud.Clock
	log   zerolog.Logger
}

func New(kind domain.JobKind, deps Deps) *Service {
	return &Service{kind: kind, deps: deps, log: logging.OrNop(deps.Logger)}
}

// Patch carries the fields of a create or update request. Dates are
// "2006-01-02" or RFC 3339; an empty string clears them.
type Patch struct {
	ScheduledDate *string `json:"scheduledDate"`
	DueDate       *string `json:"dueDate"`
	Problem       *string `json:"problem"`
	MooringID     *int64  `json:"mooringId"`
	CustomerID    *int64  `json:"customerId"`
	BoatyardID    *int64  `json:"boatyardId"`
	TechnicianID  *int64  `json:"technicianId"`
	StatusID      *int64  `json:"workOrderStatusId"`
}

func (p Patch) apply(j *domain.Job) error {
	if err := setDate(&j.ScheduledDate, p.ScheduledDate, "scheduledDate"); err != nil {
		return err
	}
	if err := setDate(&j.DueDate, p.DueDate, "dueDate"); err != nil {
		return err
	}
	crud.Set(&j.Problem, p.Problem)
	crud.Set(&j.MooringID, p.MooringID)
	crud.SetRef(&j.CustomerID, p.CustomerID)
	crud.SetRef(&j.BoatyardID, p.BoatyardID)
	crud.SetRef(&j.TechnicianID, p.TechnicianID)
	crud.SetRef(&j.StatusID, p.StatusID)
	return nil
}

func (s *Service) Kind() domain.JobKind { return s.kind }

func (s *Service) List(ctx context.Context, scope auth.Scope, req page.Request) (page.Page[domain.Job], error) {
	return s.deps.Jobs.List(ctx, s.kind, filter.Scoped(jobrepo.EntityFor(s.kind), scope, req.SearchText), req)
}

func (s *Service) Get(ctx context.Context, scope auth.Scope, id int64) (*domain.Job, error) {
	get := func(ctx context.Context, id int64) (*domain.Job, error) { return s.deps.Jobs.GetByID(ctx, s.kind, id) }
	return crud.Fetch(ctx, scope, id, get, func(j *domain.Job) int64 { return j.OwnerID })
}

func (s *Service) Create(ctx context.Context, scope auth.Scope, p Patch) (*domain.Job, error) {
	owner, err := scope.WriteOwner()
	if err != nil {
		return nil, err
	}
	if err := validate.PresentRef("mooringId", p.MooringID); err != nil {
		return nil, err
	}
	j := &domain.Job{Kind: s.kind, OwnerID: owner}
	var note *domain.Notification
	err = s.deps.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		note, err = s.save(ctx, scope, j, p)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, note)
	return j, nil
}

func (s *Service) Update(ctx context.Context, scope auth.Scope, id int64, p Patch) (*domain.Job, error) {
	var (
		j    *domain.Job
		note *domain.Notification
	)
	err := s.deps.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if j, err = s.Get(ctx, scope, id); err != nil {
			return err
		}
		note, err = s.save(ctx, scope, j, p)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, note)
	return j, nil
}

func (s *Service) Delete(ctx context.Context, scope auth.Scope, id int64) error {
	if _, err := s.Get(ctx, scope, id); err != nil {
		return err
	}
	return s.deps.Jobs.Delete(ctx, s.kind, id)
}

// Convert copies an estimate into a new work order and deletes the
// estimate, in one transaction.
func (s *Service) Convert(ctx context.Context, scope auth.Scope, id int64) (*domain.Job, error) {
	if s.kind != domain.JobEstimate {
		return nil, domain.Invalidf("only estimates can be converted")
	}
	var (
		wo   domain.Job
		note *domain.Notification
	)
	err := s.deps.Tx.WithinTx(ctx, func(ctx context.Context) error {
		est, err := s.Get(ctx, scope, id)
		if err != nil {
			return err
		}
		wo = *est
		wo.ID = 0
		wo.Kind = domain.JobWorkOrder
		wo.Audit = domain.Audit{}
		wo.Stamp(scope.Actor(), s.clock.Now())
		if wo.Number, err = s.nextNumber(ctx, domain.JobWorkOrder, wo.OwnerID); err != nil {
			return err
		}
		if err := s.deps.Jobs.Create(ctx, &wo); err != nil {
			return err
		}
		if err := s.deps.Jobs.Delete(ctx, domain.JobEstimate, est.ID); err != nil {
			return err
		}
		if wo.TechnicianID != nil {
			note, err = s.notifyTechnician(ctx, scope, &wo)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, note)
	s.log.Info().Int64("estimate", id).Int64("workOrder", wo.ID).Str("number", wo.Number).Msg("estimate converted")
	return &wo, nil
}

// save writes j and records a notification when the technician changes.
// The notification is returned unpublished.
func (s *Service) save(ctx context.Context, scope auth.Scope, j *domain.Job, p Patch) (*domain.Notification, error) {
	prevTech := j.TechnicianID
	if err := p.apply(j); err != nil {
		return nil, err
	}
	if j.ScheduledDate != nil && j.DueDate != nil && j.DueDate.Before(*j.ScheduledDate) {
		return nil, domain.Invalidf("dueDate must not be before scheduledDate")
	}
	if p.MooringID != nil {
		if err := s.resolveMooring(ctx, j, p); err != nil {
			return nil, err
		}
	}
	if err := s.checkRefs(ctx, j, p); err != nil {
		return nil, err
	}
	if j.StatusID == nil && j.ID == 0 {
		id, err := s.deps.Refs.LookupID(ctx, domain.LookupWorkOrderStatus, domain.WorkOrderStatusOpen)
		if err != nil {
			return nil, err
		}
		j.StatusID = id
	}

	j.Stamp(scope.Actor(), s.clock.Now())
	if j.ID == 0 {
		var err error
		if j.Number, err = s.nextNumber(ctx, s.kind, j.OwnerID); err != nil {
			return nil, err
		}
		if err := s.deps.Jobs.Create(ctx, j); err != nil {
			return nil, err
		}
	} else if err := s.deps.Jobs.Update(ctx, j); err != nil {
		return nil, err
	}

	if j.TechnicianID != nil && (prevTech == nil || *prevTech != *j.TechnicianID) {
		return s.notifyTechnician(ctx, scope, j)
	}
	return nil, nil
}

// resolveMooring checks the mooring against the owner and fills customer
// and boatyard from it when the patch leaves them out.
func (s *Service) resolveMooring(ctx context.Context, j *domain.Job, p Patch) error {
	m, err := s.deps.Moorings.GetByID(ctx, j.MooringID)
	if domain.KindOf(err) == domain.KindNotFound {
		return domain.Invalidf("mooring %d does not exist", j.MooringID)
	}
	if err != nil {
		return err
	}
	if m.OwnerID != j.OwnerID {
		return domain.Unauthorizedf("mooring %d is associated with another user", m.ID)
	}
	if p.CustomerID == nil {
		j.CustomerID = m.CustomerID
	}
	if p.BoatyardID == nil {
		j.BoatyardID = m.BoatyardID
	}
	return nil
}

func (s *Service) checkRefs(ctx context.Context, j *domain.Job, p Patch) error {
	if p.CustomerID != nil && j.CustomerID != nil {
		c, err := s.deps.Customers.GetByID(ctx, *j.CustomerID)
		if err := owned(err, c != nil && c.OwnerID == j.OwnerID, "customer", *j.CustomerID); err != nil {
			return err
		}
	}
	if p.BoatyardID != nil && j.BoatyardID != nil {
		b, err := s.deps.Boatyards.GetByID(ctx, *j.BoatyardID)
		if err := owned(err, b != nil && b.OwnerID == j.OwnerID, "boatyard", *j.BoatyardID); err != nil {
			return err
		}
	}
	if p.TechnicianID != nil && j.TechnicianID != nil {
		u, err := s.deps.Users.GetByID(ctx, *j.TechnicianID)
		if err := owned(err, u != nil && u.CustomerAdminID != nil && *u.CustomerAdminID == j.OwnerID, "technician", *j.TechnicianID); err != nil {
			return err
		}
		if u.Role != domain.RoleTechnician {
			return domain.Invalidf("user %d is not a technician", u.ID)
		}
	}
	if p.StatusID != nil {
		return s.deps.Refs.CheckLookup(ctx, domain.LookupWorkOrderStatus, j.StatusID)
	}
	return nil
}

func (s *Service) notifyTechnician(ctx context.Context, scope auth.Scope, j *domain.Job) (*domain.Notification, error) {
	label := strings.ToLower(strings.ReplaceAll(string(j.Kind), "_", " "))
	msg := fmt.Sprintf("You have been assigned %s %s", label, j.Number)
	return s.deps.Notifier.Record(ctx, scope.Caller().UserID, *j.TechnicianID, msg, string(j.Kind), j.ID)
}

func (s *Service) publish(ctx context.Context, n *domain.Notification) {
	if n != nil {
		s.deps.Notifier.Publish(ctx, n)
	}
}

func (s *Service) nextNumber(ctx context.Context, kind domain.JobKind, owner int64) (string, error) {
	return crud.BusinessID(ctx, kind.Prefix(), numberDigits, func(ctx context.Context, n string) (bool, error) {
		return s.deps.Jobs.NumberTaken(ctx, kind, owner, n)
	})
}

func owned(err error, sameOwner bool, what string, id int64) error {
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

func setDate(dst **time.Time, src *string, field string) error {
	if src == nil {
		return nil
	}
	v := strings.TrimSpace(*src)
	if v == "" {
		*dst = nil
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, v); err == nil {
			*dst = &t
			return nil
		}
	}
	return domain.Invalidf("%s must be a date like 2006-01-02", field)
}
