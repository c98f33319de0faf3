// Package invoice bills work orders and records payments against the
// bills. An invoice's payment status follows the sum of its payments.
package invoice

import (
	"context"

	"github.com/rs/zerolog"

	"marinaops/internal/auth"
	"marinaops/internal/domain"
	"marinaops/internal/filter"
	"marinaops/internal/logging"
	"marinaops/internal/page"
	invoicerepo "marinaops/internal/repository/invoice"
	"marinaops/internal/repository/pgutil"
	"marinaops/internal/service/crud"
	"marinaops/internal/service/reference"
	"marinaops/internal/validate"
)

type jobRepo interface {
	GetByID(ctx context.Context, kind domain.JobKind, id int64) (*domain.Job, error)
}

type Service struct {
	repo     invoicerepo.Repository
	payments invoicerepo.PaymentRepository
	jobs     jobRepo
	refs     *reference.Service
	tx       pgutil.Runner
	clock    crud.Clock
	logger   zerolog.Logger
}

func New(repo invoicerepo.Repository, payments invoicerepo.PaymentRepository, jobs jobRepo, refs *reference.Service, tx pgutil.Runner, logger *zerolog.Logger) *Service {
	return &Service{repo: repo, payments: payments, jobs: jobs, refs: refs, tx: tx, logger: logging.OrNop(logger)}
}

// Patch carries the fields of a create or update request.
type Patch struct {
	AmountCents *int64 `json:"amountCents"`
	WorkOrderID *int64 `json:"workOrderId"`
}

func (s *Service) List(ctx context.Context, scope auth.Scope, req page.Request) (page.Page[domain.Invoice], error) {
	return s.repo.List(ctx, filter.Scoped(invoicerepo.Invoices, scope, req.SearchText), req)
}

func (s *Service) Get(ctx context.Context, scope auth.Scope, id int64) (*domain.Invoice, error) {
	return crud.Fetch(ctx, scope, id, s.repo.GetByID, func(inv *domain.Invoice) int64 { return inv.OwnerID })
}

func (s *Service) Create(ctx context.Context, scope auth.Scope, p Patch) (*domain.Invoice, error) {
	if p.AmountCents == nil {
		return nil, domain.Invalidf("amountCents is required")
	}
	if err := validate.PresentRef("workOrderId", p.WorkOrderID); err != nil {
		return nil, err
	}
	inv := &domain.Invoice{}
	if err := s.tx.WithinTx(ctx, func(ctx context.Context) error { return s.save(ctx, scope, inv, p) }); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Service) Update(ctx context.Context, scope auth.Scope, id int64, p Patch) (*domain.Invoice, error) {
	var inv *domain.Invoice
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if inv, err = s.Get(ctx, scope, id); err != nil {
			return err
		}
		return s.save(ctx, scope, inv, p)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// Delete removes the invoice; its payments go with it.
func (s *Service) Delete(ctx context.Context, scope auth.Scope, id int64) error {
	if _, err := s.Get(ctx, scope, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) save(ctx context.Context, scope auth.Scope, inv *domain.Invoice, p Patch) error {
	if p.AmountCents != nil {
		if err := validate.Positive("amountCents", *p.AmountCents); err != nil {
			return err
		}
	}
	crud.Set(&inv.AmountCents, p.AmountCents)
	if p.WorkOrderID != nil {
		wo, err := crud.Fetch(ctx, scope, *p.WorkOrderID, s.workOrder, func(j *domain.Job) int64 { return j.OwnerID })
		if domain.KindOf(err) == domain.KindNotFound {
			return domain.Invalidf("work order %d does not exist", *p.WorkOrderID)
		}
		if err != nil {
			return err
		}
		inv.WorkOrderID = wo.ID
		inv.OwnerID = wo.OwnerID
	}

	var paid int64
	if inv.ID != 0 {
		if _, err := s.repo.GetForUpdate(ctx, inv.ID); err != nil {
			return err
		}
		var err error
		if paid, err = s.payments.PaidCents(ctx, inv.ID); err != nil {
			return err
		}
		if inv.AmountCents < paid {
			return domain.Invalidf("amountCents is below the %d cents already paid", paid)
		}
	}
	status, err := s.statusFor(ctx, inv.AmountCents, paid)
	if err != nil {
		return err
	}
	inv.StatusID = status

	inv.Stamp(scope.Actor(), s.clock.Now())
	if inv.ID == 0 {
		return s.repo.Create(ctx, inv)
	}
	return s.repo.Update(ctx, inv)
}

func (s *Service) workOrder(ctx context.Context, id int64) (*domain.Job, error) {
	return s.jobs.GetByID(ctx, domain.JobWorkOrder, id)
}

// settle recomputes the status of an invoice from its payments.
func (s *Service) settle(ctx context.Context, scope auth.Scope, invoiceID int64) error {
	inv, err := s.repo.GetForUpdate(ctx, invoiceID)
	if err != nil {
		return err
	}
	paid, err := s.payments.PaidCents(ctx, invoiceID)
	if err != nil {
		return err
	}
	status, err := s.statusFor(ctx, inv.AmountCents, paid)
	if err != nil {
		return err
	}
	inv.StatusID = status
	inv.Stamp(scope.Actor(), s.clock.Now())
	return s.repo.Update(ctx, inv)
}

func (s *Service) statusFor(ctx context.Context, amount, paid int64) (*int64, error) {
	name := domain.PaymentStatusUnpaid
	switch {
	case paid >= amount && amount > 0:
		name = domain.PaymentStatusPaid
	case paid > 0:
		name = domain.PaymentStatusPartial
	}
	return s.refs.LookupID(ctx, domain.LookupPaymentStatus, name)
}
