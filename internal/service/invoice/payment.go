package invoice

import (
	"context"
	"strings"

	"marinaops/internal/auth"
	"marinaops/internal/domain"
	"marinaops/internal/filter"
	"marinaops/internal/page"
	invoicerepo "marinaops/internal/repository/invoice"
	"marinaops/internal/service/crud"
	"marinaops/internal/validate"
)

// Payments records payments. Every change re-settles the invoice in the
// same transaction.
type Payments struct {
	invoices *Service
}

func NewPayments(invoices *Service) *Payments {
	return &Payments{invoices: invoices}
}

// PaymentPatch carries the fields of a payment create or update request.
type PaymentPatch struct {
	AmountCents *int64  `json:"amountCents"`
	PaymentType *string `json:"paymentType"`
	StatusID    *int64  `json:"paymentStatusId"`
	InvoiceID   *int64  `json:"invoiceId"`
}

func (s *Payments) List(ctx context.Context, scope auth.Scope, req page.Request) (page.Page[domain.Payment], error) {
	return s.invoices.payments.List(ctx, filter.Scoped(invoicerepo.Payments, scope, req.SearchText), req)
}

func (s *Payments) Get(ctx context.Context, scope auth.Scope, id int64) (*domain.Payment, error) {
	return crud.Fetch(ctx, scope, id, s.invoices.payments.GetByID, func(p *domain.Payment) int64 { return p.OwnerID })
}

func (s *Payments) Create(ctx context.Context, scope auth.Scope, p PaymentPatch) (*domain.Payment, error) {
	if p.AmountCents == nil {
		return nil, domain.Invalidf("amountCents is required")
	}
	if err := validate.PresentRef("invoiceId", p.InvoiceID); err != nil {
		return nil, err
	}
	pay := &domain.Payment{}
	if err := s.invoices.tx.WithinTx(ctx, func(ctx context.Context) error { return s.save(ctx, scope, pay, p) }); err != nil {
		return nil, err
	}
	return pay, nil
}

func (s *Payments) Update(ctx context.Context, scope auth.Scope, id int64, p PaymentPatch) (*domain.Payment, error) {
	var pay *domain.Payment
	err := s.invoices.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if pay, err = s.Get(ctx, scope, id); err != nil {
			return err
		}
		return s.save(ctx, scope, pay, p)
	})
	if err != nil {
		return nil, err
	}
	return pay, nil
}

func (s *Payments) Delete(ctx context.Context, scope auth.Scope, id int64) error {
	return s.invoices.tx.WithinTx(ctx, func(ctx context.Context) error {
		pay, err := s.Get(ctx, scope, id)
		if err != nil {
			return err
		}
		if err := s.invoices.payments.Delete(ctx, id); err != nil {
			return err
		}
		return s.invoices.settle(ctx, scope, pay.InvoiceID)
	})
}

func (s *Payments) save(ctx context.Context, scope auth.Scope, pay *domain.Payment, p PaymentPatch) error {
	if p.AmountCents != nil {
		if err := validate.Positive("amountCents", *p.AmountCents); err != nil {
			return err
		}
	}
	if p.InvoiceID != nil && pay.ID != 0 && *p.InvoiceID != pay.InvoiceID {
		return domain.Invalidf("a payment cannot move to another invoice")
	}
	crud.Set(&pay.AmountCents, p.AmountCents)
	if p.PaymentType != nil {
		pay.PaymentType = strings.ToUpper(strings.TrimSpace(*p.PaymentType))
	}
	crud.SetRef(&pay.StatusID, p.StatusID)
	if err := s.invoices.refs.CheckLookup(ctx, domain.LookupPaymentStatus, pay.StatusID); err != nil {
		return err
	}
	if pay.ID == 0 {
		inv, err := s.invoices.Get(ctx, scope, *p.InvoiceID)
		if domain.KindOf(err) == domain.KindNotFound {
			return domain.Invalidf("invoice %d does not exist", *p.InvoiceID)
		}
		if err != nil {
			return err
		}
		pay.InvoiceID = inv.ID
		pay.OwnerID = inv.OwnerID
	}

	// The lock serialises concurrent payments against one invoice.
	inv, err := s.invoices.repo.GetForUpdate(ctx, pay.InvoiceID)
	if err != nil {
		return err
	}
	paid, err := s.invoices.payments.PaidCents(ctx, inv.ID)
	if err != nil {
		return err
	}
	if pay.ID != 0 {
		prev, err := s.invoices.payments.GetByID(ctx, pay.ID)
		if err != nil {
			return err
		}
		paid -= prev.AmountCents
	}
	if paid+pay.AmountCents > inv.AmountCents {
		return domain.Invalidf("payments would exceed the invoice amount of %d cents", inv.AmountCents)
	}

	pay.Stamp(scope.Actor(), s.invoices.clock.Now())
	if pay.ID == 0 {
		err = s.invoices.payments.Create(ctx, pay)
	} else {
		err = s.invoices.payments.Update(ctx, pay)
	}
	if err != nil {
		return err
	}
	return s.invoices.settle(ctx, scope, inv.ID)
}
