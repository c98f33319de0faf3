package memory

import (
	"context"
	"strings"

	"marinaops/internal/domain"
	"marinaops/internal/filter"
	"marinaops/internal/page"
	invoicerepo "marinaops/internal/repository/invoice"
	jobrepo "marinaops/internal/repository/job"
	notificationrepo "marinaops/internal/repository/notification"
)

// Jobs implements the work order and estimate repository.
type Jobs struct{ s *Store }

var _ jobrepo.Repository = Jobs{}

func (s *Store) Jobs() Jobs { return Jobs{s} }

func (r Jobs) row(j domain.Job) values {
	v := values{
		"j.id":             j.ID,
		"j.number":         j.Number,
		"j.problem":        j.Problem,
		"j.scheduled_date": dateValue(j.ScheduledDate),
		"j.due_date":       dateValue(j.DueDate),
		"j.mooring_id":     j.MooringID,
		"j.technician_id":  deref(j.TechnicianID),
		"j.owner_id":       j.OwnerID,
		"j.created_at":     j.CreatedAt,
		"ws.name":          r.s.lookupName(domain.LookupWorkOrderStatus, j.StatusID),
	}
	if m, ok := r.s.moorings[j.MooringID]; ok {
		v["m.mooring_number"], v["m.boat_name"] = m.MooringNumber, m.BoatName
	}
	if j.CustomerID != nil {
		if c, ok := r.s.customers[*j.CustomerID]; ok {
			v["c.first_name"], v["c.last_name"] = c.FirstName, c.LastName
		}
	}
	if j.BoatyardID != nil {
		if b, ok := r.s.boatyards[*j.BoatyardID]; ok {
			v["b.name"] = b.Name
		}
	}
	if j.TechnicianID != nil {
		if t, ok := r.s.users[*j.TechnicianID]; ok {
			v["t.name"] = t.Name
		}
	}
	return v
}

func (r Jobs) List(_ context.Context, kind domain.JobKind, where filter.Predicate, req page.Request) (page.Page[domain.Job], error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return list(jobrepo.EntityFor(kind), r.s.jobs[kind], where, req, r.row)
}

func (r Jobs) GetByID(_ context.Context, kind domain.JobKind, id int64) (*domain.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	j, ok := r.s.jobs[kind][id]
	if !ok {
		return nil, notFound(strings.ToLower(strings.ReplaceAll(string(kind), "_", " ")), id)
	}
	return &j, nil
}

func (r Jobs) NumberTaken(_ context.Context, kind domain.JobKind, ownerID int64, number string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.numberTaken(kind, ownerID, number, 0), nil
}

func (r Jobs) numberTaken(kind domain.JobKind, ownerID int64, number string, exceptID int64) bool {
	for _, j := range r.s.jobs[kind] {
		if j.ID != exceptID && j.OwnerID == ownerID && j.Number == number {
			return true
		}
	}
	return false
}

func (r Jobs) checkRefs(j *domain.Job) error {
	if _, ok := r.s.moorings[j.MooringID]; !ok {
		return fkViolation("mooring", j.MooringID)
	}
	if j.TechnicianID != nil {
		if _, ok := r.s.users[*j.TechnicianID]; !ok {
			return fkViolation("user", *j.TechnicianID)
		}
	}
	return nil
}

func (r Jobs) Create(_ context.Context, j *domain.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.checkRefs(j); err != nil {
		return err
	}
	if r.numberTaken(j.Kind, j.OwnerID, j.Number, 0) {
		return domain.Duplicatef("%s already exists", j.Number)
	}
	j.ID = r.s.nextID()
	r.s.jobs[j.Kind][j.ID] = *j
	return nil
}

func (r Jobs) Update(_ context.Context, j *domain.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.jobs[j.Kind][j.ID]; !ok {
		return notFound("job", j.ID)
	}
	if err := r.checkRefs(j); err != nil {
		return err
	}
	if r.numberTaken(j.Kind, j.OwnerID, j.Number, j.ID) {
		return domain.Duplicatef("%s already exists", j.Number)
	}
	r.s.jobs[j.Kind][j.ID] = *j
	return nil
}

func (r Jobs) Delete(_ context.Context, kind domain.JobKind, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.jobs[kind][id]; !ok {
		return notFound("job", id)
	}
	r.s.dropJob(kind, id)
	return nil
}

// Invoices implements the invoice repository.
type Invoices struct{ s *Store }

var _ invoicerepo.Repository = Invoices{}

func (s *Store) Invoices() Invoices { return Invoices{s} }

func (r Invoices) row(inv domain.Invoice) values {
	v := values{
		"inv.id":            inv.ID,
		"inv.amount_cents":  inv.AmountCents,
		"inv.work_order_id": inv.WorkOrderID,
		"inv.owner_id":      inv.OwnerID,
		"inv.created_at":    inv.CreatedAt,
		"ps.name":           r.s.lookupName(domain.LookupPaymentStatus, inv.StatusID),
	}
	if j, ok := r.s.jobs[domain.JobWorkOrder][inv.WorkOrderID]; ok {
		v["j.number"] = j.Number
	}
	return v
}

func (r Invoices) List(_ context.Context, where filter.Predicate, req page.Request) (page.Page[domain.Invoice], error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return list(invoicerepo.Invoices, r.s.invoices, where, req, r.row)
}

func (r Invoices) GetByID(_ context.Context, id int64) (*domain.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, notFound("invoice", id)
	}
	return &inv, nil
}

// GetForUpdate is GetByID; the store has no row locks.
func (r Invoices) GetForUpdate(ctx context.Context, id int64) (*domain.Invoice, error) {
	return r.GetByID(ctx, id)
}

func (r Invoices) Create(_ context.Context, inv *domain.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.jobs[domain.JobWorkOrder][inv.WorkOrderID]; !ok {
		return fkViolation("work order", inv.WorkOrderID)
	}
	inv.ID = r.s.nextID()
	r.s.invoices[inv.ID] = *inv
	return nil
}

func (r Invoices) Update(_ context.Context, inv *domain.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.invoices[inv.ID]; !ok {
		return notFound("invoice", inv.ID)
	}
	if _, ok := r.s.jobs[domain.JobWorkOrder][inv.WorkOrderID]; !ok {
		return fkViolation("work order", inv.WorkOrderID)
	}
	r.s.invoices[inv.ID] = *inv
	return nil
}

func (r Invoices) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.invoices[id]; !ok {
		return notFound("invoice", id)
	}
	r.s.dropInvoice(id)
	return nil
}

// Payments implements the payment repository.
type Payments struct{ s *Store }

var _ invoicerepo.PaymentRepository = Payments{}

func (s *Store) Payments() Payments { return Payments{s} }

func (r Payments) row(p domain.Payment) values {
	return values{
		"p.id":           p.ID,
		"p.amount_cents": p.AmountCents,
		"p.payment_type": p.PaymentType,
		"p.invoice_id":   p.InvoiceID,
		"p.owner_id":     p.OwnerID,
		"p.created_at":   p.CreatedAt,
		"ps.name":        r.s.lookupName(domain.LookupPaymentStatus, p.StatusID),
	}
}

func (r Payments) List(_ context.Context, where filter.Predicate, req page.Request) (page.Page[domain.Payment], error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return list(invoicerepo.Payments, r.s.payments, where, req, r.row)
}

func (r Payments) GetByID(_ context.Context, id int64) (*domain.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payments[id]
	if !ok {
		return nil, notFound("payment", id)
	}
	return &p, nil
}

func (r Payments) PaidCents(_ context.Context, invoiceID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var sum int64
	for _, p := range r.s.payments {
		if p.InvoiceID == invoiceID {
			sum += p.AmountCents
		}
	}
	return sum, nil
}

func (r Payments) Create(_ context.Context, p *domain.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.invoices[p.InvoiceID]; !ok {
		return fkViolation("invoice", p.InvoiceID)
	}
	p.ID = r.s.nextID()
	r.s.payments[p.ID] = *p
	return nil
}

func (r Payments) Update(_ context.Context, p *domain.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.payments[p.ID]; !ok {
		return notFound("payment", p.ID)
	}
	r.s.payments[p.ID] = *p
	return nil
}

func (r Payments) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.payments[id]; !ok {
		return notFound("payment", id)
	}
	delete(r.s.payments, id)
	return nil
}

// Notifications implements the notification repository.
type Notifications struct{ s *Store }

var _ notificationrepo.Repository = Notifications{}

func (s *Store) Notifications() Notifications { return Notifications{s} }

func notificationRow(n domain.Notification) values {
	return values{
		"n.id":          n.ID,
		"n.sent_to_id":  n.SentToID,
		"n.message":     n.Message,
		"n.entity_type": n.EntityType,
		"n.is_read":     n.Read,
		"n.created_at":  n.CreatedAt,
	}
}

func (r Notifications) List(_ context.Context, where filter.Predicate, req page.Request) (page.Page[domain.Notification], error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return list(notificationrepo.Entity, r.s.notifications, where, req, notificationRow)
}

func (r Notifications) GetByID(_ context.Context, id int64) (*domain.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notifications[id]
	if !ok {
		return nil, notFound("notification", id)
	}
	return &n, nil
}

func (r Notifications) Create(_ context.Context, n *domain.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[n.SentToID]; !ok {
		return fkViolation("user", n.SentToID)
	}
	n.ID = r.s.nextID()
	r.s.notifications[n.ID] = *n
	return nil
}

func (r Notifications) MarkRead(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notifications[id]
	if !ok {
		return notFound("notification", id)
	}
	n.Read = true
	r.s.notifications[id] = n
	return nil
}

func (r Notifications) UnreadCount(_ context.Context, userID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, x := range r.s.notifications {
		if x.SentToID == userID && !x.Read {
			n++
		}
	}
	return n, nil
}
