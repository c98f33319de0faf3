package memory

import "marinaops/internal/domain"

// The helpers below mirror the ON DELETE rules of the schema. Callers hold
// the store lock.

func (s *Store) dropMooring(id int64) {
	delete(s.moorings, id)
	for kind, jobs := range s.jobs {
		for jid, j := range jobs {
			if j.MooringID == id {
				s.dropJob(kind, jid)
			}
		}
	}
}

func (s *Store) dropJob(kind domain.JobKind, id int64) {
	delete(s.jobs[kind], id)
	if kind != domain.JobWorkOrder {
		return
	}
	for iid, inv := range s.invoices {
		if inv.WorkOrderID == id {
			s.dropInvoice(iid)
		}
	}
}

func (s *Store) dropInvoice(id int64) {
	delete(s.invoices, id)
	for pid, p := range s.payments {
		if p.InvoiceID == id {
			delete(s.payments, pid)
		}
	}
}

func (s *Store) mooringRefs(parent domain.MooringParent, id int64) bool {
	for _, m := range s.moorings {
		if p := m.ParentID(parent); p != nil && *p == id {
			return true
		}
	}
	return false
}

// nullJobRefs clears the customer or boatyard reference of every job.
func (s *Store) nullJobRefs(parent domain.MooringParent, id int64) {
	for kind, jobs := range s.jobs {
		for jid, j := range jobs {
			switch {
			case parent == domain.ParentCustomer && j.CustomerID != nil && *j.CustomerID == id:
				j.CustomerID = nil
			case parent == domain.ParentBoatyard && j.BoatyardID != nil && *j.BoatyardID == id:
				j.BoatyardID = nil
			default:
				continue
			}
			s.jobs[kind][jid] = j
		}
	}
}

func fkViolation(what string, id int64) error {
	return domain.Invalidf("%s %d is still referenced", what, id)
}
