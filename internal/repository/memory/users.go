package memory

import (
	"context"
	"strings"

	"marinaops/internal/domain"
	"marinaops/internal/filter"
	"marinaops/internal/page"
	userrepo "marinaops/internal/repository/user"
)

// Users implements the user repository.
type Users struct{ s *Store }

var _ userrepo.Repository = Users{}

func (s *Store) Users() Users { return Users{s} }

func userRow(u domain.User) values {
	return values{
		"u.id":                u.ID,
		"u.name":              u.Name,
		"u.email":             u.Email,
		"u.phone":             u.Phone,
		"u.role":              string(u.Role),
		"u.customer_admin_id": deref(u.CustomerAdminID),
		"u.created_at":        u.CreatedAt,
	}
}

func (r Users) List(_ context.Context, where filter.Predicate, req page.Request) (page.Page[domain.User], error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return list(userrepo.Entity, r.s.users, where, req, userRow)
}

func (r Users) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, notFound("user", id)
	}
	return &u, nil
}

func (r Users) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, domain.NotFoundf("user not found")
}

func (r Users) emailTaken(email string, exceptID int64) bool {
	for _, u := range r.s.users {
		if u.ID != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (r Users) Create(_ context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.emailTaken(u.Email, 0) {
		return domain.Duplicatef("user %s already exists", u.Email)
	}
	u.ID = r.s.nextID()
	u.Email = strings.ToLower(u.Email)
	r.s.users[u.ID] = *u
	return nil
}

func (r Users) Update(_ context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; !ok {
		return notFound("user", u.ID)
	}
	if r.emailTaken(u.Email, u.ID) {
		return domain.Duplicatef("user %s already exists", u.Email)
	}
	u.Email = strings.ToLower(u.Email)
	r.s.users[u.ID] = *u
	return nil
}

// Delete refuses users that still own records, like the foreign keys do.
func (r Users) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return notFound("user", id)
	}
	if r.s.ownsRecords(id) {
		return domain.Invalidf("user %d references a missing or still used record", id)
	}
	delete(r.s.users, id)
	for nid, n := range r.s.notifications {
		if n.SentToID == id || n.CreatedByID == id {
			delete(r.s.notifications, nid)
		}
	}
	for kind, jobs := range r.s.jobs {
		for jid, j := range jobs {
			if j.TechnicianID != nil && *j.TechnicianID == id {
				j.TechnicianID = nil
				r.s.jobs[kind][jid] = j
			}
		}
	}
	return nil
}

func (s *Store) ownsRecords(userID int64) bool {
	for _, u := range s.users {
		if u.CustomerAdminID != nil && *u.CustomerAdminID == userID {
			return true
		}
	}
	for _, c := range s.customers {
		if c.OwnerID == userID {
			return true
		}
	}
	for _, b := range s.boatyards {
		if b.OwnerID == userID {
			return true
		}
	}
	for _, a := range s.areas {
		if a.OwnerID == userID {
			return true
		}
	}
	for _, m := range s.moorings {
		if m.OwnerID == userID {
			return true
		}
	}
	for _, v := range s.vendors {
		if v.OwnerID == userID {
			return true
		}
	}
	for _, jobs := range s.jobs {
		for _, j := range jobs {
			if j.OwnerID == userID {
				return true
			}
		}
	}
	for _, inv := range s.invoices {
		if inv.OwnerID == userID {
			return true
		}
	}
	return false
}
