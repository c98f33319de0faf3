package memory

import (
	"context"
	"strings"

	"marinaops/internal/domain"
	"marinaops/internal/filter"
	"marinaops/internal/page"
	boatyardrepo "marinaops/internal/repository/boatyard"
	customerrepo "marinaops/internal/repository/customer"
	servicearearepo "marinaops/internal/repository/servicearea"
	vendorrepo "marinaops/internal/repository/vendor"
)

// Customers implements the customer repository.
type Customers struct{ s *Store }

var _ customerrepo.Repository = Customers{}

func (s *Store) Customers() Customers { return Customers{s} }

func (r Customers) row(c domain.Customer) values {
	return values{
		"c.id":         c.ID,
		"c.first_name": c.FirstName,
		"c.last_name":  c.LastName,
		"c.email":      c.Email,
		"c.phone":      c.Phone,
		"c.street":     c.Street,
		"c.apt":        c.Apt,
		"c.zip_code":   c.ZipCode,
		"c.owner_id":   c.OwnerID,
		"c.created_at": c.CreatedAt,
		"st.name":      r.s.stateName(c.StateID),
		"co.name":      r.s.countryName(c.CountryID),
	}
}

func (r Customers) List(_ context.Context, where filter.Predicate, req page.Request) (page.Page[domain.Customer], error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return list(customerrepo.Entity, r.s.customers, where, req, r.row)
}

func (r Customers) GetByID(_ context.Context, id int64) (*domain.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, notFound("customer", id)
	}
	return &c, nil
}

func (r Customers) EmailTaken(_ context.Context, ownerID int64, email string, exceptID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.emailTaken(ownerID, email, exceptID), nil
}

func (r Customers) emailTaken(ownerID int64, email string, exceptID int64) bool {
	if email == "" {
		return false
	}
	for _, c := range r.s.customers {
		if c.ID != exceptID && c.OwnerID == ownerID && strings.EqualFold(c.Email, email) {
			return true
		}
	}
	return false
}

func (r Customers) Create(_ context.Context, c *domain.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.emailTaken(c.OwnerID, c.Email, 0) {
		return domain.Duplicatef("customer already exists")
	}
	c.ID = r.s.nextID()
	r.s.customers[c.ID] = *c
	return nil
}

func (r Customers) Update(_ context.Context, c *domain.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[c.ID]; !ok {
		return notFound("customer", c.ID)
	}
	if r.emailTaken(c.OwnerID, c.Email, c.ID) {
		return domain.Duplicatef("customer already exists")
	}
	r.s.customers[c.ID] = *c
	return nil
}

func (r Customers) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[id]; !ok {
		return notFound("customer", id)
	}
	if r.s.mooringRefs(domain.ParentCustomer, id) {
		return fkViolation("customer", id)
	}
	delete(r.s.customers, id)
	r.s.nullJobRefs(domain.ParentCustomer, id)
	return nil
}

// Boatyards implements the boatyard repository.
type Boatyards struct{ s *Store }

var _ boatyardrepo.Repository = Boatyards{}

func (s *Store) Boatyards() Boatyards { return Boatyards{s} }

func (r Boatyards) row(b domain.Boatyard) values {
	return values{
		"b.id":           b.ID,
		"b.boatyard_id":  b.BoatyardID,
		"b.name":         b.Name,
		"b.street":       b.Street,
		"b.apt":          b.Apt,
		"b.zip_code":     b.ZipCode,
		"b.main_contact": b.MainContact,
		"b.owner_id":     b.OwnerID,
		"b.created_at":   b.CreatedAt,
		"st.name":        r.s.stateName(b.StateID),
		"co.name":        r.s.countryName(b.CountryID),
	}
}

func (r Boatyards) List(_ context.Context, where filter.Predicate, req page.Request) (page.Page[domain.Boatyard], error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return list(boatyardrepo.Entity, r.s.boatyards, where, req, r.row)
}

func (r Boatyards) GetByID(_ context.Context, id int64) (*domain.Boatyard, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.boatyards[id]
	if !ok {
		return nil, notFound("boatyard", id)
	}
	return &b, nil
}

func (r Boatyards) NameTaken(_ context.Context, ownerID int64, name string, exceptID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.nameTaken(ownerID, name, exceptID), nil
}

func (r Boatyards) nameTaken(ownerID int64, name string, exceptID int64) bool {
	for _, b := range r.s.boatyards {
		if b.ID != exceptID && b.OwnerID == ownerID && strings.EqualFold(b.Name, name) {
			return true
		}
	}
	return false
}

func (r Boatyards) BusinessIDTaken(_ context.Context, ownerID int64, businessID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.businessIDTaken(ownerID, businessID, 0), nil
}

func (r Boatyards) businessIDTaken(ownerID int64, businessID string, exceptID int64) bool {
	for _, b := range r.s.boatyards {
		if b.ID != exceptID && b.OwnerID == ownerID && b.BoatyardID == businessID {
			return true
		}
	}
	return false
}

func (r Boatyards) Create(_ context.Context, b *domain.Boatyard) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.nameTaken(b.OwnerID, b.Name, 0) || r.businessIDTaken(b.OwnerID, b.BoatyardID, 0) {
		return domain.Duplicatef("boatyard already exists")
	}
	b.ID = r.s.nextID()
	r.s.boatyards[b.ID] = *b
	return nil
}

func (r Boatyards) Update(_ context.Context, b *domain.Boatyard) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.boatyards[b.ID]; !ok {
		return notFound("boatyard", b.ID)
	}
	if r.nameTaken(b.OwnerID, b.Name, b.ID) || r.businessIDTaken(b.OwnerID, b.BoatyardID, b.ID) {
		return domain.Duplicatef("boatyard already exists")
	}
	r.s.boatyards[b.ID] = *b
	return nil
}

func (r Boatyards) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.boatyards[id]; !ok {
		return notFound("boatyard", id)
	}
	if r.s.mooringRefs(domain.ParentBoatyard, id) {
		return fkViolation("boatyard", id)
	}
	delete(r.s.boatyards, id)
	r.s.nullJobRefs(domain.ParentBoatyard, id)
	return nil
}

// ServiceAreas implements the service area repository.
type ServiceAreas struct{ s *Store }

var _ servicearearepo.Repository = ServiceAreas{}

func (s *Store) ServiceAreas() ServiceAreas { return ServiceAreas{s} }

func (r ServiceAreas) row(a domain.ServiceArea) values {
	return values{
		"sa.id":              a.ID,
		"sa.service_area_id": a.ServiceAreaID,
		"sa.name":            a.Name,
		"sa.street":          a.Street,
		"sa.apt":             a.Apt,
		"sa.zip_code":        a.ZipCode,
		"sa.notes":           a.Notes,
		"sa.owner_id":        a.OwnerID,
		"sa.created_at":      a.CreatedAt,
		"st.name":            r.s.stateName(a.StateID),
		"co.name":            r.s.countryName(a.CountryID),
		"sat.name":           r.s.lookupName(domain.LookupServiceAreaType, a.TypeID),
	}
}

func (r ServiceAreas) List(_ context.Context, where filter.Predicate, req page.Request) (page.Page[domain.ServiceArea], error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return list(servicearearepo.Entity, r.s.areas, where, req, r.row)
}

func (r ServiceAreas) GetByID(_ context.Context, id int64) (*domain.ServiceArea, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.areas[id]
	if !ok {
		return nil, notFound("service area", id)
	}
	return &a, nil
}

func (r ServiceAreas) NameTaken(_ context.Context, ownerID int64, name string, exceptID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.nameTaken(ownerID, name, exceptID), nil
}

func (r ServiceAreas) nameTaken(ownerID int64, name string, exceptID int64) bool {
	for _, a := range r.s.areas {
		if a.ID != exceptID && a.OwnerID == ownerID && strings.EqualFold(a.Name, name) {
			return true
		}
	}
	return false
}

func (r ServiceAreas) BusinessIDTaken(_ context.Context, ownerID int64, businessID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.businessIDTaken(ownerID, businessID, 0), nil
}

func (r ServiceAreas) businessIDTaken(ownerID int64, businessID string, exceptID int64) bool {
	for _, a := range r.s.areas {
		if a.ID != exceptID && a.OwnerID == ownerID && a.ServiceAreaID == businessID {
			return true
		}
	}
	return false
}

func (r ServiceAreas) Create(_ context.Context, a *domain.ServiceArea) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.nameTaken(a.OwnerID, a.Name, 0) || r.businessIDTaken(a.OwnerID, a.ServiceAreaID, 0) {
		return domain.Duplicatef("service area already exists")
	}
	a.ID = r.s.nextID()
	r.s.areas[a.ID] = *a
	return nil
}

func (r ServiceAreas) Update(_ context.Context, a *domain.ServiceArea) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.areas[a.ID]; !ok {
		return notFound("service area", a.ID)
	}
	if r.nameTaken(a.OwnerID, a.Name, a.ID) || r.businessIDTaken(a.OwnerID, a.ServiceAreaID, a.ID) {
		return domain.Duplicatef("service area already exists")
	}
	r.s.areas[a.ID] = *a
	return nil
}

func (r ServiceAreas) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.areas[id]; !ok {
		return notFound("service area", id)
	}
	if r.s.mooringRefs(domain.ParentServiceArea, id) {
		return fkViolation("service area", id)
	}
	delete(r.s.areas, id)
	return nil
}

// Vendors implements the vendor repository.
type Vendors struct{ s *Store }

var _ vendorrepo.Repository = Vendors{}

func (s *Store) Vendors() Vendors { return Vendors{s} }

func (r Vendors) row(v domain.Vendor) values {
	return values{
		"v.id":              v.ID,
		"v.company_name":    v.CompanyName,
		"v.company_phone":   v.CompanyPhone,
		"v.company_email":   v.CompanyEmail,
		"v.website":         v.Website,
		"v.street":          v.Street,
		"v.sales_rep_name":  v.SalesRepName,
		"v.sales_rep_email": v.SalesRepEmail,
		"v.account_number":  v.AccountNumber,
		"v.owner_id":        v.OwnerID,
		"v.created_at":      v.CreatedAt,
		"st.name":           r.s.stateName(v.StateID),
		"co.name":           r.s.countryName(v.CountryID),
	}
}

func (r Vendors) List(_ context.Context, where filter.Predicate, req page.Request) (page.Page[domain.Vendor], error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return list(vendorrepo.Entity, r.s.vendors, where, req, r.row)
}

func (r Vendors) GetByID(_ context.Context, id int64) (*domain.Vendor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.vendors[id]
	if !ok {
		return nil, notFound("vendor", id)
	}
	return &v, nil
}

func (r Vendors) NameTaken(_ context.Context, ownerID int64, companyName string, exceptID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.nameTaken(ownerID, companyName, exceptID), nil
}

func (r Vendors) nameTaken(ownerID int64, name string, exceptID int64) bool {
	for _, v := range r.s.vendors {
		if v.ID != exceptID && v.OwnerID == ownerID && strings.EqualFold(v.CompanyName, name) {
			return true
		}
	}
	return false
}

func (r Vendors) Create(_ context.Context, v *domain.Vendor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.nameTaken(v.OwnerID, v.CompanyName, 0) {
		return domain.Duplicatef("vendor already exists")
	}
	v.ID = r.s.nextID()
	r.s.vendors[v.ID] = *v
	return nil
}

func (r Vendors) Update(_ context.Context, v *domain.Vendor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.vendors[v.ID]; !ok {
		return notFound("vendor", v.ID)
	}
	if r.nameTaken(v.OwnerID, v.CompanyName, v.ID) {
		return domain.Duplicatef("vendor already exists")
	}
	r.s.vendors[v.ID] = *v
	return nil
}

// Delete removes the vendor and, like ON DELETE CASCADE, its inventory.
func (r Vendors) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.vendors[id]; !ok {
		return notFound("vendor", id)
	}
	delete(r.s.vendors, id)
	for iid, it := range r.s.inventory {
		if it.VendorID == id {
			delete(r.s.inventory, iid)
		}
	}
	return nil
}
