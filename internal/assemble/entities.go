package assemble

import (
	"context"
	"time"

	"marinaops/internal/domain"
)

const dateLayout = "2006-01-02"

func (a *Assembler) User(ctx context.Context, u domain.User) (UserResponse, error) {
	r := a.user(ctx, u)
	return r, a.err
}

func (a *Assembler) Users(ctx context.Context, us []domain.User) ([]UserResponse, error) {
	return many(ctx, a, us, a.user)
}

func (a *Assembler) user(ctx context.Context, u domain.User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Phone:         u.Phone,
		Role:          string(u.Role),
		State:         a.stateRef(ctx, u.StateID),
		Country:       a.countryRef(ctx, u.CountryID),
		CustomerAdmin: a.userRef(ctx, u.CustomerAdminID),
		Audit:         audit(u.Audit),
	}
}

func (a *Assembler) Customer(ctx context.Context, c domain.Customer) (CustomerResponse, error) {
	r := a.customer(ctx, c)
	return r, a.err
}

func (a *Assembler) Customers(ctx context.Context, cs []domain.Customer) ([]CustomerResponse, error) {
	return many(ctx, a, cs, a.customer)
}

func (a *Assembler) customer(ctx context.Context, c domain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:              c.ID,
		FirstName:       c.FirstName,
		LastName:        c.LastName,
		EmailAddress:    c.Email,
		Phone:           c.Phone,
		StreetHouse:     c.Street,
		AptSuite:        c.Apt,
		ZipCode:         c.ZipCode,
		State:           a.stateRef(ctx, c.StateID),
		Country:         a.countryRef(ctx, c.CountryID),
		CustomerOwnerID: c.OwnerID,
		Moorings:        a.children(ctx, domain.ParentCustomer, c.ID),
		Audit:           audit(c.Audit),
	}
}

func (a *Assembler) Boatyard(ctx context.Context, b domain.Boatyard) (BoatyardResponse, error) {
	r := a.boatyard(ctx, b)
	return r, a.err
}

func (a *Assembler) Boatyards(ctx context.Context, bs []domain.Boatyard) ([]BoatyardResponse, error) {
	return many(ctx, a, bs, a.boatyard)
}

func (a *Assembler) boatyard(ctx context.Context, b domain.Boatyard) BoatyardResponse {
	moorings := a.children(ctx, domain.ParentBoatyard, b.ID)
	return BoatyardResponse{
		ID:                 b.ID,
		BoatyardID:         b.BoatyardID,
		BoatyardName:       b.Name,
		Street:             b.Street,
		Apt:                b.Apt,
		ZipCode:            b.ZipCode,
		State:              a.stateRef(ctx, b.StateID),
		Country:            a.countryRef(ctx, b.CountryID),
		GPSCoordinates:     b.GPSCoordinates,
		MainContact:        b.MainContact,
		CustomerOwnerID:    b.OwnerID,
		MooringInventoried: len(moorings),
		Moorings:           moorings,
		Audit:              audit(b.Audit),
	}
}

func (a *Assembler) ServiceArea(ctx context.Context, s domain.ServiceArea) (ServiceAreaResponse, error) {
	r := a.serviceArea(ctx, s)
	return r, a.err
}

func (a *Assembler) ServiceAreas(ctx context.Context, ss []domain.ServiceArea) ([]ServiceAreaResponse, error) {
	return many(ctx, a, ss, a.serviceArea)
}

func (a *Assembler) serviceArea(ctx context.Context, s domain.ServiceArea) ServiceAreaResponse {
	moorings := a.children(ctx, domain.ParentServiceArea, s.ID)
	return ServiceAreaResponse{
		ID:                 s.ID,
		ServiceAreaID:      s.ServiceAreaID,
		ServiceAreaName:    s.Name,
		ServiceAreaType:    a.lookupRef(ctx, domain.LookupServiceAreaType, s.TypeID),
		Street:             s.Street,
		Apt:                s.Apt,
		ZipCode:            s.ZipCode,
		State:              a.stateRef(ctx, s.StateID),
		Country:            a.countryRef(ctx, s.CountryID),
		GPSCoordinates:     s.GPSCoordinates,
		Notes:              s.Notes,
		CustomerOwnerID:    s.OwnerID,
		MooringInventoried: len(moorings),
		Moorings:           moorings,
		Audit:              audit(s.Audit),
	}
}

func (a *Assembler) Mooring(ctx context.Context, m domain.Mooring) (MooringResponse, error) {
	r := a.mooring(ctx, m)
	return r, a.err
}

func (a *Assembler) Moorings(ctx context.Context, ms []domain.Mooring) ([]MooringResponse, error) {
	return many(ctx, a, ms, a.mooring)
}

func (a *Assembler) mooring(ctx context.Context, m domain.Mooring) MooringResponse {
	r := flatMooring(m)
	r.Customer = a.customerRef(ctx, m.CustomerID)
	r.Boatyard = a.boatyardRef(ctx, m.BoatyardID)
	r.ServiceArea = a.serviceAreaRef(ctx, m.ServiceAreaID)
	return r
}

func flatMooring(m domain.Mooring) MooringResponse {
	return MooringResponse{
		ID:                     m.ID,
		MooringNumber:          m.MooringNumber,
		BoatName:               m.BoatName,
		BoatSize:               m.BoatSize,
		BoatType:               m.BoatType,
		BoatWeight:             m.BoatWeight,
		SizeOfWeight:           m.SizeOfWeight,
		TypeOfWeight:           m.TypeOfWeight,
		TopChainCondition:      m.TopChainCondition,
		BottomChainCondition:   m.BottomChainCondition,
		ShackleSwivelCondition: m.ShackleSwivelCondition,
		EyeCondition:           m.EyeCondition,
		PennantCondition:       m.PennantCondition,
		DepthAtMeanHighWater:   m.DepthAtMeanHighWater,
		GPSCoordinates:         m.GPSCoordinates,
		Status:                 m.Status,
		CustomerID:             m.CustomerID,
		BoatyardID:             m.BoatyardID,
		ServiceAreaID:          m.ServiceAreaID,
		CustomerOwnerID:        m.OwnerID,
		Audit:                  audit(m.Audit),
	}
}

func (a *Assembler) Vendor(ctx context.Context, v domain.Vendor) (VendorResponse, error) {
	r := a.vendor(ctx, v)
	return r, a.err
}

func (a *Assembler) Vendors(ctx context.Context, vs []domain.Vendor) ([]VendorResponse, error) {
	return many(ctx, a, vs, a.vendor)
}

func (a *Assembler) vendor(ctx context.Context, v domain.Vendor) VendorResponse {
	return VendorResponse{
		ID:              v.ID,
		CompanyName:     v.CompanyName,
		CompanyPhone:    v.CompanyPhone,
		CompanyEmail:    v.CompanyEmail,
		Website:         v.Website,
		Street:          v.Street,
		Apt:             v.Apt,
		ZipCode:         v.ZipCode,
		State:           a.stateRef(ctx, v.StateID),
		Country:         a.countryRef(ctx, v.CountryID),
		RemitStreet:     v.RemitStreet,
		RemitEmail:      v.RemitEmail,
		RemitPhone:      v.RemitPhone,
		SalesRepName:    v.SalesRepName,
		SalesRepPhone:   v.SalesRepPhone,
		SalesRepEmail:   v.SalesRepEmail,
		AccountNumber:   v.AccountNumber,
		CustomerOwnerID: v.OwnerID,
		InventoryItems:  a.inventoryCount(ctx, v.ID),
		Audit:           audit(v.Audit),
	}
}

func (a *Assembler) InventoryItem(ctx context.Context, it domain.Inventory) (InventoryResponse, error) {
	r := a.inventory(ctx, it)
	return r, a.err
}

func (a *Assembler) Inventory(ctx context.Context, items []domain.Inventory) ([]InventoryResponse, error) {
	return many(ctx, a, items, a.inventory)
}

func (a *Assembler) inventory(ctx context.Context, it domain.Inventory) InventoryResponse {
	return InventoryResponse{
		ID:             it.ID,
		ItemName:       it.ItemName,
		CostCents:      it.CostCents,
		SalePriceCents: it.SalePriceCents,
		Taxable:        it.Taxable,
		Quantity:       it.Quantity,
		InventoryType:  a.lookupRef(ctx, domain.LookupInventoryType, it.InventoryTypeID),
		Vendor:         a.vendorRef(ctx, it.VendorID),
		Audit:          audit(it.Audit),
	}
}

func (a *Assembler) Job(ctx context.Context, j domain.Job) (JobResponse, error) {
	r := a.job(ctx, j)
	return r, a.err
}

func (a *Assembler) Jobs(ctx context.Context, js []domain.Job) ([]JobResponse, error) {
	return many(ctx, a, js, a.job)
}

func (a *Assembler) job(ctx context.Context, j domain.Job) JobResponse {
	return JobResponse{
		ID:              j.ID,
		Kind:            string(j.Kind),
		Number:          j.Number,
		ScheduledDate:   date(j.ScheduledDate),
		DueDate:         date(j.DueDate),
		Problem:         j.Problem,
		Mooring:         a.mooringRef(ctx, j.MooringID),
		Customer:        a.customerRef(ctx, j.CustomerID),
		Boatyard:        a.boatyardRef(ctx, j.BoatyardID),
		Technician:      a.userRef(ctx, j.TechnicianID),
		Status:          a.lookupRef(ctx, domain.LookupWorkOrderStatus, j.StatusID),
		CustomerOwnerID: j.OwnerID,
		Audit:           audit(j.Audit),
	}
}

func date(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func (a *Assembler) Invoice(ctx context.Context, inv domain.Invoice) (InvoiceResponse, error) {
	r := a.invoice(ctx, inv)
	return r, a.err
}

func (a *Assembler) Invoices(ctx context.Context, invs []domain.Invoice) ([]InvoiceResponse, error) {
	return many(ctx, a, invs, a.invoice)
}

func (a *Assembler) invoice(ctx context.Context, inv domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:              inv.ID,
		AmountCents:     inv.AmountCents,
		PaymentStatus:   a.lookupRef(ctx, domain.LookupPaymentStatus, inv.StatusID),
		WorkOrder:       a.workOrderRef(ctx, inv.WorkOrderID),
		CustomerOwnerID: inv.OwnerID,
		Audit:           audit(inv.Audit),
	}
}

func (a *Assembler) Payment(ctx context.Context, p domain.Payment) (PaymentResponse, error) {
	r := a.payment(ctx, p)
	return r, a.err
}

func (a *Assembler) Payments(ctx context.Context, ps []domain.Payment) ([]PaymentResponse, error) {
	return many(ctx, a, ps, a.payment)
}

func (a *Assembler) payment(ctx context.Context, p domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:              p.ID,
		AmountCents:     p.AmountCents,
		PaymentType:     p.PaymentType,
		PaymentStatus:   a.lookupRef(ctx, domain.LookupPaymentStatus, p.StatusID),
		Invoice:         a.invoiceRef(ctx, p.InvoiceID),
		CustomerOwnerID: p.OwnerID,
		Audit:           audit(p.Audit),
	}
}

func (a *Assembler) Notifications(ctx context.Context, ns []domain.Notification) ([]NotificationResponse, error) {
	return many(ctx, a, ns, func(ctx context.Context, n domain.Notification) NotificationResponse {
		by := n.CreatedByID
		return NotificationResponse{
			ID:         n.ID,
			CreatedBy:  a.userRef(ctx, &by),
			Message:    n.Message,
			Read:       n.Read,
			EntityType: n.EntityType,
			EntityID:   n.EntityID,
			CreatedAt:  n.CreatedAt,
		}
	})
}

// Lookup renders a reference row; it needs no Assembler state.
func Lookup(l domain.Lookup) LookupResponse {
	return LookupResponse{ID: l.ID, Name: l.Name}
}

func State(s domain.State) StateResponse {
	return StateResponse{ID: s.ID, Name: s.Name, Code: s.Code}
}

func Country(c domain.Country) CountryResponse {
	return CountryResponse{ID: c.ID, Name: c.Name, Code: c.Code}
}
