package memory

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marinaops/internal/domain"
	"marinaops/internal/filter"
	"marinaops/internal/page"
	boatyardrepo "marinaops/internal/repository/boatyard"
	inventoryrepo "marinaops/internal/repository/inventory"
)

func ptr(v int64) *int64 { return &v }

func TestList_ScopesSearchesAndPages(t *testing.T) {
	ctx := context.Background()
	s := New()
	ma := s.AddState("Massachusetts", "MA")
	yards := s.Boatyards()
	for _, b := range []domain.Boatyard{
		{BoatyardID: "BY001", Name: "Harbor", OwnerID: 1, StateID: &ma},
		{BoatyardID: "BY002", Name: "Cove", OwnerID: 1},
		{BoatyardID: "BY001", Name: "Harbor", OwnerID: 2},
	} {
		b := b
		require.NoError(t, yards.Create(ctx, &b))
	}

	where := filter.All{filter.OwnedBy(boatyardrepo.Entity, 1), filter.Search(boatyardrepo.Entity, "massa")}
	got, err := yards.List(ctx, where, page.Request{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.Total)
	assert.Equal(t, "Harbor", got.Items[0].Name)

	got, err = yards.List(ctx, filter.OwnedBy(boatyardrepo.Entity, 1), page.Request{SortBy: "name", PageSize: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.Total)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Cove", got.Items[0].Name)

	_, err = yards.List(ctx, filter.True{}, page.Request{SortBy: "nope"})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestList_HugePageNumberIsEmpty(t *testing.T) {
	ctx := context.Background()
	s := New()
	yards := s.Boatyards()
	require.NoError(t, yards.Create(ctx, &domain.Boatyard{BoatyardID: "BY001", Name: "Harbor", OwnerID: 1}))

	got, err := yards.List(ctx, filter.True{}, page.Request{PageNumber: math.MaxInt64 / 10, PageSize: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.Total)
	assert.Empty(t, got.Items)
}

func TestBoatyards_UniquePerOwner(t *testing.T) {
	ctx := context.Background()
	s := New()
	yards := s.Boatyards()
	require.NoError(t, yards.Create(ctx, &domain.Boatyard{BoatyardID: "BY001", Name: "Harbor", OwnerID: 1}))
	err := yards.Create(ctx, &domain.Boatyard{BoatyardID: "BY002", Name: "harbor", OwnerID: 1})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	taken, err := yards.BusinessIDTaken(ctx, 2, "BY001")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestMooringDelete_CascadesToJobsInvoicesPayments(t *testing.T) {
	ctx := context.Background()
	s := New()
	m := &domain.Mooring{MooringNumber: "M1", OwnerID: 1}
	require.NoError(t, s.Moorings().Create(ctx, m))
	wo := &domain.Job{Kind: domain.JobWorkOrder, Number: "WO00001", MooringID: m.ID, OwnerID: 1}
	require.NoError(t, s.Jobs().Create(ctx, wo))
	inv := &domain.Invoice{AmountCents: 1000, WorkOrderID: wo.ID, OwnerID: 1}
	require.NoError(t, s.Invoices().Create(ctx, inv))
	p := &domain.Payment{AmountCents: 500, InvoiceID: inv.ID, OwnerID: 1}
	require.NoError(t, s.Payments().Create(ctx, p))

	require.NoError(t, s.Moorings().Delete(ctx, m.ID))

	_, err := s.Jobs().GetByID(ctx, domain.JobWorkOrder, wo.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.Invoices().GetByID(ctx, inv.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.Payments().GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCustomerDelete_BlockedByMooringsAndNullsJobs(t *testing.T) {
	ctx := context.Background()
	s := New()
	c := &domain.Customer{FirstName: "Ann", OwnerID: 1}
	require.NoError(t, s.Customers().Create(ctx, c))
	m := &domain.Mooring{MooringNumber: "M1", CustomerID: ptr(c.ID), OwnerID: 1}
	require.NoError(t, s.Moorings().Create(ctx, m))
	other := &domain.Mooring{MooringNumber: "M2", OwnerID: 1}
	require.NoError(t, s.Moorings().Create(ctx, other))
	j := &domain.Job{Kind: domain.JobEstimate, Number: "ES00001", MooringID: other.ID, CustomerID: ptr(c.ID), OwnerID: 1}
	require.NoError(t, s.Jobs().Create(ctx, j))

	err := s.Customers().Delete(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)

	n, err := s.Moorings().DeleteByParent(ctx, domain.ParentCustomer, c.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	require.NoError(t, s.Customers().Delete(ctx, c.ID))

	got, err := s.Jobs().GetByID(ctx, domain.JobEstimate, j.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CustomerID)
}

func TestInventory_OwnerFromVendorAndUpsert(t *testing.T) {
	ctx := context.Background()
	s := New()
	v := &domain.Vendor{CompanyName: "Chains Inc", OwnerID: 7}
	require.NoError(t, s.Vendors().Create(ctx, v))
	require.NoError(t, s.Inventory().Create(ctx, &domain.Inventory{ItemName: "Shackle", CostCents: 1250, VendorID: v.ID}))

	again := &domain.Inventory{ItemName: "SHACKLE", CostCents: 1300, Quantity: 4, VendorID: v.ID}
	require.NoError(t, s.Inventory().Upsert(ctx, again))
	items, err := s.Inventory().ListByVendor(ctx, v.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.EqualValues(t, 1300, items[0].CostCents)
	assert.EqualValues(t, 7, items[0].OwnerID)

	got, err := s.Inventory().List(ctx, filter.Search(inventoryrepo.Entity, "13"), page.Request{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.Total)

	require.NoError(t, s.Vendors().Delete(ctx, v.ID))
	items, err = s.Inventory().ListByVendor(ctx, v.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestUserDelete_RestrictedWhileOwning(t *testing.T) {
	ctx := context.Background()
	s := New()
	owner := s.AddUser(domain.User{Email: "o@example.com", Role: domain.RoleOwner})
	require.NoError(t, s.Vendors().Create(ctx, &domain.Vendor{CompanyName: "X", OwnerID: owner}))
	err := s.Users().Delete(ctx, owner)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
