package domain

// Vendor supplies inventory. Company, remit and sales-rep contacts are
// stored side by side.
type Vendor struct {
	ID            int64
	CompanyName   string
	CompanyPhone  string
	CompanyEmail  string
	Website       string
	Street        string
	Apt           string
	ZipCode       string
	StateID       *int64
	CountryID     *int64
	RemitStreet   string
	RemitEmail    string
	RemitPhone    string
	SalesRepName  string
	SalesRepPhone string
	SalesRepEmail string
	AccountNumber string
	OwnerID       int64
	Audit
}

// Inventory is an item a vendor sells. Money is kept in cents. The owner
// scope is inherited from the vendor.
type Inventory struct {
	ID              int64
	ItemName        string
	CostCents       int64
	SalePriceCents  int64
	Taxable         bool
	Quantity        int
	InventoryTypeID *int64
	VendorID        int64
	OwnerID         int64
	Audit
}
