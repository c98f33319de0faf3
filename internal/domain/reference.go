package domain

// State is a lookup row for addresses.
type State struct {
	ID   int64
	Name string
	Code string
}

// Country is a lookup row for addresses.
type Country struct {
	ID   int64
	Name string
	Code string
}

// LookupKind names a simple id/name reference table.
type LookupKind string

const (
	LookupInventoryType   LookupKind = "inventory_types"
	LookupServiceAreaType LookupKind = "service_area_types"
	LookupWorkOrderStatus LookupKind = "work_order_statuses"
	LookupPaymentStatus   LookupKind = "payment_statuses"
)

// Valid reports whether k names a known lookup table.
func (k LookupKind) Valid() bool {
	switch k {
	case LookupInventoryType, LookupServiceAreaType, LookupWorkOrderStatus, LookupPaymentStatus:
		return true
	}
	return false
}

// Lookup is a row of one of the LookupKind tables.
type Lookup struct {
	ID   int64
	Kind LookupKind
	Name string
}

// Well-known lookup names.
const (
	PaymentStatusUnpaid  = "UNPAID"
	PaymentStatusPartial = "PARTIALLY_PAID"
	PaymentStatusPaid    = "PAID"

	WorkOrderStatusOpen = "OPEN"
)
