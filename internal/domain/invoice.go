package domain

// Invoice bills a work order.
type Invoice struct {
	ID          int64
	AmountCents int64
	StatusID    *int64
	WorkOrderID int64
	OwnerID     int64
	Audit
}

// Payment settles part or all of an invoice.
type Payment struct {
	ID          int64
	AmountCents int64
	PaymentType string
	StatusID    *int64
	InvoiceID   int64
	OwnerID     int64
	Audit
}
