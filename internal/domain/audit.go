package domain

import "time"

// Audit carries the bookkeeping columns shared by every record.
type Audit struct {
	CreatedAt      time.Time
	UpdatedAt      time.Time
	CreatedBy      string
	LastModifiedBy string
}

// Stamp fills the audit columns for a save performed by actor at now.
// Creation fields are only set the first time.
func (a *Audit) Stamp(actor string, now time.Time) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
		a.CreatedBy = actor
	}
	a.UpdatedAt = now
	a.LastModifiedBy = actor
}
