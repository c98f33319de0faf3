package domain

import "time"

// JobKind distinguishes work orders from estimates; both share one shape.
type JobKind string

const (
	JobWorkOrder JobKind = "WORK_ORDER"
	JobEstimate  JobKind = "ESTIMATE"
)

// Prefix is the business number prefix for the kind.
func (k JobKind) Prefix() string {
	if k == JobEstimate {
		return "ES"
	}
	return "WO"
}

// Job is a work order or an estimate against a mooring.
type Job struct {
	ID            int64
	Kind          JobKind
	Number        string
	ScheduledDate *time.Time
	DueDate       *time.Time
	Problem       string
	MooringID     int64
	CustomerID    *int64
	BoatyardID    *int64
	TechnicianID  *int64
	StatusID      *int64
	OwnerID       int64
	Audit
}
