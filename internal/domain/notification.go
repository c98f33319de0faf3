package domain

import "time"

// Notification is a message for one user about one record.
type Notification struct {
	ID          int64
	CreatedByID int64
	SentToID    int64
	Message     string
	Read        bool
	EntityType  string
	EntityID    int64
	CreatedAt   time.Time
}
