// Package notify publishes notification events to a message broker.
package notify

import (
	"context"
	"time"
)

// Event is the broker payload for one stored notification.
type Event struct {
	NotificationID int64     `json:"notificationId"`
	CreatedByID    int64     `json:"createdById"`
	SentToID       int64     `json:"sentToId"`
	Message        string    `json:"message"`
	EntityType     string    `json:"entityType"`
	EntityID       int64     `json:"entityId"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
