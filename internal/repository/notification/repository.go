package notification

import (
	"context"

	"marinaops/internal/domain"
	"marinaops/internal/filter"
	"marinaops/internal/page"
)

// Entity describes how notifications are listed. The owner column is the
// recipient.
var Entity = &filter.Entity{
	Table: "notifications",
	Alias: "n",
	Columns: []string{
		"n.id", "n.created_by_id", "n.sent_to_id", "n.message", "n.is_read",
		"n.entity_type", "n.entity_id", "n.created_at",
	},
	Owner: filter.NumberField("n.sent_to_id"),
	Search: []filter.Field{
		filter.TextField("n.message"),
		filter.TextField("n.entity_type"),
	},
	Sort: map[string]string{
		"createdAt": "n.created_at",
		"read":      "n.is_read",
	},
}

// Repository persists notifications.
type Repository interface {
	List(ctx context.Context, where filter.Predicate, req page.Request) (page.Page[domain.Notification], error)
	GetByID(ctx context.Context, id int64) (*domain.Notification, error)
	Create(ctx context.Context, n *domain.Notification) error
	MarkRead(ctx context.Context, id int64) error
	UnreadCount(ctx context.Context, userID int64) (int64, error)
}
