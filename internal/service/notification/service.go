// Package notification stores user notifications and forwards them to
// the broker.
package notification

import (
	"context"

	"github.com/rs/zerolog"

	"marinaops/internal/auth"
	"marinaops/internal/domain"
	"marinaops/internal/filter"
	"marinaops/internal/logging"
	"marinaops/internal/notify"
	"marinaops/internal/page"
	notificationrepo "marinaops/internal/repository/notification"
	"marinaops/internal/service/crud"
)

type Service struct {
	repo      notificationrepo.Repository
	publisher notify.Publisher
	clock     crud.Clock
	logger    zerolog.Logger
}

func New(repo notificationrepo.Repository, publisher notify.Publisher, logger *zerolog.Logger) *Service {
	if publisher == nil {
		publisher = notify.Nop{}
	}
	return &Service{repo: repo, publisher: publisher, logger: logging.OrNop(logger)}
}

// Notify stores a notification for sentTo and publishes it. A broker
// failure is logged and does not fail the call.
func (s *Service) Notify(ctx context.Context, createdBy, sentTo int64, message, entityType string, entityID int64) (*domain.Notification, error) {
	n, err := s.Record(ctx, createdBy, sentTo, message, entityType, entityID)
	if err != nil {
		return nil, err
	}
	s.Publish(ctx, n)
	return n, nil
}

// Record stores a notification without publishing it. Callers inside a
// transaction publish the result once it has committed.
func (s *Service) Record(ctx context.Context, createdBy, sentTo int64, message, entityType string, entityID int64) (*domain.Notification, error) {
	n := &domain.Notification{
		CreatedByID: createdBy,
		SentToID:    sentTo,
		Message:     message,
		EntityType:  entityType,
		EntityID:    entityID,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// Publish forwards a stored notification to the broker. Failures are
// logged only; the notification stays readable through List.
func (s *Service) Publish(ctx context.Context, n *domain.Notification) {
	err := s.publisher.Publish(ctx, notify.Event{
		NotificationID: n.ID,
		CreatedByID:    n.CreatedByID,
		SentToID:       n.SentToID,
		Message:        n.Message,
		EntityType:     n.EntityType,
		EntityID:       n.EntityID,
		CreatedAt:      n.CreatedAt,
	})
	if err != nil {
		s.logger.Warn().Err(err).Int64("notification", n.ID).Msg("notification not published")
	}
}

// List returns the caller's own notifications.
func (s *Service) List(ctx context.Context, scope auth.Scope, req page.Request) (page.Page[domain.Notification], error) {
	where := filter.All{
		filter.OwnedBy(notificationrepo.Entity, scope.Caller().UserID),
		filter.Search(notificationrepo.Entity, req.SearchText),
	}
	return s.repo.List(ctx, where, req)
}

// MarkRead flags one of the caller's notifications as read.
func (s *Service) MarkRead(ctx context.Context, scope auth.Scope, id int64) (*domain.Notification, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.SentToID != scope.Caller().UserID {
		return nil, domain.Unauthorizedf("notification belongs to another user")
	}
	if err := s.repo.MarkRead(ctx, id); err != nil {
		return nil, err
	}
	n.Read = true
	return n, nil
}

func (s *Service) UnreadCount(ctx context.Context, scope auth.Scope) (int64, error) {
	return s.repo.UnreadCount(ctx, scope.Caller().UserID)
}
