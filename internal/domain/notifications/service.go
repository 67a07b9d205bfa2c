package notifications

import (
	"context"
	"log/slog"
)

type Service struct {
	store StoreAPI
}

func New(store StoreAPI) *Service {
	return &Service{store: store}
}

// Notify records an in-app notification. Failures are logged, never
// propagated: a missed notification must not fail the operation it follows.
func (s *Service) Notify(ctx context.Context, username, ntype, title, body string) {
	if err := s.store.CreateNotification(ctx, username, ntype, title, body); err != nil {
		slog.Warn("notification create failed", "err", err, "user", username, "type", ntype)
	}
}

func (s *Service) List(ctx context.Context, username string, limit, offset int) ([]Notification, error) {
	return s.store.ListNotifications(ctx, username, limit, offset)
}

func (s *Service) CountUnread(ctx context.Context, username string) (int, error) {
	return s.store.CountUnread(ctx, username)
}

func (s *Service) MarkRead(ctx context.Context, username, notificationID string) error {
	return s.store.MarkRead(ctx, username, notificationID)
}
