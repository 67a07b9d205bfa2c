package notifications

import "context"

type StoreAPI interface {
	CreateNotification(ctx context.Context, username, ntype, title, body string) error
	ListNotifications(ctx context.Context, username string, limit, offset int) ([]Notification, error)
	CountUnread(ctx context.Context, username string) (int, error)
	MarkRead(ctx context.Context, username, notificationID string) error
}
