package ports

import (
	"context"

	"github.com/koptay/client-portal/internal/core/domain"
)

// NotificationRepository defines persistence for in-app notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
	// FindOwned returns the notification only when it belongs to userID.
	FindOwned(ctx context.Context, id, userID int64) (*domain.Notification, error)
	ListByUser(ctx context.Context, userID int64, unreadOnly bool, skip, limit int64) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, id, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) error
}

// NotificationInput is one pending delivery handed to the dispatcher.
type NotificationInput struct {
	UserID   int64
	Title    string
	Message  string
	Type     domain.NotificationType
	Priority domain.NotificationPriority
	CaseID   int64
	// RelatedEntity and RelatedID derive the Link when it is not set
	// explicitly: "case", "document" or "payment".
	RelatedEntity string
	RelatedID     int64
	Link          string
}

// Notifier is the write side used by the other services: deliveries are
// queued and persisted asynchronously by the dispatcher.
type Notifier interface {
	// Notify queues a notification for one user.
	Notify(input NotificationInput)
	// NotifyStaff queues a copy of the notification for every staff account.
	NotifyStaff(ctx context.Context, input NotificationInput)
}

// NotificationService is the read/ack side exposed over the API.
type NotificationService interface {
	// Deliver persists one queued notification. Called by dispatcher workers.
	Deliver(ctx context.Context, input NotificationInput) error
	List(ctx context.Context, userID int64, unreadOnly bool, skip, limit int64) ([]domain.Notification, error)
	UnreadCount(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, id, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) error
}
