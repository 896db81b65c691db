package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/koptay/client-portal/internal/api/metrics"
	"github.com/koptay/client-portal/internal/core/domain"
	"github.com/koptay/client-portal/internal/core/ports"
)

// NotificationService persists queued notifications (called by dispatcher
// workers) and serves the read/ack API.
type NotificationService struct {
	repo   ports.NotificationRepository
	logger zerolog.Logger
}

func NewNotificationService(repo ports.NotificationRepository, logger zerolog.Logger) *NotificationService {
	return &NotificationService{repo: repo, logger: logger}
}

func (s *NotificationService) Deliver(ctx context.Context, input ports.NotificationInput) error {
	notifType := input.Type
	if notifType == "" {
		notifType = domain.NotifyInApp
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}

	n := &domain.Notification{
		UserID:    input.UserID,
		Title:     input.Title,
		Message:   input.Message,
		Type:      notifType,
		Priority:  priority,
		Link:      deriveLink(input),
		CaseID:    input.CaseID,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("persist notification: %w", err)
	}

	metrics.NotificationsDeliveredTotal.WithLabelValues(string(notifType)).Inc()
	return nil
}

func (s *NotificationService) List(ctx context.Context, userID int64, unreadOnly bool, skip, limit int64) ([]domain.Notification, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}
	return s.repo.ListByUser(ctx, userID, unreadOnly, skip, limit)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID int64) error {
	if _, err := s.repo.FindOwned(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.MarkRead(ctx, id, userID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllRead(ctx, userID)
}

// deriveLink points the notification at the relevant portal view when the
// caller did not set a link explicitly.
func deriveLink(input ports.NotificationInput) string {
	if input.Link != "" {
		return input.Link
	}
	switch input.RelatedEntity {
	case "case":
		return fmt.Sprintf("/cases/%d", input.RelatedID)
	case "document":
		if input.CaseID != 0 {
			return fmt.Sprintf("/documents?case_id=%d", input.CaseID)
		}
		return "/documents"
	case "payment":
		return "/payments"
	default:
		return ""
	}
}
