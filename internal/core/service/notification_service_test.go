package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/koptay/client-portal/internal/core/domain"
	"github.com/koptay/client-portal/internal/core/ports"
)

func TestNotificationService_Deliver_Defaults(t *testing.T) {
	repo := newStubNotificationRepo()
	svc := NewNotificationService(repo, zerolog.Nop())

	if err := svc.Deliver(context.Background(), ports.NotificationInput{
		UserID:  10,
		Title:   "Merhaba",
		Message: "Hoş geldiniz",
	}); err != nil {
		t.Fatalf("Deliver returned error: %v", err)
	}

	list, err := svc.List(context.Background(), 10, false, 0, 0)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected one notification, got %d", len(list))
	}
	n := list[0]
	if n.Type != domain.NotifyInApp {
		t.Fatalf("expected in_app default type, got %s", n.Type)
	}
	if n.Priority != domain.PriorityMedium {
		t.Fatalf("expected medium default priority, got %s", n.Priority)
	}
	if n.IsRead {
		t.Fatalf("new notification must be unread")
	}
}

func TestNotificationService_Deliver_DerivesLinks(t *testing.T) {
	repo := newStubNotificationRepo()
	svc := NewNotificationService(repo, zerolog.Nop())

	inputs := []struct {
		input ports.NotificationInput
		link  string
	}{
		{ports.NotificationInput{UserID: 10, Title: "t", RelatedEntity: "case", RelatedID: 7}, "/cases/7"},
		{ports.NotificationInput{UserID: 10, Title: "t", RelatedEntity: "document", RelatedID: 3, CaseID: 7}, "/documents?case_id=7"},
		{ports.NotificationInput{UserID: 10, Title: "t", RelatedEntity: "document", RelatedID: 3}, "/documents"},
		{ports.NotificationInput{UserID: 10, Title: "t", RelatedEntity: "payment", RelatedID: 5}, "/payments"},
		{ports.NotificationInput{UserID: 10, Title: "t", RelatedEntity: "case", RelatedID: 7, Link: "/custom"}, "/custom"},
	}
	for _, tc := range inputs {
		if err := svc.Deliver(context.Background(), tc.input); err != nil {
			t.Fatalf("Deliver returned error: %v", err)
		}
	}

	list, err := svc.List(context.Background(), 10, false, 0, 0)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(list) != len(inputs) {
		t.Fatalf("expected %d notifications, got %d", len(inputs), len(list))
	}
	for i, tc := range inputs {
		if list[i].Link != tc.link {
			t.Fatalf("notification %d: expected link %q, got %q", i, tc.link, list[i].Link)
		}
	}
}

func TestNotificationService_ReadFlow(t *testing.T) {
	repo := newStubNotificationRepo()
	svc := NewNotificationService(repo, zerolog.Nop())

	for i := 0; i < 3; i++ {
		if err := svc.Deliver(context.Background(), ports.NotificationInput{UserID: 10, Title: "t"}); err != nil {
			t.Fatalf("Deliver returned error: %v", err)
		}
	}
	if err := svc.Deliver(context.Background(), ports.NotificationInput{UserID: 11, Title: "t"}); err != nil {
		t.Fatalf("Deliver returned error: %v", err)
	}

	count, err := svc.UnreadCount(context.Background(), 10)
	if err != nil {
		t.Fatalf("UnreadCount returned error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 unread, got %d", count)
	}

	// A user cannot ack another user's notification.
	foreign, _ := svc.List(context.Background(), 11, false, 0, 0)
	if err := svc.MarkRead(context.Background(), foreign[0].ID, 10); !errors.Is(err, domain.ErrNotificationNotFound) {
		t.Fatalf("foreign mark read: expected ErrNotificationNotFound, got %v", err)
	}

	own, _ := svc.List(context.Background(), 10, true, 0, 0)
	if err := svc.MarkRead(context.Background(), own[0].ID, 10); err != nil {
		t.Fatalf("MarkRead returned error: %v", err)
	}
	count, _ = svc.UnreadCount(context.Background(), 10)
	if count != 2 {
		t.Fatalf("expected 2 unread after MarkRead, got %d", count)
	}

	unread, err := svc.List(context.Background(), 10, true, 0, 0)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(unread) != 2 {
		t.Fatalf("expected 2 unread listed, got %d", len(unread))
	}

	if err := svc.MarkAllRead(context.Background(), 10); err != nil {
		t.Fatalf("MarkAllRead returned error: %v", err)
	}
	count, _ = svc.UnreadCount(context.Background(), 10)
	if count != 0 {
		t.Fatalf("expected 0 unread after MarkAllRead, got %d", count)
	}

	// The other user's notification is untouched.
	count, _ = svc.UnreadCount(context.Background(), 11)
	if count != 1 {
		t.Fatalf("expected user 11 to keep 1 unread, got %d", count)
	}
}
