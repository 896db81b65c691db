package domain

import (
	"errors"
	"time"
)

// NotificationType says what kind of event a notification describes.
type NotificationType string

const (
	NotifyCaseUpdate     NotificationType = "case_update"
	NotifyDocumentUpload NotificationType = "document_upload"
	NotifyPaymentUpdate  NotificationType = "payment_update"
	NotifySystem         NotificationType = "system"
	NotifyInApp          NotificationType = "in_app"
)

// NotificationPriority orders notifications in the bell dropdown.
type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityMedium NotificationPriority = "medium"
	PriorityHigh   NotificationPriority = "high"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Notification is an in-app message for a single user. Link points at the
// portal view the notification is about.
type Notification struct {
	ID        int64                `json:"id" bson:"_id"`
	UserID    int64                `json:"user_id" bson:"user_id"`
	Title     string               `json:"title" bson:"title"`
	Message   string               `json:"message" bson:"message"`
	Type      NotificationType     `json:"type" bson:"type"`
	Priority  NotificationPriority `json:"priority" bson:"priority"`
	IsRead    bool                 `json:"is_read" bson:"is_read"`
	Link      string               `json:"link,omitempty" bson:"link,omitempty"`
	CaseID    int64                `json:"case_id,omitempty" bson:"case_id,omitempty"`
	ReadAt    *time.Time           `json:"read_at,omitempty" bson:"read_at,omitempty"`
	CreatedAt time.Time            `json:"created_at" bson:"created_at"`
}
