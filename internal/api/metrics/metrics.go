// Package metrics defines and registers all custom Prometheus metrics for the
// client portal API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default registry at import time via promauto; the
// router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts successful logins.
// Label:
//   - role: the role of the account that logged in
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of successful logins, by role.",
	},
	[]string{"role"},
)

// LoginFailuresTotal counts rejected login attempts.
// Label:
//   - reason: "unknown_user", "bad_password", "inactive", "otp_missing" or "otp_invalid"
var LoginFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_failures_total",
		Help:      "Total number of rejected login attempts, by reason.",
	},
	[]string{"reason"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsDeliveredTotal counts notifications persisted by the dispatcher.
// Label:
//   - type: notification type (e.g. "case_update")
var NotificationsDeliveredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_delivered_total",
		Help:      "Total number of notifications delivered, by type.",
	},
	[]string{"type"},
)

// NotificationsDedupTotal counts deduplication decisions in the dispatcher.
// Label:
//   - result: "suppressed" (duplicate, dropped) or "delivered"
var NotificationsDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_dedup_total",
		Help:      "Total number of notification dedup checks, by result.",
	},
	[]string{"result"},
)

// ── Document metrics ──────────────────────────────────────────────────────────

// DocumentsUploadedTotal counts stored documents.
// Label:
//   - document_type: "contract", "petition", "decision", …
var DocumentsUploadedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "documents_uploaded_total",
		Help:      "Total number of documents uploaded, by document type.",
	},
	[]string{"document_type"},
)

// ── Payment metrics ───────────────────────────────────────────────────────────

// PaymentsCreatedTotal counts payment requests issued by staff.
var PaymentsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_created_total",
		Help:      "Total number of payment requests created.",
	},
)
