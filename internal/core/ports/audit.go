package ports

import (
	"context"

	"github.com/koptay/client-portal/internal/core/domain"
)

// AuditRepository appends audit entries. Write-only from the application's
// point of view; reads happen out of band.
type AuditRepository interface {
	Append(ctx context.Context, entry *domain.AuditEntry) error
}

// AuditInput is one operation worth recording. The who, the source address
// and the user agent all come from the Actor.
type AuditInput struct {
	Action       string
	ResourceType string
	ResourceID   int64
	Description  string
	Changes      map[string]any
}

// AuditRecorder records sensitive operations. Recording failures are logged,
// never propagated: an audit miss must not fail the operation itself.
type AuditRecorder interface {
	Record(ctx context.Context, actor Actor, input AuditInput)
}
