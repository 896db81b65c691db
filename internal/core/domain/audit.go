package domain

import "time"

// Audit actions and resource kinds. Kept as plain strings on the record so
// new kinds never require a migration.
const (
	AuditCreate   = "CREATE"
	AuditUpdate   = "UPDATE"
	AuditDelete   = "DELETE"
	AuditView     = "VIEW"
	AuditUpload   = "UPLOAD"
	AuditDownload = "DOWNLOAD"
)

// AuditEntry records one sensitive operation: who did what to which resource.
type AuditEntry struct {
	ID           int64          `json:"id" bson:"_id"`
	UserID       int64          `json:"user_id" bson:"user_id"`
	UserName     string         `json:"user_name,omitempty" bson:"user_name,omitempty"`
	UserRole     string         `json:"user_role,omitempty" bson:"user_role,omitempty"`
	Action       string         `json:"action" bson:"action"`
	ResourceType string         `json:"resource_type" bson:"resource_type"`
	ResourceID   int64          `json:"resource_id,omitempty" bson:"resource_id,omitempty"`
	Description  string         `json:"description,omitempty" bson:"description,omitempty"`
	Changes      map[string]any `json:"changes,omitempty" bson:"changes,omitempty"`
	IPAddress    string         `json:"ip_address,omitempty" bson:"ip_address,omitempty"`
	UserAgent    string         `json:"user_agent,omitempty" bson:"user_agent,omitempty"`
	CreatedAt    time.Time      `json:"created_at" bson:"created_at"`
}
