package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/koptay/client-portal/internal/core/domain"
	"github.com/koptay/client-portal/internal/core/ports"
)

type stubAuditRepo struct {
	entries []*domain.AuditEntry
	err     error
}

func (r *stubAuditRepo) Append(_ context.Context, entry *domain.AuditEntry) error {
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, entry)
	return nil
}

func TestAuditService_RecordCapturesActor(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo, zerolog.Nop())

	actor := ports.Actor{
		UserID:    2,
		Role:      domain.RoleAdmin,
		FullName:  "Admin",
		IPAddress: "203.0.113.7",
		UserAgent: "Mozilla/5.0 (test)",
	}
	svc.Record(context.Background(), actor, ports.AuditInput{
		Action:       domain.AuditView,
		ResourceType: "client",
		ResourceID:   10,
		Description:  "viewed client detail",
	})

	if len(repo.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(repo.entries))
	}
	entry := repo.entries[0]
	if entry.UserID != 2 || entry.UserName != "Admin" || entry.UserRole != string(domain.RoleAdmin) {
		t.Fatalf("actor identity not recorded: %+v", entry)
	}
	if entry.IPAddress != "203.0.113.7" {
		t.Fatalf("ip address not recorded: %q", entry.IPAddress)
	}
	if entry.UserAgent != "Mozilla/5.0 (test)" {
		t.Fatalf("user agent not recorded: %q", entry.UserAgent)
	}
	if entry.Action != domain.AuditView || entry.ResourceType != "client" || entry.ResourceID != 10 {
		t.Fatalf("operation not recorded: %+v", entry)
	}
	if entry.CreatedAt.IsZero() {
		t.Fatal("entry should be timestamped")
	}
}

func TestAuditService_RecordSwallowsRepoErrors(t *testing.T) {
	repo := &stubAuditRepo{err: errors.New("collection unavailable")}
	svc := NewAuditService(repo, zerolog.Nop())

	// Must not panic or surface the error in any way.
	svc.Record(context.Background(), staffActor, ports.AuditInput{
		Action:       domain.AuditDelete,
		ResourceType: "case",
		ResourceID:   1,
	})
	if len(repo.entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(repo.entries))
	}
}
