package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/koptay/client-portal/internal/core/domain"
	"github.com/koptay/client-portal/internal/core/ports"
)

// AuditService persists audit entries. A failed append is logged and dropped
// so that auditing can never fail the operation being audited.
type AuditService struct {
	repo   ports.AuditRepository
	logger zerolog.Logger
}

func NewAuditService(repo ports.AuditRepository, logger zerolog.Logger) *AuditService {
	return &AuditService{repo: repo, logger: logger}
}

func (s *AuditService) Record(ctx context.Context, actor ports.Actor, input ports.AuditInput) {
	entry := &domain.AuditEntry{
		UserID:       actor.UserID,
		UserName:     actor.FullName,
		UserRole:     string(actor.Role),
		Action:       input.Action,
		ResourceType: input.ResourceType,
		ResourceID:   input.ResourceID,
		Description:  input.Description,
		Changes:      input.Changes,
		IPAddress:    actor.IPAddress,
		UserAgent:    actor.UserAgent,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Append(ctx, entry); err != nil {
		s.logger.Error().Err(err).
			Str("action", input.Action).
			Str("resource_type", input.ResourceType).
			Int64("resource_id", input.ResourceID).
			Msg("failed to append audit entry")
	}
}
