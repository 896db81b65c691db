package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/koptay/client-portal/internal/core/domain"
	"github.com/koptay/client-portal/internal/core/ports"
)

// CaseService owns case files. Visibility rules live here, not in handlers:
// staff see everything, clients see only their own cases.
type CaseService struct {
	repo     ports.CaseRepository
	users    ports.UserRepository
	notifier ports.Notifier
	audit    ports.AuditRecorder
	logger   zerolog.Logger
}

func NewCaseService(repo ports.CaseRepository, users ports.UserRepository, notifier ports.Notifier, audit ports.AuditRecorder, logger zerolog.Logger) *CaseService {
	return &CaseService{repo: repo, users: users, notifier: notifier, audit: audit, logger: logger}
}

func (s *CaseService) Create(ctx context.Context, actor ports.Actor, input ports.CreateCaseInput) (*domain.Case, error) {
	if input.CaseNumber == "" || input.Title == "" {
		return nil, fmt.Errorf("case number and title are required")
	}

	if existing, err := s.repo.FindByCaseNumber(ctx, input.CaseNumber); err == nil && existing != nil {
		return nil, domain.ErrDuplicateCaseNumber
	}

	// Clients open cases for themselves; staff must name the client.
	clientID := actor.UserID
	if actor.Staff() {
		if input.ClientID == 0 {
			return nil, domain.ErrUserNotFound
		}
		if _, err := s.users.FindByID(ctx, input.ClientID); err != nil {
			return nil, err
		}
		clientID = input.ClientID
	}

	now := time.Now().UTC()
	c := &domain.Case{
		CaseNumber:      input.CaseNumber,
		Title:           input.Title,
		Description:     input.Description,
		Type:            input.Type,
		Status:          domain.CasePending,
		CourtName:       input.CourtName,
		FileNumber:      input.FileNumber,
		Stages:          domain.DefaultStages(input.Type),
		ClientID:        clientID,
		StartDate:       now,
		NextHearingDate: input.NextHearingDate,
		CreatedAt:       now,
	}

	created, err := s.repo.Create(ctx, c)
	if err != nil {
		s.logger.Error().Err(err).Str("case_number", input.CaseNumber).Msg("failed to create case")
		return nil, err
	}

	s.notifier.Notify(ports.NotificationInput{
		UserID:        created.ClientID,
		Title:         "Yeni Dava Dosyası Açıldı",
		Message:       fmt.Sprintf("%s numaralı dava dosyanız oluşturuldu.", created.CaseNumber),
		Type:          domain.NotifyCaseUpdate,
		Priority:      domain.PriorityHigh,
		RelatedEntity: "case",
		RelatedID:     created.ID,
		CaseID:        created.ID,
	})
	if !actor.Staff() {
		s.notifier.NotifyStaff(ctx, ports.NotificationInput{
			Title:         "Yeni Dava Başvurusu",
			Message:       fmt.Sprintf("%s yeni bir dava dosyası oluşturdu: %s", actor.FullName, created.CaseNumber),
			Type:          domain.NotifyCaseUpdate,
			Priority:      domain.PriorityMedium,
			RelatedEntity: "case",
			RelatedID:     created.ID,
			CaseID:        created.ID,
		})
	}

	s.audit.Record(ctx, actor, ports.AuditInput{
		Action:       domain.AuditCreate,
		ResourceType: "case",
		ResourceID:   created.ID,
		Description:  fmt.Sprintf("opened case %s for client %d", created.CaseNumber, created.ClientID),
	})
	s.logger.Info().Str("case_number", created.CaseNumber).Int64("client_id", created.ClientID).Msg("case created")
	return created, nil
}

func (s *CaseService) Get(ctx context.Context, actor ports.Actor, id int64) (*domain.Case, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Staff() && c.ClientID != actor.UserID {
		return nil, domain.ErrForbidden
	}
	return c, nil
}

func (s *CaseService) List(ctx context.Context, actor ports.Actor, filter ports.CaseFilter) ([]domain.Case, int64, error) {
	if !actor.Staff() {
		filter.ClientID = actor.UserID
	}
	return s.repo.List(ctx, filter)
}

func (s *CaseService) Update(ctx context.Context, actor ports.Actor, id int64, input ports.UpdateCaseInput) (*domain.Case, error) {
	if !actor.Staff() {
		return nil, domain.ErrForbidden
	}

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}
	if input.Title != nil {
		c.Title = *input.Title
		changes["title"] = *input.Title
	}
	if input.Description != nil {
		c.Description = *input.Description
		changes["description"] = *input.Description
	}
	if input.Status != nil {
		c.Status = *input.Status
		changes["status"] = string(*input.Status)
		if *input.Status == domain.CaseCompleted && c.CompletionDate == nil {
			now := time.Now().UTC()
			c.CompletionDate = &now
		}
	}
	if input.CourtName != nil {
		c.CourtName = *input.CourtName
		changes["court_name"] = *input.CourtName
	}
	if input.FileNumber != nil {
		c.FileNumber = *input.FileNumber
		changes["file_number"] = *input.FileNumber
	}
	if input.NextHearingDate != nil {
		c.NextHearingDate = input.NextHearingDate
		changes["next_hearing_date"] = input.NextHearingDate.Format(time.RFC3339)
	}
	if input.Stages != nil {
		c.Stages = input.Stages
		changes["stages"] = len(input.Stages)
	}
	c.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	s.notifier.Notify(ports.NotificationInput{
		UserID:        c.ClientID,
		Title:         "Dosyanız Güncellendi",
		Message:       fmt.Sprintf("%s numaralı dosyanızda güncelleme yapıldı.", c.CaseNumber),
		Type:          domain.NotifyCaseUpdate,
		Priority:      domain.PriorityMedium,
		RelatedEntity: "case",
		RelatedID:     c.ID,
		CaseID:        c.ID,
	})
	s.audit.Record(ctx, actor, ports.AuditInput{
		Action:       domain.AuditUpdate,
		ResourceType: "case",
		ResourceID:   c.ID,
		Description:  fmt.Sprintf("updated case %s", c.CaseNumber),
		Changes:      changes,
	})

	return c, nil
}

func (s *CaseService) Delete(ctx context.Context, actor ports.Actor, id int64) error {
	// Deleting a case file is admin-only; lawyers archive instead.
	if actor.Role != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actor, ports.AuditInput{
		Action:       domain.AuditDelete,
		ResourceType: "case",
		ResourceID:   c.ID,
		Description:  fmt.Sprintf("deleted case %s", c.CaseNumber),
	})
	return nil
}

func (s *CaseService) Timeline(ctx context.Context, actor ports.Actor, caseID int64) ([]domain.TimelineEvent, error) {
	if _, err := s.Get(ctx, actor, caseID); err != nil {
		return nil, err
	}
	return s.repo.ListTimeline(ctx, caseID)
}

func (s *CaseService) AddTimelineEvent(ctx context.Context, actor ports.Actor, caseID int64, input ports.CreateTimelineEventInput) (*domain.TimelineEvent, error) {
	if !actor.Staff() {
		return nil, domain.ErrForbidden
	}
	if _, err := s.repo.FindByID(ctx, caseID); err != nil {
		return nil, err
	}
	if input.Title == "" || input.EventDate.IsZero() {
		return nil, errors.New("timeline event requires a title and a date")
	}

	ev := &domain.TimelineEvent{
		CaseID:      caseID,
		Title:       input.Title,
		Description: input.Description,
		EventDate:   input.EventDate,
		CreatedAt:   time.Now().UTC(),
	}
	return s.repo.AddTimelineEvent(ctx, ev)
}
