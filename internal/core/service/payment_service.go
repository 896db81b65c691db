package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/koptay/client-portal/internal/api/metrics"
	"github.com/koptay/client-portal/internal/core/domain"
	"github.com/koptay/client-portal/internal/core/ports"
)

// PaymentService owns payment requests: staff issue and manage them, clients
// read their own.
type PaymentService struct {
	repo     ports.PaymentRepository
	users    ports.UserRepository
	cases    ports.CaseRepository
	notifier ports.Notifier
	audit    ports.AuditRecorder
	logger   zerolog.Logger
}

func NewPaymentService(repo ports.PaymentRepository, users ports.UserRepository, cases ports.CaseRepository, notifier ports.Notifier, audit ports.AuditRecorder, logger zerolog.Logger) *PaymentService {
	return &PaymentService{repo: repo, users: users, cases: cases, notifier: notifier, audit: audit, logger: logger}
}

func (s *PaymentService) Create(ctx context.Context, actor ports.Actor, input ports.CreatePaymentInput) (*domain.Payment, error) {
	if !actor.Staff() {
		return nil, domain.ErrForbidden
	}
	if input.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}

	client, err := s.users.FindByID(ctx, input.ClientID)
	if err != nil {
		return nil, err
	}

	if input.CaseID != 0 {
		c, err := s.cases.FindByID(ctx, input.CaseID)
		if err != nil {
			return nil, err
		}
		if c.ClientID != input.ClientID {
			return nil, domain.ErrCaseClientMismatch
		}
	}

	currency := input.Currency
	if currency == "" {
		currency = "TRY"
	}

	p := &domain.Payment{
		Reference:   generatePaymentReference(),
		Amount:      input.Amount,
		Currency:    currency,
		Description: input.Description,
		Status:      domain.PaymentPending,
		Method:      input.Method,
		ClientID:    input.ClientID,
		CaseID:      input.CaseID,
		CreatedAt:   time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}

	metrics.PaymentsCreatedTotal.Inc()
	s.notifier.Notify(ports.NotificationInput{
		UserID:        created.ClientID,
		Title:         "Yeni Ödeme Talebi",
		Message:       fmt.Sprintf("%.2f %s tutarında bir ödeme talebi oluşturuldu: %s", created.Amount, created.Currency, created.Description),
		Type:          domain.NotifyPaymentUpdate,
		Priority:      domain.PriorityHigh,
		RelatedEntity: "payment",
		RelatedID:     created.ID,
	})

	s.audit.Record(ctx, actor, ports.AuditInput{
		Action:       domain.AuditCreate,
		ResourceType: "payment",
		ResourceID:   created.ID,
		Description:  fmt.Sprintf("created payment request %s for client %d", created.Reference, created.ClientID),
		Changes:      map[string]any{"amount": created.Amount, "currency": created.Currency},
	})
	s.logger.Info().Str("reference", created.Reference).Str("client", client.FullName).Float64("amount", created.Amount).Msg("payment request created")
	return created, nil
}

func (s *PaymentService) Update(ctx context.Context, actor ports.Actor, id int64, input ports.UpdatePaymentInput) (*domain.Payment, error) {
	if !actor.Staff() {
		return nil, domain.ErrForbidden
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}
	if input.Amount != nil {
		p.Amount = *input.Amount
		changes["amount"] = *input.Amount
	}
	if input.Description != nil {
		p.Description = *input.Description
		changes["description"] = *input.Description
	}
	if input.Method != nil {
		p.Method = *input.Method
		changes["method"] = string(*input.Method)
	}
	if input.Status != nil {
		p.Status = *input.Status
		changes["status"] = string(*input.Status)
		if *input.Status == domain.PaymentCompleted && p.CompletedAt == nil {
			now := time.Now().UTC()
			p.CompletedAt = &now
		}
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	if input.Status != nil {
		s.notifier.Notify(ports.NotificationInput{
			UserID:        p.ClientID,
			Title:         "Ödeme Durumu Güncellendi",
			Message:       fmt.Sprintf("%s referanslı ödemenizin durumu güncellendi: %s", p.Reference, p.Status),
			Type:          domain.NotifyPaymentUpdate,
			Priority:      domain.PriorityMedium,
			RelatedEntity: "payment",
			RelatedID:     p.ID,
		})
	}
	s.audit.Record(ctx, actor, ports.AuditInput{
		Action:       domain.AuditUpdate,
		ResourceType: "payment",
		ResourceID:   p.ID,
		Description:  fmt.Sprintf("updated payment %s", p.Reference),
		Changes:      changes,
	})

	return p, nil
}

func (s *PaymentService) Delete(ctx context.Context, actor ports.Actor, id int64) error {
	if !actor.Staff() {
		return domain.ErrForbidden
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actor, ports.AuditInput{
		Action:       domain.AuditDelete,
		ResourceType: "payment",
		ResourceID:   p.ID,
		Description:  fmt.Sprintf("deleted payment %s", p.Reference),
	})
	return nil
}

func (s *PaymentService) ListAll(ctx context.Context, actor ports.Actor, filter ports.PaymentFilter) ([]domain.Payment, error) {
	if !actor.Staff() {
		return nil, domain.ErrForbidden
	}
	return s.repo.List(ctx, filter)
}

func (s *PaymentService) ListOwn(ctx context.Context, actor ports.Actor, status domain.PaymentStatus) ([]domain.Payment, error) {
	return s.repo.List(ctx, ports.PaymentFilter{ClientID: actor.UserID, Status: status})
}

func (s *PaymentService) Get(ctx context.Context, actor ports.Actor, id int64) (*domain.Payment, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Staff() && p.ClientID != actor.UserID {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

// generatePaymentReference returns a reference in the format PAY-XXXXXXXXXXXX.
func generatePaymentReference() string {
	return "PAY-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}
