package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/koptay/client-portal/internal/core/domain"
	"github.com/koptay/client-portal/internal/core/ports"
)

const tempPasswordLength = 8

// placeholderEmailDomain hosts synthesized addresses for clients registered
// without an email. The address is never mailed; it only satisfies the
// unique-email constraint.
const placeholderEmailDomain = "noemail.koptay.av.tr"

// AdminService owns client account management and the statistics panel.
type AdminService struct {
	users     ports.UserRepository
	cases     ports.CaseRepository
	documents ports.DocumentRepository
	payments  ports.PaymentRepository
	audit     ports.AuditRecorder
	logger    zerolog.Logger
}

func NewAdminService(users ports.UserRepository, cases ports.CaseRepository, documents ports.DocumentRepository, payments ports.PaymentRepository, audit ports.AuditRecorder, logger zerolog.Logger) *AdminService {
	return &AdminService{users: users, cases: cases, documents: documents, payments: payments, audit: audit, logger: logger}
}

func (s *AdminService) ListClients(ctx context.Context, actor ports.Actor, filter ports.ClientFilter) ([]domain.User, error) {
	if !actor.Staff() {
		return nil, domain.ErrForbidden
	}
	clients, err := s.users.ListClients(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, ports.AuditInput{
		Action:       domain.AuditView,
		ResourceType: "CLIENT_LIST",
		Description:  fmt.Sprintf("Viewed clients list (count: %d)", len(clients)),
	})
	return clients, nil
}

func (s *AdminService) GetClient(ctx context.Context, actor ports.Actor, clientID int64) (*domain.User, error) {
	if !actor.Staff() {
		return nil, domain.ErrForbidden
	}
	client, err := s.users.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, ports.AuditInput{
		Action:       domain.AuditView,
		ResourceType: "CLIENT",
		ResourceID:   clientID,
		Description:  fmt.Sprintf("Viewed client details: %s", client.FullName),
	})
	return client, nil
}

func (s *AdminService) CreateClient(ctx context.Context, actor ports.Actor, input ports.CreateClientInput) (*ports.CreatedClient, error) {
	if !actor.Staff() {
		return nil, domain.ErrForbidden
	}
	if input.FullName == "" {
		return nil, fmt.Errorf("full name is required")
	}
	role := input.Role
	if role == "" {
		role = domain.RoleIndividual
	}
	if !role.IsClient() {
		return nil, fmt.Errorf("role must be individual or corporate")
	}

	if input.NationalID != "" {
		if _, err := s.users.FindByNationalID(ctx, input.NationalID); err == nil {
			return nil, domain.ErrUserExists
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
	}
	if input.TaxNumber != "" {
		if _, err := s.users.FindByTaxNumber(ctx, input.TaxNumber); err == nil {
			return nil, domain.ErrUserExists
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
	}

	email := input.Email
	if email != "" {
		if _, err := s.users.FindByEmail(ctx, email); err == nil {
			return nil, domain.ErrUserExists
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
	} else {
		addr, err := s.placeholderEmail(ctx, input)
		if err != nil {
			return nil, err
		}
		email = addr
	}

	tempPassword, err := generateTempPassword()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:           email,
		PasswordHash:    string(hash),
		FullName:        input.FullName,
		Phone:           input.Phone,
		NationalID:      input.NationalID,
		TaxNumber:       input.TaxNumber,
		CompanyName:     input.CompanyName,
		Address:         input.Address,
		BankAccountInfo: input.BankAccountInfo,
		Role:            role,
		IsActive:        true,
		// Staff-created accounts skip self-verification but must replace
		// the temporary password on first login.
		IsVerified:         true,
		MustChangePassword: true,
		CreatedAt:          now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, ports.AuditInput{
		Action:       domain.AuditCreate,
		ResourceType: "CLIENT",
		ResourceID:   created.ID,
		Description:  fmt.Sprintf("Created client %s", created.FullName),
	})
	s.logger.Info().Int64("client_id", created.ID).Str("role", string(created.Role)).Msg("client account created")

	return &ports.CreatedClient{User: created, TempPassword: tempPassword}, nil
}

func (s *AdminService) Statistics(ctx context.Context, actor ports.Actor) (*ports.Statistics, error) {
	if !actor.Staff() {
		return nil, domain.ErrForbidden
	}

	totalClients, err := s.users.CountClients(ctx)
	if err != nil {
		return nil, err
	}
	totalCases, err := s.cases.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	activeCases, err := s.cases.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	totalDocuments, err := s.documents.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	pendingPayments, err := s.payments.CountPending(ctx)
	if err != nil {
		return nil, err
	}

	return &ports.Statistics{
		TotalClients:    totalClients,
		TotalCases:      totalCases,
		ActiveCases:     activeCases,
		TotalDocuments:  totalDocuments,
		PendingPayments: pendingPayments,
	}, nil
}

// placeholderEmail synthesizes a unique address for clients without one,
// keyed on their national ID or tax number when available.
func (s *AdminService) placeholderEmail(ctx context.Context, input ports.CreateClientInput) (string, error) {
	identifier := input.NationalID
	if identifier == "" {
		identifier = input.TaxNumber
	}
	if identifier == "" {
		identifier = randomHex(4)
	}

	addr := fmt.Sprintf("no-email-%s@%s", identifier, placeholderEmailDomain)
	for {
		_, err := s.users.FindByEmail(ctx, addr)
		if errors.Is(err, domain.ErrUserNotFound) {
			return addr, nil
		}
		if err != nil {
			return "", err
		}
		addr = fmt.Sprintf("no-email-%s@%s", randomHex(4), placeholderEmailDomain)
	}
}

const tempPasswordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// generateTempPassword returns an 8-character alphanumeric one-time password.
func generateTempPassword() (string, error) {
	out := make([]byte, tempPasswordLength)
	max := big.NewInt(int64(len(tempPasswordAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = tempPasswordAlphabet[n.Int64()]
	}
	return string(out), nil
}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return hex.EncodeToString([]byte(time.Now().UTC().Format("150405")))[:2*n]
	}
	return hex.EncodeToString(b)
}
