package ports

import (
	"context"

	"github.com/koptay/client-portal/internal/core/domain"
)

// CreateClientInput carries a new client account opened by staff.
type CreateClientInput struct {
	FullName        string
	Email           string
	Phone           string
	Role            domain.Role
	NationalID      string
	TaxNumber       string
	CompanyName     string
	Address         string
	BankAccountInfo string
}

// CreatedClient pairs the stored account with the one-time temporary password
// shown to staff exactly once.
type CreatedClient struct {
	User         *domain.User
	TempPassword string
}

// Statistics is the management dashboard summary.
type Statistics struct {
	TotalClients    int64 `json:"total_clients"`
	TotalCases      int64 `json:"total_cases"`
	ActiveCases     int64 `json:"active_cases"`
	TotalDocuments  int64 `json:"total_documents"`
	PendingPayments int64 `json:"pending_payments"`
}

// AdminService owns client account management and firm-wide statistics.
// Handlers guard it with staff RBAC; the service re-checks the actor anyway.
type AdminService interface {
	ListClients(ctx context.Context, actor Actor, filter ClientFilter) ([]domain.User, error)
	GetClient(ctx context.Context, actor Actor, clientID int64) (*domain.User, error)
	CreateClient(ctx context.Context, actor Actor, input CreateClientInput) (*CreatedClient, error)
	Statistics(ctx context.Context, actor Actor) (*Statistics, error)
}
