package ports

import (
	"context"

	"github.com/koptay/client-portal/internal/core/domain"
)

// ClientFilter narrows client listings on the management surface.
type ClientFilter struct {
	// Search matches name, email, national ID, tax number or company name.
	Search string
	// Role restricts to individual or corporate when set.
	Role  domain.Role
	Skip  int64
	Limit int64
}

// UserRepository defines persistence for portal accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByNationalID(ctx context.Context, nationalID string) (*domain.User, error)
	FindByTaxNumber(ctx context.Context, taxNumber string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	ListClients(ctx context.Context, filter ClientFilter) ([]domain.User, error)
	CountClients(ctx context.Context) (int64, error)
	ListStaff(ctx context.Context) ([]domain.User, error)
}
