package ports

import (
	"context"

	"github.com/koptay/client-portal/internal/core/domain"
)

// PaymentFilter narrows payment listings.
type PaymentFilter struct {
	ClientID int64
	Status   domain.PaymentStatus
}

// PaymentRepository defines persistence for payment requests.
type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) (*domain.Payment, error)
	FindByID(ctx context.Context, id int64) (*domain.Payment, error)
	Update(ctx context.Context, p *domain.Payment) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter PaymentFilter) ([]domain.Payment, error)
	CountPending(ctx context.Context) (int64, error)
}

// CreatePaymentInput carries a new fee request issued by staff.
type CreatePaymentInput struct {
	Amount      float64
	Currency    string
	Description string
	ClientID    int64
	CaseID      int64
	Method      domain.PaymentMethod
}

// UpdatePaymentInput carries a partial payment update; nil fields are kept.
type UpdatePaymentInput struct {
	Amount      *float64
	Description *string
	Status      *domain.PaymentStatus
	Method      *domain.PaymentMethod
}

// PaymentService owns payment request management and per-role visibility.
type PaymentService interface {
	Create(ctx context.Context, actor Actor, input CreatePaymentInput) (*domain.Payment, error)
	Update(ctx context.Context, actor Actor, id int64, input UpdatePaymentInput) (*domain.Payment, error)
	Delete(ctx context.Context, actor Actor, id int64) error
	ListAll(ctx context.Context, actor Actor, filter PaymentFilter) ([]domain.Payment, error)
	ListOwn(ctx context.Context, actor Actor, status domain.PaymentStatus) ([]domain.Payment, error)
	Get(ctx context.Context, actor Actor, id int64) (*domain.Payment, error)
}
