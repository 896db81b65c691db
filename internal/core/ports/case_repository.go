package ports

import (
	"context"

	"github.com/koptay/client-portal/internal/core/domain"
)

// CaseFilter narrows case listings.
type CaseFilter struct {
	// ClientID restricts to one client's cases when non-zero.
	ClientID int64
	Status   domain.CaseStatus
	Type     domain.CaseType
	Skip     int64
	Limit    int64
}

// CaseRepository defines persistence for case files and their timelines.
type CaseRepository interface {
	Create(ctx context.Context, c *domain.Case) (*domain.Case, error)
	FindByID(ctx context.Context, id int64) (*domain.Case, error)
	FindByCaseNumber(ctx context.Context, caseNumber string) (*domain.Case, error)
	Update(ctx context.Context, c *domain.Case) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter CaseFilter) ([]domain.Case, int64, error)
	CountAll(ctx context.Context) (int64, error)
	CountActive(ctx context.Context) (int64, error)

	ListTimeline(ctx context.Context, caseID int64) ([]domain.TimelineEvent, error)
	AddTimelineEvent(ctx context.Context, ev *domain.TimelineEvent) (*domain.TimelineEvent, error)
}
