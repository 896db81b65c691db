package ports

import (
	"context"
	"time"

	"github.com/koptay/client-portal/internal/core/domain"
)

// Actor identifies who is performing an operation, as established by the auth
// middleware. Services use it for ownership and role checks so no handler or
// view re-implements authorization. IPAddress and UserAgent describe the
// request that carried the operation; audit entries record them.
type Actor struct {
	UserID    int64
	Role      domain.Role
	FullName  string
	IPAddress string
	UserAgent string
}

// Staff reports whether the actor may use the management surface.
func (a Actor) Staff() bool { return a.Role.IsStaff() }

// CreateCaseInput carries a new case file.
type CreateCaseInput struct {
	CaseNumber      string
	Title           string
	Description     string
	Type            domain.CaseType
	CourtName       string
	FileNumber      string
	ClientID        int64
	NextHearingDate *time.Time
}

// UpdateCaseInput carries a partial case update; nil fields are left as-is.
type UpdateCaseInput struct {
	Title           *string
	Description     *string
	Status          *domain.CaseStatus
	CourtName       *string
	FileNumber      *string
	NextHearingDate *time.Time
	Stages          []domain.Stage
}

// CreateTimelineEventInput adds a dated entry to a case history.
type CreateTimelineEventInput struct {
	Title       string
	Description string
	EventDate   time.Time
}

// CaseService owns all case file operations, including per-role visibility.
type CaseService interface {
	Create(ctx context.Context, actor Actor, input CreateCaseInput) (*domain.Case, error)
	Get(ctx context.Context, actor Actor, id int64) (*domain.Case, error)
	List(ctx context.Context, actor Actor, filter CaseFilter) ([]domain.Case, int64, error)
	Update(ctx context.Context, actor Actor, id int64, input UpdateCaseInput) (*domain.Case, error)
	Delete(ctx context.Context, actor Actor, id int64) error
	Timeline(ctx context.Context, actor Actor, caseID int64) ([]domain.TimelineEvent, error)
	AddTimelineEvent(ctx context.Context, actor Actor, caseID int64, input CreateTimelineEventInput) (*domain.TimelineEvent, error)
}
