package handler

import (
	"time"

	"github.com/koptay/client-portal/internal/core/domain"
)

type createCaseRequest struct {
	CaseNumber      string     `json:"case_number" validate:"required"`
	Title           string     `json:"title" validate:"required"`
	Description     string     `json:"description"`
	CaseType        string     `json:"case_type" validate:"required,oneof=civil criminal commercial labor administrative execution other"`
	CourtName       string     `json:"court_name"`
	FileNumber      string     `json:"file_number"`
	ClientID        int64      `json:"client_id"`
	NextHearingDate *time.Time `json:"next_hearing_date"`
}

type updateCaseRequest struct {
	Title           *string        `json:"title"`
	Description     *string        `json:"description"`
	Status          *string        `json:"status" validate:"omitempty,oneof=pending in_progress waiting_court completed archived"`
	CourtName       *string        `json:"court_name"`
	FileNumber      *string        `json:"file_number"`
	NextHearingDate *time.Time     `json:"next_hearing_date"`
	Stages          []domain.Stage `json:"stages"`
}

type createTimelineEventRequest struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	EventDate   time.Time `json:"event_date" validate:"required"`
}

type caseListResponse struct {
	Items []domain.Case `json:"items"`
	Total int64         `json:"total"`
}
