package domain

import (
	"errors"
	"time"
)

// CaseStatus represents the lifecycle state of a case file.
type CaseStatus string

const (
	CasePending      CaseStatus = "pending"
	CaseInProgress   CaseStatus = "in_progress"
	CaseWaitingCourt CaseStatus = "waiting_court"
	CaseCompleted    CaseStatus = "completed"
	CaseArchived     CaseStatus = "archived"
)

// CaseType is the branch of law a case belongs to.
type CaseType string

const (
	CaseCivil          CaseType = "civil"
	CaseCriminal       CaseType = "criminal"
	CaseCommercial     CaseType = "commercial"
	CaseLabor          CaseType = "labor"
	CaseAdministrative CaseType = "administrative"
	CaseExecution      CaseType = "execution"
	CaseOther          CaseType = "other"
)

var ErrCaseNotFound = errors.New("case not found")
var ErrDuplicateCaseNumber = errors.New("case number already exists")
var ErrForbidden = errors.New("access forbidden")

// StageStatus marks a stage as not yet reached, active, or done.
type StageStatus string

const (
	StagePending   StageStatus = "pending"
	StageCurrent   StageStatus = "current"
	StageCompleted StageStatus = "completed"
)

// Stage is one step of a case's procedural pipeline.
type Stage struct {
	ID     string      `json:"id" bson:"id"`
	Title  string      `json:"title" bson:"title"`
	Status StageStatus `json:"status" bson:"status"`
	Order  int         `json:"order" bson:"order"`
}

// Case is a legal case file owned by exactly one client.
type Case struct {
	ID              int64      `json:"id" bson:"_id"`
	CaseNumber      string     `json:"case_number" bson:"case_number"`
	Title           string     `json:"title" bson:"title"`
	Description     string     `json:"description,omitempty" bson:"description,omitempty"`
	Type            CaseType   `json:"case_type" bson:"case_type"`
	Status          CaseStatus `json:"status" bson:"status"`
	CourtName       string     `json:"court_name,omitempty" bson:"court_name,omitempty"`
	FileNumber      string     `json:"file_number,omitempty" bson:"file_number,omitempty"`
	Stages          []Stage    `json:"stages,omitempty" bson:"stages,omitempty"`
	ClientID        int64      `json:"client_id" bson:"client_id"`
	StartDate       time.Time  `json:"start_date" bson:"start_date"`
	NextHearingDate *time.Time `json:"next_hearing_date,omitempty" bson:"next_hearing_date,omitempty"`
	CompletionDate  *time.Time `json:"completion_date,omitempty" bson:"completion_date,omitempty"`
	CreatedAt       time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// Active reports whether the case is still being worked.
func (s CaseStatus) Active() bool {
	return s == CaseInProgress || s == CaseWaitingCourt
}

// DefaultStages returns the procedural pipeline assigned to a newly opened
// case. Criminal cases follow the investigation/indictment track; every other
// branch uses the common civil track.
func DefaultStages(t CaseType) []Stage {
	if t == CaseCriminal {
		return []Stage{
			{ID: "investigation", Title: "Soruşturma", Status: StageCompleted, Order: 1},
			{ID: "indictment", Title: "İddianame", Status: StageCurrent, Order: 2},
			{ID: "prosecution", Title: "Kovuşturma", Status: StagePending, Order: 3},
			{ID: "decision", Title: "Karar", Status: StagePending, Order: 4},
			{ID: "appeal", Title: "İstinaf/Yargıtay", Status: StagePending, Order: 5},
		}
	}
	return []Stage{
		{ID: "filing", Title: "Dava Açılışı", Status: StageCompleted, Order: 1},
		{ID: "preliminary", Title: "Ön İnceleme", Status: StageCurrent, Order: 2},
		{ID: "hearing", Title: "Tahkikat (Duruşmalar)", Status: StagePending, Order: 3},
		{ID: "decision", Title: "Karar", Status: StagePending, Order: 4},
		{ID: "appeal", Title: "İstinaf/Yargıtay", Status: StagePending, Order: 5},
	}
}
