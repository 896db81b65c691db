package domain

import "time"

// TimelineEvent is one entry in a case's chronological history (hearings,
// expert reports, decisions).
type TimelineEvent struct {
	ID          int64     `json:"id" bson:"_id"`
	CaseID      int64     `json:"case_id" bson:"case_id"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	EventDate   time.Time `json:"event_date" bson:"event_date"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}
