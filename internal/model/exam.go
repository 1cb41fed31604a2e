package model

import (
	"time"

	"github.com/google/uuid"
)

// Exam represents an exam entity. Its question set lives in the
// exam_questions link table, not here.
type Exam struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	ModuleID        int        `json:"module_id"`
	IsActive        bool       `json:"is_active"`
	OpensAt         *time.Time `json:"opens_at,omitempty"`
	ClosesAt        *time.Time `json:"closes_at,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
	CreatedAt       time.Time  `json:"created_at"`
}

// IsOpenAt reports whether now falls inside the exam's [opens_at, closes_at)
// window. A nil bound is treated as unbounded on that side.
func (e *Exam) IsOpenAt(now time.Time) bool {
	if e.OpensAt != nil && now.Before(*e.OpensAt) {
		return false
	}
	if e.ClosesAt != nil && !now.Before(*e.ClosesAt) {
		return false
	}
	return true
}

// Duration returns the exam's time budget.
func (e *Exam) Duration() time.Duration {
	return time.Duration(e.DurationMinutes) * time.Minute
}
