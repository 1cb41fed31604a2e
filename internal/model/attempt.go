package model

import (
	"time"

	"github.com/google/uuid"
)

// Attempt is one student's session against one exam. Exactly one row exists
// per (student, exam) — the unique constraint on that pair is what serializes
// concurrent Start requests.
type Attempt struct {
	ID          uuid.UUID  `json:"id"`
	ExamID      uuid.UUID  `json:"exam_id"`
	StudentID   int        `json:"student_id"`
	StartedAt   time.Time  `json:"started_at"`
	EndsAt      time.Time  `json:"ends_at"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	Completed   bool       `json:"completed"`
	Score       *float64   `json:"score,omitempty"`

	// QuestionOrder is the shuffled permutation of the exam's question set,
	// captured once at Start and never recomputed. Attempts created before
	// shuffling existed have none; readers fall back to question-id order.
	QuestionOrder []uuid.UUID `json:"question_order,omitempty"`
}

// RemainingSeconds returns the time budget left at now, floored at zero.
func (a *Attempt) RemainingSeconds(now time.Time) int {
	remaining := int(a.EndsAt.Sub(now).Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsTimeOver reports whether the attempt's time budget has elapsed.
func (a *Attempt) IsTimeOver(now time.Time) bool {
	return !now.Before(a.EndsAt)
}

// TimeTaken returns submitted_at - started_at, or false while in progress.
func (a *Attempt) TimeTaken() (time.Duration, bool) {
	if a.SubmittedAt == nil {
		return 0, false
	}
	return a.SubmittedAt.Sub(a.StartedAt), true
}
