package model

import (
	"strings"

	"github.com/google/uuid"
)

// QuestionType enumerates the gradable question kinds.
type QuestionType string

const (
	QuestionTypeMCQ  QuestionType = "MCQ"
	QuestionTypeTF   QuestionType = "TRUE_FALSE"
	QuestionTypeFill QuestionType = "FILL"
)

// Question is an immutable catalog entry. CorrectAnswer is never serialized;
// students only ever see the text and options.
type Question struct {
	ID           uuid.UUID    `json:"id"`
	ModuleID     int          `json:"module_id"`
	QuestionText string       `json:"question_text"`
	QuestionType QuestionType `json:"question_type"`

	// MCQ only; nil for TRUE_FALSE and FILL.
	OptionA *string `json:"option_a,omitempty"`
	OptionB *string `json:"option_b,omitempty"`
	OptionC *string `json:"option_c,omitempty"`
	OptionD *string `json:"option_d,omitempty"`

	// Canonical answer: lower-case for MCQ/FILL, literal "True"/"False" for TF.
	CorrectAnswer string `json:"-"`
}

// Grade reports whether a raw student submission matches the canonical answer.
// The submission is trimmed; comparison is case-insensitive for MCQ and FILL
// and exact for TRUE_FALSE.
func (q *Question) Grade(raw string) bool {
	selected := strings.TrimSpace(raw)
	if q.QuestionType == QuestionTypeTF {
		return selected == q.CorrectAnswer
	}
	return strings.EqualFold(selected, strings.TrimSpace(q.CorrectAnswer))
}
