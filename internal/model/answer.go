package model

import "github.com/google/uuid"

// Answer is one recorded response, unique per (attempt, question) and
// upserted last-write-wins. IsCorrect is computed eagerly at write time so
// finalization only aggregates already-graded flags.
type Answer struct {
	ID             uuid.UUID `json:"id"`
	AttemptID      uuid.UUID `json:"attempt_id"`
	QuestionID     uuid.UUID `json:"question_id"`
	SelectedAnswer string    `json:"selected_answer"`
	IsCorrect      bool      `json:"is_correct"`
}

// Direction is the navigation signal accompanying an answer submission.
type Direction string

const (
	DirectionPrevious Direction = "previous"
	DirectionNext     Direction = "next"
	DirectionSubmit   Direction = "submit"
)

// SubmitAnswerRequest is the payload for recording an answer on a question.
type SubmitAnswerRequest struct {
	Answer    string    `json:"answer" binding:"max=255"`
	Direction Direction `json:"direction" binding:"required,oneof=previous next submit"`
}
