package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gayratovi/online-exam-system/internal/model"
)

// AnswerDetail is an answer joined with its question's text for result
// replay and staff attempt detail views.
type AnswerDetail struct {
	QuestionID   uuid.UUID `json:"question_id"`
	QuestionText string    `json:"question_text"`
	Selected     string    `json:"selected_answer"`
	IsCorrect    bool      `json:"is_correct"`
}

// AnswerRepository handles answer data access.
type AnswerRepository struct {
	pool *pgxpool.Pool
}

// NewAnswerRepository creates a new AnswerRepository.
func NewAnswerRepository(pool *pgxpool.Pool) *AnswerRepository {
	return &AnswerRepository{pool: pool}
}

// Upsert records an answer for (attempt, question), last write wins.
// Idempotent under repeated submission of the same value.
func (r *AnswerRepository) Upsert(ctx context.Context, a *model.Answer) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO answers (id, attempt_id, question_id, selected_answer, is_correct)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (attempt_id, question_id) DO UPDATE
		 SET selected_answer = EXCLUDED.selected_answer,
		     is_correct = EXCLUDED.is_correct
		 RETURNING id`,
		a.ID, a.AttemptID, a.QuestionID, a.SelectedAnswer, a.IsCorrect,
	).Scan(&a.ID)
}

// ListByAttempt retrieves all answers recorded on an attempt.
func (r *AnswerRepository) ListByAttempt(ctx context.Context, attemptID uuid.UUID) ([]model.Answer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, attempt_id, question_id, selected_answer, is_correct
		 FROM answers WHERE attempt_id = $1`, attemptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []model.Answer
	for rows.Next() {
		var a model.Answer
		if err := rows.Scan(&a.ID, &a.AttemptID, &a.QuestionID, &a.SelectedAnswer, &a.IsCorrect); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// ListDetailByAttempt retrieves answers joined with question text, in
// question-id order. Callers replay them in the attempt's question_order.
func (r *AnswerRepository) ListDetailByAttempt(ctx context.Context, attemptID uuid.UUID) ([]AnswerDetail, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.question_id, q.question_text, a.selected_answer, a.is_correct
		 FROM answers a
		 JOIN questions q ON q.id = a.question_id
		 WHERE a.attempt_id = $1
		 ORDER BY a.question_id`, attemptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []AnswerDetail
	for rows.Next() {
		var d AnswerDetail
		if err := rows.Scan(&d.QuestionID, &d.QuestionText, &d.Selected, &d.IsCorrect); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// CountCorrect returns the number of answers graded correct on an attempt.
func (r *AnswerRepository) CountCorrect(ctx context.Context, attemptID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM answers
		 WHERE attempt_id = $1 AND is_correct = TRUE`, attemptID,
	).Scan(&n)
	return n, err
}
