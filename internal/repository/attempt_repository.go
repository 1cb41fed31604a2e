package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gayratovi/online-exam-system/internal/model"
)

// AttemptRepository handles attempt data access. The UNIQUE (student_id,
// exam_id) constraint is the serialization point for concurrent Start calls.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

const attemptColumns = `id, exam_id, student_id, started_at, ends_at, submitted_at, completed, score, question_order`

func scanAttempt(row pgx.Row) (*model.Attempt, error) {
	a := &model.Attempt{}
	var orderRaw []byte
	err := row.Scan(&a.ID, &a.ExamID, &a.StudentID, &a.StartedAt, &a.EndsAt,
		&a.SubmittedAt, &a.Completed, &a.Score, &orderRaw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(orderRaw) > 0 {
		if err := json.Unmarshal(orderRaw, &a.QuestionOrder); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Create inserts a new attempt. Returns ErrDuplicate when another request
// already created the (student, exam) row; the caller must read it back
// rather than failing the user-visible operation.
func (r *AttemptRepository) Create(ctx context.Context, a *model.Attempt) error {
	orderRaw, err := json.Marshal(a.QuestionOrder)
	if err != nil {
		return err
	}

	err = r.pool.QueryRow(ctx,
		`INSERT INTO attempts (id, exam_id, student_id, started_at, ends_at, question_order)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (student_id, exam_id) DO NOTHING
		 RETURNING id`,
		a.ID, a.ExamID, a.StudentID, a.StartedAt, a.EndsAt, orderRaw,
	).Scan(&a.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetByExamAndStudent retrieves the single attempt for (student, exam).
func (r *AttemptRepository) GetByExamAndStudent(ctx context.Context, examID uuid.UUID, studentID int) (*model.Attempt, error) {
	return scanAttempt(r.pool.QueryRow(ctx,
		`SELECT `+attemptColumns+` FROM attempts
		 WHERE exam_id = $1 AND student_id = $2`, examID, studentID))
}

// GetByID retrieves an attempt by its UUID.
func (r *AttemptRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Attempt, error) {
	return scanAttempt(r.pool.QueryRow(ctx,
		`SELECT `+attemptColumns+` FROM attempts WHERE id = $1`, id))
}

// ListByStudent retrieves all attempts belonging to a student, used to
// overlay attempt status on the dashboard exam feed.
func (r *AttemptRepository) ListByStudent(ctx context.Context, studentID int) ([]model.Attempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+attemptColumns+` FROM attempts
		 WHERE student_id = $1
		 ORDER BY started_at DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []model.Attempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, *a)
	}
	return attempts, rows.Err()
}

// Finalize marks an attempt completed with its score, guarded on
// completed = FALSE so a concurrent double submit updates exactly once.
// Returns ErrNotFound when the attempt was already completed (or absent);
// callers then read back the winner's row.
func (r *AttemptRepository) Finalize(ctx context.Context, id uuid.UUID, score float64, submittedAt time.Time) (*model.Attempt, error) {
	return scanAttempt(r.pool.QueryRow(ctx,
		`UPDATE attempts
		 SET completed = TRUE, score = $1, submitted_at = $2
		 WHERE id = $3 AND completed = FALSE
		 RETURNING `+attemptColumns, score, submittedAt, id))
}
