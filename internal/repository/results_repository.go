package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ExamOverviewRow is one exam's attempt rollup for the staff overview.
type ExamOverviewRow struct {
	ExamID            uuid.UUID  `json:"exam_id"`
	Title             string     `json:"title"`
	OpensAt           *time.Time `json:"opens_at,omitempty"`
	ClosesAt          *time.Time `json:"closes_at,omitempty"`
	DurationMinutes   int        `json:"duration_minutes"`
	AttemptsTotal     int        `json:"attempts_total"`
	AttemptsCompleted int        `json:"attempts_completed"`
	AvgScore          *float64   `json:"avg_score"`
}

// AttemptRow is one student's attempt against an exam, joined with the
// student identity for staff result listings.
type AttemptRow struct {
	AttemptID   uuid.UUID  `json:"attempt_id"`
	StudentID   int        `json:"student_id"`
	Username    string     `json:"username"`
	FirstName   string     `json:"-"`
	LastName    string     `json:"-"`
	StartedAt   time.Time  `json:"started_at"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	Completed   bool       `json:"-"`
	Score       *float64   `json:"score"`
}

// QuestionStatRow is per-question answer counts within one exam's attempts.
type QuestionStatRow struct {
	QuestionID    uuid.UUID `json:"question_id"`
	QuestionText  string    `json:"question_text"`
	AttemptsCount int       `json:"attempts_count"`
	CorrectCount  int       `json:"correct_count"`
}

// ResultsRepository serves the staff read side. Every query here is
// read-only; the aggregator never mutates attempt state.
type ResultsRepository struct {
	pool *pgxpool.Pool
}

// NewResultsRepository creates a new ResultsRepository.
func NewResultsRepository(pool *pgxpool.Pool) *ResultsRepository {
	return &ResultsRepository{pool: pool}
}

// OverviewByModule rolls up attempt counts and the completed-only average
// score for every exam in a module, newest exam first. Scores are NULL
// until finalize, so AVG(score) naturally covers completed attempts only.
func (r *ResultsRepository) OverviewByModule(ctx context.Context, moduleID int) ([]ExamOverviewRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT e.id, e.title, e.opens_at, e.closes_at, e.duration_minutes,
		        COUNT(a.id),
		        COUNT(a.id) FILTER (WHERE a.completed),
		        AVG(a.score)
		 FROM exams e
		 LEFT JOIN attempts a ON a.exam_id = e.id
		 WHERE e.module_id = $1
		 GROUP BY e.id
		 ORDER BY e.created_at DESC`, moduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overview []ExamOverviewRow
	for rows.Next() {
		var row ExamOverviewRow
		if err := rows.Scan(&row.ExamID, &row.Title, &row.OpensAt, &row.ClosesAt,
			&row.DurationMinutes, &row.AttemptsTotal, &row.AttemptsCompleted, &row.AvgScore); err != nil {
			return nil, err
		}
		overview = append(overview, row)
	}
	return overview, rows.Err()
}

// ListByExam retrieves all attempts for an exam with student identity,
// most recently submitted first (in-progress attempts last by start time).
func (r *ResultsRepository) ListByExam(ctx context.Context, examID uuid.UUID) ([]AttemptRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.id, s.id, s.username, s.first_name, s.last_name,
		        a.started_at, a.submitted_at, a.completed, a.score
		 FROM attempts a
		 JOIN students s ON s.id = a.student_id
		 WHERE a.exam_id = $1
		 ORDER BY a.submitted_at DESC NULLS LAST, a.started_at DESC`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAttemptRows(rows)
}

// ListCompletedByExam retrieves completed attempts ordered by username.
// Feeds the CSV export, whose row order must be deterministic.
func (r *ResultsRepository) ListCompletedByExam(ctx context.Context, examID uuid.UUID) ([]AttemptRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.id, s.id, s.username, s.first_name, s.last_name,
		        a.started_at, a.submitted_at, a.completed, a.score
		 FROM attempts a
		 JOIN students s ON s.id = a.student_id
		 WHERE a.exam_id = $1 AND a.completed = TRUE
		 ORDER BY s.username`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAttemptRows(rows)
}

func collectAttemptRows(rows pgx.Rows) ([]AttemptRow, error) {
	var result []AttemptRow
	for rows.Next() {
		var row AttemptRow
		if err := rows.Scan(&row.AttemptID, &row.StudentID, &row.Username,
			&row.FirstName, &row.LastName, &row.StartedAt, &row.SubmittedAt,
			&row.Completed, &row.Score); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// QuestionStats counts, per linked question, how many attempts answered it
// and how many of those answers were correct, in question-id order.
func (r *ResultsRepository) QuestionStats(ctx context.Context, examID uuid.UUID) ([]QuestionStatRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT q.id, q.question_text,
		        COUNT(ans.id),
		        COUNT(ans.id) FILTER (WHERE ans.is_correct)
		 FROM exam_questions eq
		 JOIN questions q ON q.id = eq.question_id
		 LEFT JOIN answers ans ON ans.question_id = q.id
		      AND ans.attempt_id IN (SELECT id FROM attempts WHERE exam_id = $1)
		 WHERE eq.exam_id = $1
		 GROUP BY q.id
		 ORDER BY q.id`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []QuestionStatRow
	for rows.Next() {
		var row QuestionStatRow
		if err := rows.Scan(&row.QuestionID, &row.QuestionText, &row.AttemptsCount, &row.CorrectCount); err != nil {
			return nil, err
		}
		stats = append(stats, row)
	}
	return stats, rows.Err()
}
