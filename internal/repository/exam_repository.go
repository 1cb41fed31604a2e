package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gayratovi/online-exam-system/internal/model"
)

// ExamRepository handles exam catalog data access.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

const examColumns = `id, title, description, module_id, is_active, opens_at, closes_at, duration_minutes, created_at`

func scanExam(row pgx.Row) (*model.Exam, error) {
	e := &model.Exam{}
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.ModuleID, &e.IsActive,
		&e.OpensAt, &e.ClosesAt, &e.DurationMinutes, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// GetByID retrieves an exam by its UUID.
func (r *ExamRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	return scanExam(r.pool.QueryRow(ctx,
		`SELECT `+examColumns+` FROM exams WHERE id = $1`, id))
}

// ListByModule retrieves all exams belonging to a module, newest first.
func (r *ExamRepository) ListByModule(ctx context.Context, moduleID int) ([]model.Exam, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+examColumns+` FROM exams
		 WHERE module_id = $1
		 ORDER BY created_at DESC`, moduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectExams(rows)
}

// ListForStudent retrieves active exams in every module the student is
// enrolled in, newest first. Feeds the student dashboard.
func (r *ExamRepository) ListForStudent(ctx context.Context, studentID int) ([]model.Exam, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT e.id, e.title, e.description, e.module_id, e.is_active,
		        e.opens_at, e.closes_at, e.duration_minutes, e.created_at
		 FROM exams e
		 JOIN student_modules sm ON sm.module_id = e.module_id
		 WHERE sm.student_id = $1 AND e.is_active = TRUE
		 ORDER BY e.created_at DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectExams(rows)
}

func collectExams(rows pgx.Rows) ([]model.Exam, error) {
	var exams []model.Exam
	for rows.Next() {
		var e model.Exam
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.ModuleID, &e.IsActive,
			&e.OpensAt, &e.ClosesAt, &e.DurationMinutes, &e.CreatedAt); err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

// ListQuestions retrieves the exam's linked questions in question-id order.
// Insertion order of the link table is deliberately irrelevant.
func (r *ExamRepository) ListQuestions(ctx context.Context, examID uuid.UUID) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT q.id, q.module_id, q.question_text, q.question_type,
		        q.option_a, q.option_b, q.option_c, q.option_d, q.correct_answer
		 FROM questions q
		 JOIN exam_questions eq ON eq.question_id = q.id
		 WHERE eq.exam_id = $1
		 ORDER BY q.id`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.ModuleID, &q.QuestionText, &q.QuestionType,
			&q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD, &q.CorrectAnswer); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// CountQuestions returns the live linked-question count for an exam.
// Finalize grades against this count, not the attempt's snapshot.
func (r *ExamRepository) CountQuestions(ctx context.Context, examID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM exam_questions WHERE exam_id = $1`, examID,
	).Scan(&n)
	return n, err
}
