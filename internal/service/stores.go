package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gayratovi/online-exam-system/internal/model"
	"github.com/gayratovi/online-exam-system/internal/repository"
)

// Storage interfaces consumed by the services. The pgx repositories satisfy
// them in production; tests substitute in-memory fakes so the attempt state
// machine runs without a live database.

// ExamStore reads the exam catalog and its question links.
type ExamStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error)
	ListByModule(ctx context.Context, moduleID int) ([]model.Exam, error)
	ListForStudent(ctx context.Context, studentID int) ([]model.Exam, error)
	ListQuestions(ctx context.Context, examID uuid.UUID) ([]model.Question, error)
	CountQuestions(ctx context.Context, examID uuid.UUID) (int, error)
}

// QuestionStore reads the question bank.
type QuestionStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error)
}

// AttemptStore persists attempts. Create must return repository.ErrDuplicate
// when the (student, exam) row already exists, and Finalize must return
// repository.ErrNotFound when the row was already completed.
type AttemptStore interface {
	Create(ctx context.Context, a *model.Attempt) error
	GetByExamAndStudent(ctx context.Context, examID uuid.UUID, studentID int) (*model.Attempt, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Attempt, error)
	ListByStudent(ctx context.Context, studentID int) ([]model.Attempt, error)
	Finalize(ctx context.Context, id uuid.UUID, score float64, submittedAt time.Time) (*model.Attempt, error)
}

// AnswerStore persists recorded answers.
type AnswerStore interface {
	Upsert(ctx context.Context, a *model.Answer) error
	ListByAttempt(ctx context.Context, attemptID uuid.UUID) ([]model.Answer, error)
	ListDetailByAttempt(ctx context.Context, attemptID uuid.UUID) ([]repository.AnswerDetail, error)
	CountCorrect(ctx context.Context, attemptID uuid.UUID) (int, error)
}

// Directory answers the membership questions the engine needs from the
// user directory; account management itself lives outside this service.
type Directory interface {
	IsEnrolled(ctx context.Context, studentID, moduleID int) (bool, error)
	StaffModule(ctx context.Context, staffID int) (int, error)
}

// ResultsStore serves the staff-facing read-only rollups.
type ResultsStore interface {
	OverviewByModule(ctx context.Context, moduleID int) ([]repository.ExamOverviewRow, error)
	ListByExam(ctx context.Context, examID uuid.UUID) ([]repository.AttemptRow, error)
	ListCompletedByExam(ctx context.Context, examID uuid.UUID) ([]repository.AttemptRow, error)
	QuestionStats(ctx context.Context, examID uuid.UUID) ([]repository.QuestionStatRow, error)
}
