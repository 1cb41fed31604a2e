package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gayratovi/online-exam-system/internal/model"
	"github.com/gayratovi/online-exam-system/internal/repository"
)

// In-memory store fakes. They reproduce the repository contracts the
// services rely on: Create returns ErrDuplicate on a (student, exam)
// collision and Finalize returns ErrNotFound once completed.

type memStore struct {
	mu          sync.Mutex
	exams       map[uuid.UUID]*model.Exam
	questions   map[uuid.UUID]*model.Question
	examLinks   map[uuid.UUID][]uuid.UUID // exam -> question ids, insertion order
	attempts    map[uuid.UUID]*model.Attempt
	answers     map[uuid.UUID]map[uuid.UUID]*model.Answer // attempt -> question -> answer
	enrollments map[[2]int]bool                           // [student, module]
	staff       map[int]int                               // staff -> module
}

func newMemStore() *memStore {
	return &memStore{
		exams:       make(map[uuid.UUID]*model.Exam),
		questions:   make(map[uuid.UUID]*model.Question),
		examLinks:   make(map[uuid.UUID][]uuid.UUID),
		attempts:    make(map[uuid.UUID]*model.Attempt),
		answers:     make(map[uuid.UUID]map[uuid.UUID]*model.Answer),
		enrollments: make(map[[2]int]bool),
		staff:       make(map[int]int),
	}
}

// ─── ExamStore ─────────────────────────────────────────────────────────

func (m *memStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.exams[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *e
	return &copied, nil
}

func (m *memStore) ListByModule(ctx context.Context, moduleID int) ([]model.Exam, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Exam
	for _, e := range m.exams {
		if e.ModuleID == moduleID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *memStore) ListForStudent(ctx context.Context, studentID int) ([]model.Exam, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Exam
	for _, e := range m.exams {
		if e.IsActive && m.enrollments[[2]int{studentID, e.ModuleID}] {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *memStore) ListQuestions(ctx context.Context, examID uuid.UUID) ([]model.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Question
	for _, qid := range m.examLinks[examID] {
		if q, ok := m.questions[qid]; ok {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (m *memStore) CountQuestions(ctx context.Context, examID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.examLinks[examID]), nil
}

// ─── QuestionStore ─────────────────────────────────────────────────────

func (m *memStore) GetQuestionByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.questions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *q
	return &copied, nil
}

// questionStoreFake adapts memStore to the QuestionStore interface, whose
// GetByID signature collides with ExamStore's.
type questionStoreFake struct{ *memStore }

func (f questionStoreFake) GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	return f.GetQuestionByID(ctx, id)
}

// ─── AttemptStore ──────────────────────────────────────────────────────

type attemptStoreFake struct{ *memStore }

func (f attemptStoreFake) Create(ctx context.Context, a *model.Attempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.attempts {
		if existing.ExamID == a.ExamID && existing.StudentID == a.StudentID {
			return repository.ErrDuplicate
		}
	}
	copied := *a
	f.attempts[a.ID] = &copied
	return nil
}

func (f attemptStoreFake) GetByExamAndStudent(ctx context.Context, examID uuid.UUID, studentID int) (*model.Attempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.attempts {
		if a.ExamID == examID && a.StudentID == studentID {
			copied := *a
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f attemptStoreFake) GetByID(ctx context.Context, id uuid.UUID) (*model.Attempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.attempts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (f attemptStoreFake) ListByStudent(ctx context.Context, studentID int) ([]model.Attempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Attempt
	for _, a := range f.attempts {
		if a.StudentID == studentID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f attemptStoreFake) Finalize(ctx context.Context, id uuid.UUID, score float64, submittedAt time.Time) (*model.Attempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.attempts[id]
	if !ok || a.Completed {
		return nil, repository.ErrNotFound
	}
	a.Completed = true
	a.Score = &score
	sub := submittedAt
	a.SubmittedAt = &sub
	copied := *a
	return &copied, nil
}

// ─── AnswerStore ───────────────────────────────────────────────────────

type answerStoreFake struct{ *memStore }

func (f answerStoreFake) Upsert(ctx context.Context, a *model.Answer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	byQuestion, ok := f.answers[a.AttemptID]
	if !ok {
		byQuestion = make(map[uuid.UUID]*model.Answer)
		f.answers[a.AttemptID] = byQuestion
	}
	if existing, ok := byQuestion[a.QuestionID]; ok {
		existing.SelectedAnswer = a.SelectedAnswer
		existing.IsCorrect = a.IsCorrect
		return nil
	}
	copied := *a
	byQuestion[a.QuestionID] = &copied
	return nil
}

func (f answerStoreFake) ListByAttempt(ctx context.Context, attemptID uuid.UUID) ([]model.Answer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Answer
	for _, a := range f.answers[attemptID] {
		out = append(out, *a)
	}
	return out, nil
}

func (f answerStoreFake) ListDetailByAttempt(ctx context.Context, attemptID uuid.UUID) ([]repository.AnswerDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []repository.AnswerDetail
	for _, a := range f.answers[attemptID] {
		text := ""
		if q, ok := f.questions[a.QuestionID]; ok {
			text = q.QuestionText
		}
		out = append(out, repository.AnswerDetail{
			QuestionID:   a.QuestionID,
			QuestionText: text,
			Selected:     a.SelectedAnswer,
			IsCorrect:    a.IsCorrect,
		})
	}
	return out, nil
}

func (f answerStoreFake) CountCorrect(ctx context.Context, attemptID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, a := range f.answers[attemptID] {
		if a.IsCorrect {
			count++
		}
	}
	return count, nil
}

// ─── Directory ─────────────────────────────────────────────────────────

type directoryFake struct{ *memStore }

func (f directoryFake) IsEnrolled(ctx context.Context, studentID, moduleID int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enrollments[[2]int{studentID, moduleID}], nil
}

func (f directoryFake) StaffModule(ctx context.Context, staffID int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	moduleID, ok := f.staff[staffID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	return moduleID, nil
}
