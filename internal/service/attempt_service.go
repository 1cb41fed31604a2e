package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gayratovi/online-exam-system/internal/config"
	"github.com/gayratovi/online-exam-system/internal/model"
	"github.com/gayratovi/online-exam-system/internal/repository"
)

// AttemptService is the exam attempt state machine. Every mutating
// operation re-checks the exam window and the attempt's time budget at
// entry; expiry is detected lazily on the student's next interaction and
// routes to finalization instead of surfacing an error.
type AttemptService struct {
	exams     ExamStore
	questions QuestionStore
	attempts  AttemptStore
	answers   AnswerStore
	directory Directory
	rdb       *redis.Client // optional deadline cache; nil in unit tests
	log       zerolog.Logger

	now     func() time.Time
	shuffle func(n int, swap func(i, j int))
}

// NewAttemptService creates a new AttemptService.
func NewAttemptService(
	exams ExamStore,
	questions QuestionStore,
	attempts AttemptStore,
	answers AnswerStore,
	directory Directory,
	rdb *redis.Client,
	log zerolog.Logger,
) *AttemptService {
	return &AttemptService{
		exams:     exams,
		questions: questions,
		attempts:  attempts,
		answers:   answers,
		directory: directory,
		rdb:       rdb,
		log:       log.With().Str("component", "attempt_service").Logger(),
		now:       time.Now,
		shuffle:   rand.Shuffle,
	}
}

// StartOutcome reports where the student lands after a Start call.
type StartOutcome struct {
	Attempt *model.Attempt `json:"attempt"`

	// AlreadyCompleted means a finished attempt exists; the client should
	// show the result instead of a question.
	AlreadyCompleted bool `json:"already_completed"`

	// Finalized means the resumed attempt's time budget had already
	// elapsed, so it was auto-submitted during this call.
	Finalized bool `json:"finalized"`

	// NextIndex is the first question not yet answered.
	NextIndex      int `json:"next_index"`
	TotalQuestions int `json:"total_questions"`
}

// QuestionView is one question presented to the student, with prefill and
// the remaining time budget.
type QuestionView struct {
	Finalized        bool            `json:"finalized"`
	Question         *model.Question `json:"question,omitempty"`
	Index            int             `json:"index"`
	Total            int             `json:"total"`
	Prefill          string          `json:"prefill"`
	RemainingSeconds int             `json:"remaining_seconds"`
	HasPrev          bool            `json:"has_prev"`
	HasNext          bool            `json:"has_next"`
}

// AnswerOutcome reports navigation after an answer submission.
type AnswerOutcome struct {
	Finalized bool `json:"finalized"`
	Submitted bool `json:"submitted"`
	NextIndex int  `json:"next_index"`
}

// ExamResult is a completed attempt with its answers replayed in the
// attempt's question order.
type ExamResult struct {
	Attempt *model.Attempt            `json:"attempt"`
	Answers []repository.AnswerDetail `json:"answers"`
	Correct int                       `json:"correct"`
	Total   int                       `json:"total"`
}

// StudentExamEntry is one exam on the student dashboard with the student's
// attempt status overlaid.
type StudentExamEntry struct {
	Exam   model.Exam `json:"exam"`
	Status string     `json:"status"` // NOT_STARTED | IN_PROGRESS | COMPLETED
	Score  *float64   `json:"score,omitempty"`
}

// Start begins or resumes the student's attempt against an exam.
// Idempotent: a second Start for a non-completed attempt resumes it with
// the original deadline, and a Start after completion points at the result.
// Safe under concurrent duplicate requests — the losing writer reads back
// the winner's row.
func (s *AttemptService) Start(ctx context.Context, student StudentPrincipal, examID uuid.UUID) (*StartOutcome, error) {
	now := s.now()

	exam, err := s.authorizedExam(ctx, student, examID)
	if err != nil {
		return nil, err
	}
	if !exam.IsOpenAt(now) {
		return nil, ErrWindowClosed
	}

	attempt, err := s.attempts.GetByExamAndStudent(ctx, examID, student.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("find attempt: %w", err)
	}

	if attempt == nil {
		questions, err := s.exams.ListQuestions(ctx, examID)
		if err != nil {
			return nil, fmt.Errorf("list questions: %w", err)
		}
		if len(questions) == 0 {
			return nil, ErrNoQuestions
		}

		order := make([]uuid.UUID, len(questions))
		for i, q := range questions {
			order[i] = q.ID
		}
		s.shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})

		attempt = &model.Attempt{
			ID:            uuid.New(),
			ExamID:        examID,
			StudentID:     student.ID,
			StartedAt:     now,
			EndsAt:        now.Add(exam.Duration()),
			QuestionOrder: order,
		}

		if err := s.attempts.Create(ctx, attempt); err != nil {
			if !errors.Is(err, repository.ErrDuplicate) {
				return nil, fmt.Errorf("create attempt: %w", err)
			}
			// Lost the race to a concurrent Start. The unique constraint
			// on (student, exam) is the serialization point; adopt the
			// winner's row.
			attempt, err = s.attempts.GetByExamAndStudent(ctx, examID, student.ID)
			if err != nil {
				return nil, fmt.Errorf("concurrent start detected, read back failed: %w", err)
			}
		} else {
			s.log.Info().
				Str("attempt_id", attempt.ID.String()).
				Str("exam_id", examID.String()).
				Int("student_id", student.ID).
				Time("ends_at", attempt.EndsAt).
				Msg("Attempt started")
		}
	}

	if attempt.Completed {
		return &StartOutcome{Attempt: attempt, AlreadyCompleted: true}, nil
	}

	s.cacheDeadline(ctx, attempt)

	// Resuming an expired attempt submits it immediately.
	if attempt.IsTimeOver(now) {
		finalized, err := s.finalize(ctx, attempt)
		if err != nil {
			return nil, err
		}
		return &StartOutcome{Attempt: finalized, Finalized: true}, nil
	}

	order, err := s.questionOrder(ctx, examID, attempt)
	if err != nil {
		return nil, err
	}

	next, err := s.firstUnanswered(ctx, attempt, order)
	if err != nil {
		return nil, err
	}

	return &StartOutcome{
		Attempt:        attempt,
		NextIndex:      next,
		TotalQuestions: len(order),
	}, nil
}

// ViewQuestion returns the question at the given navigation index together
// with any previously recorded answer. An index outside [0, total) lands on
// index 0 rather than erroring. If the time budget has elapsed the attempt
// is finalized instead.
func (s *AttemptService) ViewQuestion(ctx context.Context, student StudentPrincipal, examID uuid.UUID, index int) (*QuestionView, error) {
	now := s.now()

	exam, attempt, err := s.activeAttempt(ctx, student, examID)
	if err != nil {
		return nil, err
	}

	if !exam.IsOpenAt(now) || attempt.IsTimeOver(now) {
		if _, err := s.finalize(ctx, attempt); err != nil {
			return nil, err
		}
		return &QuestionView{Finalized: true}, nil
	}

	order, err := s.questionOrder(ctx, examID, attempt)
	if err != nil {
		return nil, err
	}
	total := len(order)
	if total == 0 {
		return nil, ErrNoQuestions
	}
	if index < 0 || index >= total {
		index = 0
	}

	question, err := s.questions.GetByID(ctx, order[index])
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("get question: %w", err)
	}

	prefill := ""
	recorded, err := s.answers.ListByAttempt(ctx, attempt.ID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	for _, a := range recorded {
		if a.QuestionID == question.ID {
			prefill = a.SelectedAnswer
			break
		}
	}

	return &QuestionView{
		Question:         question,
		Index:            index,
		Total:            total,
		Prefill:          prefill,
		RemainingSeconds: attempt.RemainingSeconds(now),
		HasPrev:          index > 0,
		HasNext:          index < total-1,
	}, nil
}

// RecordAnswer grades and upserts the student's answer for the question at
// the given index, then resolves the navigation direction. A stale POST
// arriving after expiry finalizes instead of saving.
func (s *AttemptService) RecordAnswer(ctx context.Context, student StudentPrincipal, examID uuid.UUID, index int, req model.SubmitAnswerRequest) (*AnswerOutcome, error) {
	now := s.now()

	exam, attempt, err := s.activeAttempt(ctx, student, examID)
	if err != nil {
		return nil, err
	}

	if !exam.IsOpenAt(now) || attempt.IsTimeOver(now) {
		if _, err := s.finalize(ctx, attempt); err != nil {
			return nil, err
		}
		return &AnswerOutcome{Finalized: true, Submitted: true}, nil
	}

	order, err := s.questionOrder(ctx, examID, attempt)
	if err != nil {
		return nil, err
	}
	total := len(order)
	if total == 0 {
		return nil, ErrNoQuestions
	}
	if index < 0 || index >= total {
		return nil, ErrQuestionNotFound
	}

	question, err := s.questions.GetByID(ctx, order[index])
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("get question: %w", err)
	}

	answer := &model.Answer{
		ID:             uuid.New(),
		AttemptID:      attempt.ID,
		QuestionID:     question.ID,
		SelectedAnswer: normalizeAnswer(req.Answer),
		IsCorrect:      question.Grade(req.Answer),
	}
	if err := s.answers.Upsert(ctx, answer); err != nil {
		return nil, fmt.Errorf("upsert answer: %w", err)
	}

	switch req.Direction {
	case model.DirectionSubmit:
		if _, err := s.finalize(ctx, attempt); err != nil {
			return nil, err
		}
		return &AnswerOutcome{Submitted: true}, nil
	case model.DirectionPrevious:
		if index > 0 {
			index--
		}
	default: // next
		if index < total-1 {
			index++
		}
	}
	return &AnswerOutcome{NextIndex: index}, nil
}

// Finalize submits the student's attempt, computing and locking in the
// score. Irreversible and idempotent: finalizing an already-completed
// attempt is a no-op reporting the existing score.
func (s *AttemptService) Finalize(ctx context.Context, student StudentPrincipal, examID uuid.UUID) (*model.Attempt, error) {
	if _, err := s.authorizedExam(ctx, student, examID); err != nil {
		return nil, err
	}

	attempt, err := s.attempts.GetByExamAndStudent(ctx, examID, student.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("find attempt: %w", err)
	}
	if attempt.Completed {
		// Replay of a stale submit.
		return attempt, nil
	}

	return s.finalize(ctx, attempt)
}

// GetResult returns the completed attempt with its answers in the
// attempt's question order. Partial results are never shown: a
// non-completed attempt reads as not found.
func (s *AttemptService) GetResult(ctx context.Context, student StudentPrincipal, examID uuid.UUID) (*ExamResult, error) {
	if _, err := s.authorizedExam(ctx, student, examID); err != nil {
		return nil, err
	}

	attempt, err := s.attempts.GetByExamAndStudent(ctx, examID, student.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrResultNotReady
		}
		return nil, fmt.Errorf("find attempt: %w", err)
	}
	if !attempt.Completed {
		return nil, ErrResultNotReady
	}

	details, err := s.answers.ListDetailByAttempt(ctx, attempt.ID)
	if err != nil {
		return nil, fmt.Errorf("list answer details: %w", err)
	}
	details = replayInOrder(details, attempt.QuestionOrder)

	total, err := s.exams.CountQuestions(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}
	correct := 0
	for _, d := range details {
		if d.IsCorrect {
			correct++
		}
	}

	return &ExamResult{
		Attempt: attempt,
		Answers: details,
		Correct: correct,
		Total:   total,
	}, nil
}

// RemainingClock returns the seconds left on the student's attempt,
// Redis-first with a database fallback that self-heals the cache. Serves
// the frontend countdown poll without loading the full attempt.
func (s *AttemptService) RemainingClock(ctx context.Context, student StudentPrincipal, examID uuid.UUID) (int, error) {
	now := s.now()

	if s.rdb != nil {
		key := config.CacheKey.AttemptDeadlineKey(examID.String(), student.ID)
		val, err := s.rdb.Get(ctx, key).Result()
		if err == nil {
			deadline, perr := strconv.ParseInt(val, 10, 64)
			if perr == nil {
				remaining := int(time.Unix(deadline, 0).Sub(now).Seconds())
				if remaining < 0 {
					remaining = 0
				}
				return remaining, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Msg("Deadline cache read failed, falling back to DB")
		}
	}

	attempt, err := s.attempts.GetByExamAndStudent(ctx, examID, student.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrAttemptNotFound
		}
		return 0, fmt.Errorf("find attempt: %w", err)
	}
	if attempt.Completed {
		return 0, nil
	}

	s.cacheDeadline(ctx, attempt)
	return attempt.RemainingSeconds(now), nil
}

// ListExams returns the student's dashboard feed: every active exam in
// their enrolled modules with attempt status overlaid.
func (s *AttemptService) ListExams(ctx context.Context, student StudentPrincipal) ([]StudentExamEntry, error) {
	exams, err := s.exams.ListForStudent(ctx, student.ID)
	if err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}

	attempts, err := s.attempts.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	byExam := make(map[uuid.UUID]*model.Attempt, len(attempts))
	for i := range attempts {
		byExam[attempts[i].ExamID] = &attempts[i]
	}

	entries := make([]StudentExamEntry, 0, len(exams))
	for _, exam := range exams {
		entry := StudentExamEntry{Exam: exam, Status: "NOT_STARTED"}
		if a, ok := byExam[exam.ID]; ok {
			if a.Completed {
				entry.Status = "COMPLETED"
				entry.Score = a.Score
			} else {
				entry.Status = "IN_PROGRESS"
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ─── Internal helpers ──────────────────────────────────────────────────

// authorizedExam loads an active exam and checks the student's enrollment.
// Inactive exams read as not found, matching the catalog contract.
func (s *AttemptService) authorizedExam(ctx context.Context, student StudentPrincipal, examID uuid.UUID) (*model.Exam, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}
	if !exam.IsActive {
		return nil, ErrExamNotFound
	}

	enrolled, err := s.directory.IsEnrolled(ctx, student.ID, exam.ModuleID)
	if err != nil {
		return nil, fmt.Errorf("check enrollment: %w", err)
	}
	if !enrolled {
		return nil, ErrNotEnrolled
	}
	return exam, nil
}

// activeAttempt loads the exam and the student's non-completed attempt.
func (s *AttemptService) activeAttempt(ctx context.Context, student StudentPrincipal, examID uuid.UUID) (*model.Exam, *model.Attempt, error) {
	exam, err := s.authorizedExam(ctx, student, examID)
	if err != nil {
		return nil, nil, err
	}

	attempt, err := s.attempts.GetByExamAndStudent(ctx, examID, student.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrAttemptNotFound
		}
		return nil, nil, fmt.Errorf("find attempt: %w", err)
	}
	if attempt.Completed {
		return nil, nil, ErrAttemptCompleted
	}
	return exam, attempt, nil
}

// questionOrder returns the attempt's snapshot, falling back to the live
// question set in question-id order for attempts created before shuffling
// existed. The snapshot is never recomputed, even if the exam's question
// set has since changed.
func (s *AttemptService) questionOrder(ctx context.Context, examID uuid.UUID, attempt *model.Attempt) ([]uuid.UUID, error) {
	if len(attempt.QuestionOrder) > 0 {
		return attempt.QuestionOrder, nil
	}
	questions, err := s.exams.ListQuestions(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	order := make([]uuid.UUID, len(questions))
	for i, q := range questions {
		order[i] = q.ID
	}
	return order, nil
}

// firstUnanswered scans the question order against recorded answers.
func (s *AttemptService) firstUnanswered(ctx context.Context, attempt *model.Attempt, order []uuid.UUID) (int, error) {
	recorded, err := s.answers.ListByAttempt(ctx, attempt.ID)
	if err != nil {
		return 0, fmt.Errorf("list answers: %w", err)
	}
	answered := make(map[uuid.UUID]struct{}, len(recorded))
	for _, a := range recorded {
		answered[a.QuestionID] = struct{}{}
	}
	for i, qid := range order {
		if _, ok := answered[qid]; !ok {
			return i, nil
		}
	}
	return 0, nil
}

// finalize computes the score and completes the attempt. Grading counts
// against the exam's live linked-question total, not the snapshot length.
// Safe under concurrent duplicate submission: the guarded UPDATE applies
// once and losers read back the winner's row.
func (s *AttemptService) finalize(ctx context.Context, attempt *model.Attempt) (*model.Attempt, error) {
	total, err := s.exams.CountQuestions(ctx, attempt.ExamID)
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}
	correct, err := s.answers.CountCorrect(ctx, attempt.ID)
	if err != nil {
		return nil, fmt.Errorf("count correct: %w", err)
	}
	score := Score(correct, total)

	finalized, err := s.attempts.Finalize(ctx, attempt.ID, score, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// A concurrent submit won; report its result.
			return s.attempts.GetByID(ctx, attempt.ID)
		}
		return nil, fmt.Errorf("finalize attempt: %w", err)
	}

	s.clearDeadline(ctx, finalized)
	s.log.Info().
		Str("attempt_id", finalized.ID.String()).
		Float64("score", score).
		Int("correct", correct).
		Int("total", total).
		Msg("Attempt finalized")

	return finalized, nil
}

func (s *AttemptService) cacheDeadline(ctx context.Context, attempt *model.Attempt) {
	if s.rdb == nil {
		return
	}
	key := config.CacheKey.AttemptDeadlineKey(attempt.ExamID.String(), attempt.StudentID)
	if err := s.rdb.Set(ctx, key, attempt.EndsAt.Unix(), 0).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Deadline cache write failed")
	}
}

func (s *AttemptService) clearDeadline(ctx context.Context, attempt *model.Attempt) {
	if s.rdb == nil {
		return
	}
	key := config.CacheKey.AttemptDeadlineKey(attempt.ExamID.String(), attempt.StudentID)
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Deadline cache delete failed")
	}
}

// replayInOrder sorts answer details by the attempt's question order;
// details for questions outside the snapshot keep their id order at the
// tail. With no snapshot the input's question-id order stands.
func replayInOrder(details []repository.AnswerDetail, order []uuid.UUID) []repository.AnswerDetail {
	if len(order) == 0 || len(details) == 0 {
		return details
	}
	position := make(map[uuid.UUID]int, len(order))
	for i, qid := range order {
		position[qid] = i
	}
	sorted := make([]repository.AnswerDetail, len(details))
	copy(sorted, details)
	// Insertion sort keeps the incoming id order stable for strays.
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && rank(position, sorted[j].QuestionID) < rank(position, sorted[j-1].QuestionID); j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	return sorted
}

func rank(position map[uuid.UUID]int, qid uuid.UUID) int {
	if p, ok := position[qid]; ok {
		return p
	}
	return len(position)
}

// normalizeAnswer trims surrounding whitespace; grading additionally
// ignores case for MCQ and FILL (see model.Question.Grade).
func normalizeAnswer(raw string) string {
	return strings.TrimSpace(raw)
}
