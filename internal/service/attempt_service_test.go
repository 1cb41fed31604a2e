package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gayratovi/online-exam-system/internal/model"
)

const (
	testStudentID = 7
	testModuleID  = 3
)

type attemptFixture struct {
	store   *memStore
	svc     *AttemptService
	exam    *model.Exam
	qids    []uuid.UUID
	now     time.Time
	student StudentPrincipal
}

// newAttemptFixture builds a service over the fakes with a frozen clock and
// an identity shuffle, plus one active 30-minute exam with three questions.
func newAttemptFixture(t *testing.T) *attemptFixture {
	t.Helper()
	store := newMemStore()

	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	svc := NewAttemptService(
		store,
		questionStoreFake{store},
		attemptStoreFake{store},
		answerStoreFake{store},
		directoryFake{store},
		nil,
		zerolog.Nop(),
	)
	svc.now = func() time.Time { return now }
	svc.shuffle = func(n int, swap func(i, j int)) {} // deterministic order

	f := &attemptFixture{
		store:   store,
		svc:     svc,
		now:     now,
		student: StudentPrincipal{ID: testStudentID},
	}

	exam := &model.Exam{
		ID:              uuid.New(),
		Title:           "Midterm",
		ModuleID:        testModuleID,
		IsActive:        true,
		DurationMinutes: 30,
	}
	store.exams[exam.ID] = exam
	f.exam = exam
	store.enrollments[[2]int{testStudentID, testModuleID}] = true

	answers := []string{"4", "True", "b"}
	types := []model.QuestionType{model.QuestionTypeFill, model.QuestionTypeTF, model.QuestionTypeMCQ}
	for i := 0; i < 3; i++ {
		q := &model.Question{
			ID:            uuid.New(),
			ModuleID:      testModuleID,
			QuestionText:  "q",
			QuestionType:  types[i],
			CorrectAnswer: answers[i],
		}
		store.questions[q.ID] = q
		store.examLinks[exam.ID] = append(store.examLinks[exam.ID], q.ID)
		f.qids = append(f.qids, q.ID)
	}

	return f
}

func (f *attemptFixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
	now := f.now
	f.svc.now = func() time.Time { return now }
}

func TestStartCreatesAttemptWithFixedDeadline(t *testing.T) {
	f := newAttemptFixture(t)
	ctx := context.Background()

	outcome, err := f.svc.Start(ctx, f.student, f.exam.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if outcome.AlreadyCompleted || outcome.Finalized {
		t.Fatalf("fresh start reported completed=%v finalized=%v", outcome.AlreadyCompleted, outcome.Finalized)
	}
	if outcome.TotalQuestions != 3 || outcome.NextIndex != 0 {
		t.Errorf("got total=%d next=%d, want 3, 0", outcome.TotalQuestions, outcome.NextIndex)
	}
	wantEnd := f.now.Add(30 * time.Minute)
	if !outcome.Attempt.EndsAt.Equal(wantEnd) {
		t.Errorf("EndsAt = %v, want %v", outcome.Attempt.EndsAt, wantEnd)
	}
	if len(outcome.Attempt.QuestionOrder) != 3 {
		t.Errorf("question order not captured: %v", outcome.Attempt.QuestionOrder)
	}

	// Resume ten minutes later: same attempt, same deadline.
	f.advance(10 * time.Minute)
	resumed, err := f.svc.Start(ctx, f.student, f.exam.ID)
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if resumed.Attempt.ID != outcome.Attempt.ID {
		t.Error("resume created a second attempt")
	}
	if !resumed.Attempt.EndsAt.Equal(wantEnd) {
		t.Errorf("deadline moved on resume: %v", resumed.Attempt.EndsAt)
	}
}

func TestStartResumesAtFirstUnanswered(t *testing.T) {
	f := newAttemptFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Start(ctx, f.student, f.exam.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := f.svc.RecordAnswer(ctx, f.student, f.exam.ID, 0, model.SubmitAnswerRequest{
		Answer: "4", Direction: model.DirectionNext,
	}); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}

	outcome, err := f.svc.Start(ctx, f.student, f.exam.ID)
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if outcome.NextIndex != 1 {
		t.Errorf("NextIndex = %d, want 1", outcome.NextIndex)
	}
}

func TestStartRejections(t *testing.T) {
	f := newAttemptFixture(t)
	ctx := context.Background()

	t.Run("not enrolled", func(t *testing.T) {
		_, err := f.svc.Start(ctx, StudentPrincipal{ID: 99}, f.exam.ID)
		if !errors.Is(err, ErrNotEnrolled) {
			t.Errorf("err = %v, want ErrNotEnrolled", err)
		}
	})

	t.Run("unknown exam", func(t *testing.T) {
		_, err := f.svc.Start(ctx, f.student, uuid.New())
		if !errors.Is(err, ErrExamNotFound) {
			t.Errorf("err = %v, want ErrExamNotFound", err)
		}
	})

	t.Run("inactive exam reads as missing", func(t *testing.T) {
		f.store.exams[f.exam.ID].IsActive = false
		defer func() { f.store.exams[f.exam.ID].IsActive = true }()
		_, err := f.svc.Start(ctx, f.student, f.exam.ID)
		if !errors.Is(err, ErrExamNotFound) {
			t.Errorf("err = %v, want ErrExamNotFound", err)
		}
	})

	t.Run("window closed", func(t *testing.T) {
		closes := f.now.Add(-time.Minute)
		f.store.exams[f.exam.ID].ClosesAt = &closes
		defer func() { f.store.exams[f.exam.ID].ClosesAt = nil }()
		_, err := f.svc.Start(ctx, f.student, f.exam.ID)
		if !errors.Is(err, ErrWindowClosed) {
			t.Errorf("err = %v, want ErrWindowClosed", err)
		}
	})

	t.Run("no questions", func(t *testing.T) {
		empty := &model.Exam{ID: uuid.New(), ModuleID: testModuleID, IsActive: true, DurationMinutes: 10}
		f.store.exams[empty.ID] = empty
		_, err := f.svc.Start(ctx, f.student, empty.ID)
		if !errors.Is(err, ErrNoQuestions) {
			t.Errorf("err = %v, want ErrNoQuestions", err)
		}
	})
}

func TestStartAfterCompletionPointsAtResult(t *testing.T) {
	f := newAttemptFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Start(ctx, f.student, f.exam.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := f.svc.Finalize(ctx, f.student, f.exam.ID); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	outcome, err := f.svc.Start(ctx, f.student, f.exam.ID)
	if err != nil {
		t.Fatalf("Start after completion: %v", err)
	}
	if !outcome.AlreadyCompleted {
		t.Error("expected AlreadyCompleted")
	}
}

func TestConcurrentStartAdoptsWinner(t *testing.T) {
	f := newAttemptFixture(t)
	ctx := context.Background()

	// A racing request created the row between our lookup and insert.
	winner := &model.Attempt{
		ID:            uuid.New(),
		ExamID:        f.exam.ID,
		StudentID:     testStudentID,
		StartedAt:     f.now.Add(-time.Second),
		EndsAt:        f.now.Add(30 * time.Minute),
		QuestionOrder: f.qids,
	}
	raced := false
	f.svc.shuffle = func(n int, swap func(i, j int)) {
		if !raced {
			raced = true
			f.store.attempts[winner.ID] = winner
		}
	}

	outcome, err := f.svc.Start(ctx, f.student, f.exam.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if outcome.Attempt.ID != winner.ID {
		t.Errorf("adopted attempt %s, want winner %s", outcome.Attempt.ID, winner.ID)
	}
	if len(f.store.attempts) != 1 {
		t.Errorf("%d attempts exist, want 1", len(f.store.attempts))
	}
}

func TestExpiredResumeAutoFinalizes(t *testing.T) {
	f := newAttemptFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Start(ctx, f.student, f.exam.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := f.svc.RecordAnswer(ctx, f.student, f.exam.ID, 0, model.SubmitAnswerRequest{
		Answer: "4", Direction: model.DirectionNext,
	}); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}

	f.advance(31 * time.Minute)

	outcome, err := f.svc.Start(ctx, f.student, f.exam.ID)
	if err != nil {
		t.Fatalf("expired resume: %v", err)
	}
	if !outcome.Finalized {
		t.Fatal("expected auto-finalize on expired resume")
	}
	if outcome.Attempt.Score == nil || *outcome.Attempt.Score != 33.33 {
		t.Errorf("score = %v, want 33.33 (1 of 3 answered correctly)", outcome.Attempt.Score)
	}
}

func TestViewQuestion(t *testing.T) {
	f := newAttemptFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Start(ctx, f.student, f.exam.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}

	view, err := f.svc.ViewQuestion(ctx, f.student, f.exam.ID, 1)
	if err != nil {
		t.Fatalf("ViewQuestion: %v", err)
	}
	if view.Question.ID != f.qids[1] {
		t.Errorf("question = %s, want %s", view.Question.ID, f.qids[1])
	}
	if !view.HasPrev || !view.HasNext {
		t.Errorf("nav flags = prev %v next %v, want both true", view.HasPrev, view.HasNext)
	}
	if view.RemainingSeconds != 1800 {
		t.Errorf("RemainingSeconds = %d, want 1800", view.RemainingSeconds)
	}

	// Out-of-range index lands on the first question.
	view, err = f.svc.ViewQuestion(ctx, f.student, f.exam.ID, 42)
	if err != nil {
		t.Fatalf("ViewQuestion out of range: %v", err)
	}
	if view.Index != 0 {
		t.Errorf("clamped index = %d, want 0", view.Index)
	}

	// A recorded answer comes back as prefill.
	if _, err := f.svc.RecordAnswer(ctx, f.student, f.exam.ID, 1, model.SubmitAnswerRequest{
		Answer: "True", Direction: model.DirectionNext,
	}); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}
	view, err = f.svc.ViewQuestion(ctx, f.student, f.exam.ID, 1)
	if err != nil {
		t.Fatalf("ViewQuestion: %v", err)
	}
	if view.Prefill != "True" {
		t.Errorf("Prefill = %q, want %q", view.Prefill, "True")
	}
}

func TestViewQuestionNeverLeaksCorrectAnswer(t *testing.T) {
	f := newAttemptFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Start(ctx, f.student, f.exam.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	view, err := f.svc.ViewQuestion(ctx, f.student, f.exam.ID, 0)
	if err != nil {
		t.Fatalf("ViewQuestion: %v", err)
	}
	// The json:"-" tag is the real guard; this catches accidental removal.
	data, err := json.Marshal(view.Question)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "correct_answer") {
		t.Errorf("serialized question leaks the answer field: %s", data)
	}
}

func TestRecordAnswerNavigation(t *testing.T) {
	f := newAttemptFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Start(ctx, f.student, f.exam.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}

	tests := []struct {
		name      string
		index     int
		direction model.Direction
		wantNext  int
	}{
		{"next advances", 0, model.DirectionNext, 1},
		{"next clamps at last", 2, model.DirectionNext, 2},
		{"previous retreats", 1, model.DirectionPrevious, 0},
		{"previous clamps at first", 0, model.DirectionPrevious, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := f.svc.RecordAnswer(ctx, f.student, f.exam.ID, tt.index, model.SubmitAnswerRequest{
				Answer: "x", Direction: tt.direction,
			})
			if err != nil {
				t.Fatalf("RecordAnswer: %v", err)
			}
			if outcome.Submitted || outcome.Finalized {
				t.Fatal("navigation should not submit")
			}
			if outcome.NextIndex != tt.wantNext {
				t.Errorf("NextIndex = %d, want %d", outcome.NextIndex, tt.wantNext)
			}
		})
	}

	t.Run("out of range index", func(t *testing.T) {
		_, err := f.svc.RecordAnswer(ctx, f.student, f.exam.ID, 9, model.SubmitAnswerRequest{
			Answer: "x", Direction: model.DirectionNext,
		})
		if !errors.Is(err, ErrQuestionNotFound) {
			t.Errorf("err = %v, want ErrQuestionNotFound", err)
		}
	})
}

func TestRecordAnswerLastWriteWins(t *testing.T) {
	f := newAttemptFixture(t)
	ctx := context.Background()

	start, err := f.svc.Start(ctx, f.student, f.exam.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	for _, answer := range []string{"wrong", "4"} {
		if _, err := f.svc.RecordAnswer(ctx, f.student, f.exam.ID, 0, model.SubmitAnswerRequest{
			Answer: answer, Direction: model.DirectionNext,
		}); err != nil {
			t.Fatalf("RecordAnswer(%q): %v", answer, err)
		}
	}

	answers := f.store.answers[start.Attempt.ID]
	if len(answers) != 1 {
		t.Fatalf("%d answer rows, want 1", len(answers))
	}
	a := answers[f.qids[0]]
	if a.SelectedAnswer != "4" || !a.IsCorrect {
		t.Errorf("stored answer = %q correct=%v, want re-graded last write", a.SelectedAnswer, a.IsCorrect)
	}
}

func TestSubmitDirectionFinalizes(t *testing.T) {
	f := newAttemptFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Start(ctx, f.student, f.exam.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	for i, answer := range []string{"4", "True"} {
		if _, err := f.svc.RecordAnswer(ctx, f.student, f.exam.ID, i, model.SubmitAnswerRequest{
			Answer: answer, Direction: model.DirectionNext,
		}); err != nil {
			t.Fatalf("RecordAnswer: %v", err)
		}
	}
	outcome, err := f.svc.RecordAnswer(ctx, f.student, f.exam.ID, 2, model.SubmitAnswerRequest{
		Answer: "b", Direction: model.DirectionSubmit,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !outcome.Submitted {
		t.Fatal("expected Submitted")
	}

	result, err := f.svc.GetResult(ctx, f.student, f.exam.ID)
	if err != nil {
		t.Fatalf("GetResult: %v", err)
	}
	if result.Correct != 3 || result.Total != 3 {
		t.Errorf("result = %d/%d, want 3/3", result.Correct, result.Total)
	}
	if result.Attempt.Score == nil || *result.Attempt.Score != 100 {
		t.Errorf("score = %v, want 100", result.Attempt.Score)
	}
}

func TestExpiredAnswerIsDiscarded(t *testing.T) {
	f := newAttemptFixture(t)
	ctx := context.Background()

	start, err := f.svc.Start(ctx, f.student, f.exam.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	f.advance(31 * time.Minute)

	outcome, err := f.svc.RecordAnswer(ctx, f.student, f.exam.ID, 0, model.SubmitAnswerRequest{
		Answer: "4", Direction: model.DirectionNext,
	})
	if err != nil {
		t.Fatalf("stale answer: %v", err)
	}
	if !outcome.Finalized {
		t.Fatal("expected finalize instead of save")
	}
	if len(f.store.answers[start.Attempt.ID]) != 0 {
		t.Error("stale answer was persisted")
	}

	attempt := f.store.attempts[start.Attempt.ID]
	if !attempt.Completed || attempt.Score == nil || *attempt.Score != 0 {
		t.Errorf("attempt completed=%v score=%v, want completed with 0", attempt.Completed, attempt.Score)
	}
}

func TestFinalizeIdempotent(t *testing.T) {
	f := newAttemptFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Start(ctx, f.student, f.exam.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := f.svc.RecordAnswer(ctx, f.student, f.exam.ID, 0, model.SubmitAnswerRequest{
		Answer: "4", Direction: model.DirectionNext,
	}); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}

	first, err := f.svc.Finalize(ctx, f.student, f.exam.ID)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if first.Score == nil || *first.Score != 33.33 {
		t.Fatalf("score = %v, want 33.33", first.Score)
	}

	// Replay after time passes: same score, same submitted_at.
	f.advance(5 * time.Minute)
	second, err := f.svc.Finalize(ctx, f.student, f.exam.ID)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if *second.Score != *first.Score {
		t.Errorf("replay changed score: %v -> %v", *first.Score, *second.Score)
	}
	if !second.SubmittedAt.Equal(*first.SubmittedAt) {
		t.Errorf("replay changed submitted_at: %v -> %v", first.SubmittedAt, second.SubmittedAt)
	}
}

func TestFinalizeWithoutAttempt(t *testing.T) {
	f := newAttemptFixture(t)
	_, err := f.svc.Finalize(context.Background(), f.student, f.exam.ID)
	if !errors.Is(err, ErrAttemptNotFound) {
		t.Errorf("err = %v, want ErrAttemptNotFound", err)
	}
}

func TestFinalizeCountsLiveQuestionSet(t *testing.T) {
	f := newAttemptFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Start(ctx, f.student, f.exam.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	for i, answer := range []string{"4", "True", "b"} {
		if _, err := f.svc.RecordAnswer(ctx, f.student, f.exam.ID, i, model.SubmitAnswerRequest{
			Answer: answer, Direction: model.DirectionNext,
		}); err != nil {
			t.Fatalf("RecordAnswer: %v", err)
		}
	}

	// Staff links a fourth question mid-attempt; grading uses the live set.
	extra := &model.Question{ID: uuid.New(), ModuleID: testModuleID, QuestionType: model.QuestionTypeFill, CorrectAnswer: "x"}
	f.store.questions[extra.ID] = extra
	f.store.examLinks[f.exam.ID] = append(f.store.examLinks[f.exam.ID], extra.ID)

	attempt, err := f.svc.Finalize(ctx, f.student, f.exam.ID)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if attempt.Score == nil || *attempt.Score != 75 {
		t.Errorf("score = %v, want 75 (3 of 4 live questions)", attempt.Score)
	}
}

func TestGetResultHidesInProgress(t *testing.T) {
	f := newAttemptFixture(t)
	ctx := context.Background()

	if _, err := f.svc.GetResult(ctx, f.student, f.exam.ID); !errors.Is(err, ErrResultNotReady) {
		t.Errorf("no attempt: err = %v, want ErrResultNotReady", err)
	}

	if _, err := f.svc.Start(ctx, f.student, f.exam.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := f.svc.GetResult(ctx, f.student, f.exam.ID); !errors.Is(err, ErrResultNotReady) {
		t.Errorf("in progress: err = %v, want ErrResultNotReady", err)
	}
}

func TestGetResultReplaysQuestionOrder(t *testing.T) {
	f := newAttemptFixture(t)
	ctx := context.Background()

	// Reverse shuffle so the snapshot order differs from id order.
	f.svc.shuffle = func(n int, swap func(i, j int)) {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			swap(i, j)
		}
	}

	start, err := f.svc.Start(ctx, f.student, f.exam.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	wantOrder := start.Attempt.QuestionOrder

	for i, answer := range []string{"b", "True", "4"} {
		if _, err := f.svc.RecordAnswer(ctx, f.student, f.exam.ID, i, model.SubmitAnswerRequest{
			Answer: answer, Direction: model.DirectionNext,
		}); err != nil {
			t.Fatalf("RecordAnswer: %v", err)
		}
	}
	if _, err := f.svc.Finalize(ctx, f.student, f.exam.ID); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	result, err := f.svc.GetResult(ctx, f.student, f.exam.ID)
	if err != nil {
		t.Fatalf("GetResult: %v", err)
	}
	if len(result.Answers) != 3 {
		t.Fatalf("%d answers, want 3", len(result.Answers))
	}
	for i, detail := range result.Answers {
		if detail.QuestionID != wantOrder[i] {
			t.Errorf("answer %d = question %s, want %s", i, detail.QuestionID, wantOrder[i])
		}
	}
	if result.Correct != 3 {
		t.Errorf("correct = %d, want 3", result.Correct)
	}
}

func TestRemainingClockFallsBackToStore(t *testing.T) {
	f := newAttemptFixture(t)
	ctx := context.Background()

	if _, err := f.svc.RemainingClock(ctx, f.student, f.exam.ID); !errors.Is(err, ErrAttemptNotFound) {
		t.Error("clock without attempt should report ErrAttemptNotFound")
	}

	if _, err := f.svc.Start(ctx, f.student, f.exam.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	f.advance(10 * time.Minute)

	remaining, err := f.svc.RemainingClock(ctx, f.student, f.exam.ID)
	if err != nil {
		t.Fatalf("RemainingClock: %v", err)
	}
	if remaining != 1200 {
		t.Errorf("remaining = %d, want 1200", remaining)
	}

	if _, err := f.svc.Finalize(ctx, f.student, f.exam.ID); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	remaining, err = f.svc.RemainingClock(ctx, f.student, f.exam.ID)
	if err != nil {
		t.Fatalf("RemainingClock after finalize: %v", err)
	}
	if remaining != 0 {
		t.Errorf("completed attempt clock = %d, want 0", remaining)
	}
}

func TestListExamsOverlaysAttemptStatus(t *testing.T) {
	f := newAttemptFixture(t)
	ctx := context.Background()

	entries, err := f.svc.ListExams(ctx, f.student)
	if err != nil {
		t.Fatalf("ListExams: %v", err)
	}
	if len(entries) != 1 || entries[0].Status != "NOT_STARTED" {
		t.Fatalf("entries = %+v, want one NOT_STARTED", entries)
	}

	if _, err := f.svc.Start(ctx, f.student, f.exam.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	entries, _ = f.svc.ListExams(ctx, f.student)
	if entries[0].Status != "IN_PROGRESS" {
		t.Errorf("status = %s, want IN_PROGRESS", entries[0].Status)
	}

	if _, err := f.svc.Finalize(ctx, f.student, f.exam.ID); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	entries, _ = f.svc.ListExams(ctx, f.student)
	if entries[0].Status != "COMPLETED" {
		t.Errorf("status = %s, want COMPLETED", entries[0].Status)
	}
	if entries[0].Score == nil || *entries[0].Score != 0 {
		t.Errorf("score = %v, want 0", entries[0].Score)
	}
}
