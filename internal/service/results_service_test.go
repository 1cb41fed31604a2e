package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gayratovi/online-exam-system/internal/model"
	"github.com/gayratovi/online-exam-system/internal/repository"
)

type resultsStoreFake struct {
	overview  []repository.ExamOverviewRow
	attempts  []repository.AttemptRow
	completed []repository.AttemptRow
	stats     []repository.QuestionStatRow
}

func (f *resultsStoreFake) OverviewByModule(ctx context.Context, moduleID int) ([]repository.ExamOverviewRow, error) {
	return f.overview, nil
}

func (f *resultsStoreFake) ListByExam(ctx context.Context, examID uuid.UUID) ([]repository.AttemptRow, error) {
	return f.attempts, nil
}

func (f *resultsStoreFake) ListCompletedByExam(ctx context.Context, examID uuid.UUID) ([]repository.AttemptRow, error) {
	return f.completed, nil
}

func (f *resultsStoreFake) QuestionStats(ctx context.Context, examID uuid.UUID) ([]repository.QuestionStatRow, error) {
	return f.stats, nil
}

type resultsFixture struct {
	store   *memStore
	results *resultsStoreFake
	svc     *ResultsService
	exam    *model.Exam
	staff   StaffPrincipal
}

func newResultsFixture(t *testing.T) *resultsFixture {
	t.Helper()
	store := newMemStore()
	results := &resultsStoreFake{}

	exam := &model.Exam{
		ID:              uuid.New(),
		Title:           "Midterm",
		ModuleID:        testModuleID,
		IsActive:        true,
		DurationMinutes: 30,
	}
	store.exams[exam.ID] = exam
	store.staff[1] = testModuleID

	svc := NewResultsService(
		store,
		attemptStoreFake{store},
		answerStoreFake{store},
		results,
		directoryFake{store},
		zerolog.Nop(),
	)
	return &resultsFixture{
		store:   store,
		results: results,
		svc:     svc,
		exam:    exam,
		staff:   StaffPrincipal{ID: 1, ModuleID: testModuleID},
	}
}

func floatPtr(v float64) *float64 { return &v }

func TestOverviewPercentages(t *testing.T) {
	f := newResultsFixture(t)
	f.results.overview = []repository.ExamOverviewRow{
		{ExamID: f.exam.ID, Title: "Midterm", AttemptsTotal: 3, AttemptsCompleted: 2, AvgScore: floatPtr(66.666666)},
		{ExamID: uuid.New(), Title: "Final", AttemptsTotal: 0, AttemptsCompleted: 0},
	}

	overview, err := f.svc.Overview(context.Background(), f.staff)
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if len(overview) != 2 {
		t.Fatalf("%d rows, want 2", len(overview))
	}

	withAttempts := overview[0]
	if withAttempts.CompletionPct == nil || *withAttempts.CompletionPct != 66.7 {
		t.Errorf("completion = %v, want 66.7", withAttempts.CompletionPct)
	}
	if withAttempts.AvgScore == nil || *withAttempts.AvgScore != 66.67 {
		t.Errorf("avg = %v, want 66.67", withAttempts.AvgScore)
	}

	empty := overview[1]
	if empty.CompletionPct != nil {
		t.Errorf("zero-attempt completion = %v, want nil", *empty.CompletionPct)
	}
	if empty.AvgScore != nil {
		t.Errorf("zero-attempt avg = %v, want nil", *empty.AvgScore)
	}
}

func TestExamResultsDerivedColumns(t *testing.T) {
	f := newResultsFixture(t)
	started := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	submitted := started.Add(1*time.Hour + 5*time.Minute + 7*time.Second)

	f.results.attempts = []repository.AttemptRow{
		{
			AttemptID: uuid.New(), StudentID: 1, Username: "amy",
			FirstName: "Amy", LastName: "Pond",
			StartedAt: started, SubmittedAt: &submitted,
			Completed: true, Score: floatPtr(80),
		},
		{
			AttemptID: uuid.New(), StudentID: 2, Username: "rory",
			FirstName: "Rory", LastName: "Williams",
			StartedAt: started,
		},
	}

	results, err := f.svc.ExamResults(context.Background(), f.staff, f.exam.ID)
	if err != nil {
		t.Fatalf("ExamResults: %v", err)
	}

	done := results.Attempts[0]
	if done.Status != "Completed" {
		t.Errorf("status = %q, want Completed", done.Status)
	}
	if done.TimeTaken != "01:05:07" {
		t.Errorf("time taken = %q, want 01:05:07", done.TimeTaken)
	}
	if done.FullName != "Amy Pond" {
		t.Errorf("full name = %q", done.FullName)
	}

	open := results.Attempts[1]
	if open.Status != "In Progress" {
		t.Errorf("status = %q, want In Progress", open.Status)
	}
	if open.TimeTaken != "" {
		t.Errorf("in-progress time taken = %q, want empty", open.TimeTaken)
	}

	if results.AvgScore == nil || *results.AvgScore != 80 {
		t.Errorf("avg = %v, want 80 (completed only)", results.AvgScore)
	}
}

func TestQuestionStatsPercentages(t *testing.T) {
	f := newResultsFixture(t)
	f.results.stats = []repository.QuestionStatRow{
		{QuestionID: uuid.New(), QuestionText: "q1", AttemptsCount: 3, CorrectCount: 1},
		{QuestionID: uuid.New(), QuestionText: "q2", AttemptsCount: 4, CorrectCount: 0},
		{QuestionID: uuid.New(), QuestionText: "q3", AttemptsCount: 0, CorrectCount: 0},
	}

	stats, err := f.svc.QuestionStats(context.Background(), f.staff, f.exam.ID)
	if err != nil {
		t.Fatalf("QuestionStats: %v", err)
	}

	if stats[0].CorrectPct == nil || *stats[0].CorrectPct != 33.3 {
		t.Errorf("q1 pct = %v, want 33.3", stats[0].CorrectPct)
	}
	// Everyone wrong is 0.0, which is distinct from nobody answering.
	if stats[1].CorrectPct == nil || *stats[1].CorrectPct != 0 {
		t.Errorf("q2 pct = %v, want 0", stats[1].CorrectPct)
	}
	if stats[2].CorrectPct != nil {
		t.Errorf("q3 pct = %v, want nil", *stats[2].CorrectPct)
	}
}

func TestModuleOwnershipGate(t *testing.T) {
	f := newResultsFixture(t)
	otherStaff := StaffPrincipal{ID: 2, ModuleID: testModuleID + 1}

	if _, err := f.svc.ExamResults(context.Background(), otherStaff, f.exam.ID); !errors.Is(err, ErrNotModuleStaff) {
		t.Errorf("ExamResults err = %v, want ErrNotModuleStaff", err)
	}
	if _, err := f.svc.QuestionStats(context.Background(), otherStaff, f.exam.ID); !errors.Is(err, ErrNotModuleStaff) {
		t.Errorf("QuestionStats err = %v, want ErrNotModuleStaff", err)
	}
	var buf bytes.Buffer
	if _, err := f.svc.ExportCsv(context.Background(), otherStaff, f.exam.ID, &buf); !errors.Is(err, ErrNotModuleStaff) {
		t.Errorf("ExportCsv err = %v, want ErrNotModuleStaff", err)
	}
	if buf.Len() != 0 {
		t.Error("rejected export wrote bytes")
	}

	if _, err := f.svc.ExamResults(context.Background(), f.staff, uuid.New()); !errors.Is(err, ErrExamNotFound) {
		t.Errorf("unknown exam err = %v, want ErrExamNotFound", err)
	}
}

func TestDirectoryOverridesModuleClaim(t *testing.T) {
	f := newResultsFixture(t)
	ctx := context.Background()

	// Reassigned staff member holding a token that still claims the old
	// module: the directory wins.
	f.store.staff[3] = testModuleID + 1
	reassigned := StaffPrincipal{ID: 3, ModuleID: testModuleID}
	if _, err := f.svc.ExamResults(ctx, reassigned, f.exam.ID); !errors.Is(err, ErrNotModuleStaff) {
		t.Errorf("stale-claim err = %v, want ErrNotModuleStaff", err)
	}
	if _, err := f.svc.Overview(ctx, reassigned); err != nil {
		t.Errorf("Overview for reassigned staff err = %v, want nil (new module)", err)
	}

	// The inverse: the directory grants access even when the claim lags.
	f.store.staff[4] = testModuleID
	current := StaffPrincipal{ID: 4, ModuleID: testModuleID + 9}
	if _, err := f.svc.ExamResults(ctx, current, f.exam.ID); err != nil {
		t.Errorf("directory-backed staff err = %v, want nil", err)
	}
}

func TestAttemptDetailOwnership(t *testing.T) {
	f := newResultsFixture(t)
	ctx := context.Background()

	attempt := &model.Attempt{
		ID:        uuid.New(),
		ExamID:    f.exam.ID,
		StudentID: testStudentID,
		StartedAt: time.Now(),
		EndsAt:    time.Now().Add(30 * time.Minute),
	}
	f.store.attempts[attempt.ID] = attempt

	detail, err := f.svc.AttemptDetail(ctx, f.staff, attempt.ID)
	if err != nil {
		t.Fatalf("AttemptDetail: %v", err)
	}
	if detail.Attempt.ID != attempt.ID {
		t.Error("wrong attempt returned")
	}

	otherStaff := StaffPrincipal{ID: 2, ModuleID: testModuleID + 1}
	if _, err := f.svc.AttemptDetail(ctx, otherStaff, attempt.ID); !errors.Is(err, ErrNotModuleStaff) {
		t.Errorf("err = %v, want ErrNotModuleStaff", err)
	}

	if _, err := f.svc.AttemptDetail(ctx, f.staff, uuid.New()); !errors.Is(err, ErrAttemptNotFound) {
		t.Errorf("err = %v, want ErrAttemptNotFound", err)
	}
}

func TestExportCsv(t *testing.T) {
	f := newResultsFixture(t)
	started := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	submitted := started.Add(42 * time.Minute)

	f.results.completed = []repository.AttemptRow{
		{
			AttemptID: uuid.New(), StudentID: 1, Username: "amy",
			FirstName: "Amy", LastName: "Pond, Jr.",
			StartedAt: started, SubmittedAt: &submitted,
			Completed: true, Score: floatPtr(87.5),
		},
	}

	var buf bytes.Buffer
	filename, err := f.svc.ExportCsv(context.Background(), f.staff, f.exam.ID, &buf)
	if err != nil {
		t.Fatalf("ExportCsv: %v", err)
	}
	if want := "exam_" + f.exam.ID.String() + "_results.csv"; filename != want {
		t.Errorf("filename = %q, want %q", filename, want)
	}

	want := "username,full_name,score,started_at,submitted_at,time_taken_secs\n" +
		"amy,Amy Pond  Jr.,87.50,2026-03-02T10:00:00Z,2026-03-02T10:42:00Z,2520\n"
	if got := buf.String(); got != want {
		t.Errorf("csv mismatch:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestExportCsvHeaderOnlyWhenEmpty(t *testing.T) {
	f := newResultsFixture(t)

	var buf bytes.Buffer
	if _, err := f.svc.ExportCsv(context.Background(), f.staff, f.exam.ID, &buf); err != nil {
		t.Fatalf("ExportCsv: %v", err)
	}
	if got := buf.String(); got != "username,full_name,score,started_at,submitted_at,time_taken_secs\n" {
		t.Errorf("empty export = %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{59 * time.Second, "00:00:59"},
		{time.Minute, "00:01:00"},
		{time.Hour + 5*time.Minute + 7*time.Second, "01:05:07"},
		{26 * time.Hour, "26:00:00"},
		{-time.Minute, "00:00:00"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
