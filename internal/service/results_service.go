package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gayratovi/online-exam-system/internal/model"
	"github.com/gayratovi/online-exam-system/internal/repository"
)

// ResultsService is the staff read side: per-exam rollups, per-question
// difficulty stats, attempt drill-down and CSV export. Strictly read-only
// over attempt state.
type ResultsService struct {
	exams     ExamStore
	attempts  AttemptStore
	answers   AnswerStore
	results   ResultsStore
	directory Directory
	log       zerolog.Logger
}

// NewResultsService creates a new ResultsService.
func NewResultsService(
	exams ExamStore,
	attempts AttemptStore,
	answers AnswerStore,
	results ResultsStore,
	directory Directory,
	log zerolog.Logger,
) *ResultsService {
	return &ResultsService{
		exams:     exams,
		attempts:  attempts,
		answers:   answers,
		results:   results,
		directory: directory,
		log:       log.With().Str("component", "results_service").Logger(),
	}
}

// ExamOverview is one exam's rollup on the staff dashboard.
type ExamOverview struct {
	ExamID            uuid.UUID  `json:"exam_id"`
	Title             string     `json:"title"`
	OpensAt           *time.Time `json:"opens_at,omitempty"`
	ClosesAt          *time.Time `json:"closes_at,omitempty"`
	DurationMinutes   int        `json:"duration_minutes"`
	AttemptsTotal     int        `json:"attempts_total"`
	AttemptsCompleted int        `json:"attempts_completed"`

	// CompletionPct is nil when the exam has no attempts at all.
	CompletionPct *float64 `json:"completion_pct"`

	// AvgScore averages completed attempts only; nil when there are none.
	AvgScore *float64 `json:"avg_score"`
}

// ExamResultRow is one attempt in the staff result listing.
type ExamResultRow struct {
	repository.AttemptRow
	FullName  string `json:"full_name"`
	Status    string `json:"status"`               // Completed | In Progress
	TimeTaken string `json:"time_taken,omitempty"` // HH:MM:SS, completed only
}

// ExamResults is the full staff listing for one exam.
type ExamResults struct {
	Exam     *model.Exam     `json:"exam"`
	Attempts []ExamResultRow `json:"attempts"`

	// AvgScore re-averages the listed completed attempts; nil without any.
	AvgScore *float64 `json:"avg_score"`
}

// QuestionStat is one question's difficulty reading.
type QuestionStat struct {
	QuestionID    uuid.UUID `json:"question_id"`
	QuestionText  string    `json:"question_text"`
	AttemptsCount int       `json:"attempts_count"`
	CorrectCount  int       `json:"correct_count"`

	// CorrectPct is nil when no attempt answered the question, which is
	// distinct from everyone answering it wrong (0.0).
	CorrectPct *float64 `json:"correct_pct"`
}

// AttemptDetail is the staff drill-down into a single student's attempt.
type AttemptDetail struct {
	Attempt *model.Attempt            `json:"attempt"`
	Answers []repository.AnswerDetail `json:"answers"`
}

// Overview rolls up every exam in the staff member's module.
func (s *ResultsService) Overview(ctx context.Context, staff StaffPrincipal) ([]ExamOverview, error) {
	moduleID, err := s.staffModule(ctx, staff)
	if err != nil {
		return nil, err
	}

	rows, err := s.results.OverviewByModule(ctx, moduleID)
	if err != nil {
		return nil, fmt.Errorf("overview query: %w", err)
	}

	overview := make([]ExamOverview, 0, len(rows))
	for _, row := range rows {
		entry := ExamOverview{
			ExamID:            row.ExamID,
			Title:             row.Title,
			OpensAt:           row.OpensAt,
			ClosesAt:          row.ClosesAt,
			DurationMinutes:   row.DurationMinutes,
			AttemptsTotal:     row.AttemptsTotal,
			AttemptsCompleted: row.AttemptsCompleted,
		}
		if row.AttemptsTotal > 0 {
			pct := round1(100 * float64(row.AttemptsCompleted) / float64(row.AttemptsTotal))
			entry.CompletionPct = &pct
		}
		if row.AvgScore != nil {
			avg := round2(*row.AvgScore)
			entry.AvgScore = &avg
		}
		overview = append(overview, entry)
	}
	return overview, nil
}

// ExamResults lists every attempt against one exam with derived status and
// time-taken columns.
func (s *ResultsService) ExamResults(ctx context.Context, staff StaffPrincipal, examID uuid.UUID) (*ExamResults, error) {
	exam, err := s.ownedExam(ctx, staff, examID)
	if err != nil {
		return nil, err
	}

	rows, err := s.results.ListByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}

	out := &ExamResults{Exam: exam, Attempts: make([]ExamResultRow, 0, len(rows))}
	var sum float64
	var completed int
	for _, row := range rows {
		entry := ExamResultRow{
			AttemptRow: row,
			FullName:   fullName(row.FirstName, row.LastName),
			Status:     "In Progress",
		}
		if row.Completed {
			entry.Status = "Completed"
			if row.SubmittedAt != nil {
				entry.TimeTaken = formatDuration(row.SubmittedAt.Sub(row.StartedAt))
			}
			if row.Score != nil {
				sum += *row.Score
				completed++
			}
		}
		out.Attempts = append(out.Attempts, entry)
	}
	if completed > 0 {
		avg := round2(sum / float64(completed))
		out.AvgScore = &avg
	}
	return out, nil
}

// QuestionStats reports per-question answer and correctness counts for one
// exam, in question-id order.
func (s *ResultsService) QuestionStats(ctx context.Context, staff StaffPrincipal, examID uuid.UUID) ([]QuestionStat, error) {
	if _, err := s.ownedExam(ctx, staff, examID); err != nil {
		return nil, err
	}

	rows, err := s.results.QuestionStats(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("question stats query: %w", err)
	}

	stats := make([]QuestionStat, 0, len(rows))
	for _, row := range rows {
		stat := QuestionStat{
			QuestionID:    row.QuestionID,
			QuestionText:  row.QuestionText,
			AttemptsCount: row.AttemptsCount,
			CorrectCount:  row.CorrectCount,
		}
		if row.AttemptsCount > 0 {
			pct := round1(100 * float64(row.CorrectCount) / float64(row.AttemptsCount))
			stat.CorrectPct = &pct
		}
		stats = append(stats, stat)
	}
	return stats, nil
}

// AttemptDetail drills into a single attempt, returning its answers joined
// with question text. In-progress attempts are visible to staff; only the
// student-facing result view hides them.
func (s *ResultsService) AttemptDetail(ctx context.Context, staff StaffPrincipal, attemptID uuid.UUID) (*AttemptDetail, error) {
	attempt, err := s.attempts.GetByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("get attempt: %w", err)
	}

	if _, err := s.ownedExam(ctx, staff, attempt.ExamID); err != nil {
		return nil, err
	}

	answers, err := s.answers.ListDetailByAttempt(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("list answer details: %w", err)
	}
	answers = replayInOrder(answers, attempt.QuestionOrder)

	return &AttemptDetail{Attempt: attempt, Answers: answers}, nil
}

// ExportCsv streams the completed attempts of one exam as CSV, one row per
// student ordered by username. Returns the download filename.
func (s *ResultsService) ExportCsv(ctx context.Context, staff StaffPrincipal, examID uuid.UUID, w io.Writer) (string, error) {
	if _, err := s.ownedExam(ctx, staff, examID); err != nil {
		return "", err
	}

	rows, err := s.results.ListCompletedByExam(ctx, examID)
	if err != nil {
		return "", fmt.Errorf("list completed attempts: %w", err)
	}

	cw := csv.NewWriter(w)
	header := []string{"username", "full_name", "score", "started_at", "submitted_at", "time_taken_secs"}
	if err := cw.Write(header); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.Username,
			// Commas inside names are flattened so the file also survives
			// naive comma-split consumers.
			strings.ReplaceAll(fullName(row.FirstName, row.LastName), ",", " "),
			"",
			row.StartedAt.UTC().Format(time.RFC3339),
			"",
			"",
		}
		if row.Score != nil {
			record[2] = strconv.FormatFloat(*row.Score, 'f', 2, 64)
		}
		if row.SubmittedAt != nil {
			record[4] = row.SubmittedAt.UTC().Format(time.RFC3339)
			record[5] = strconv.Itoa(int(row.SubmittedAt.Sub(row.StartedAt).Seconds()))
		}
		if err := cw.Write(record); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}

	s.log.Info().
		Str("exam_id", examID.String()).
		Int("rows", len(rows)).
		Int("staff_id", staff.ID).
		Msg("Results exported")

	return fmt.Sprintf("exam_%s_results.csv", examID), nil
}

// ListModuleExams lists every exam in the staff member's module, active or
// not, newest first.
func (s *ResultsService) ListModuleExams(ctx context.Context, staff StaffPrincipal) ([]model.Exam, error) {
	moduleID, err := s.staffModule(ctx, staff)
	if err != nil {
		return nil, err
	}

	exams, err := s.exams.ListByModule(ctx, moduleID)
	if err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	return exams, nil
}

// staffModule resolves the staff member's module through the directory.
// The directory is authoritative over the token's module claim, so a token
// issued before a reassignment cannot keep reading the old module.
func (s *ResultsService) staffModule(ctx context.Context, staff StaffPrincipal) (int, error) {
	moduleID, err := s.directory.StaffModule(ctx, staff.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrNotModuleStaff
		}
		return 0, fmt.Errorf("resolve staff module: %w", err)
	}
	return moduleID, nil
}

// ownedExam loads an exam and checks it belongs to the staff member's
// module. Staff see inactive exams; activation only gates students.
func (s *ResultsService) ownedExam(ctx context.Context, staff StaffPrincipal, examID uuid.UUID) (*model.Exam, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}

	moduleID, err := s.staffModule(ctx, staff)
	if err != nil {
		return nil, err
	}
	if exam.ModuleID != moduleID {
		return nil, ErrNotModuleStaff
	}
	return exam, nil
}

func fullName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}

// formatDuration renders a non-negative duration as HH:MM:SS.
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
