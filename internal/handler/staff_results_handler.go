package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gayratovi/online-exam-system/internal/middleware"
	"github.com/gayratovi/online-exam-system/internal/model"
	"github.com/gayratovi/online-exam-system/internal/response"
	"github.com/gayratovi/online-exam-system/internal/service"
)

// StaffResultsHandler handles the staff-facing read-side endpoints.
type StaffResultsHandler struct {
	resultsService *service.ResultsService
}

// NewStaffResultsHandler creates a new StaffResultsHandler.
func NewStaffResultsHandler(resultsService *service.ResultsService) *StaffResultsHandler {
	return &StaffResultsHandler{resultsService: resultsService}
}

// ListExams godoc
// GET /api/v1/staff/exams
// Lists every exam in the staff member's module, including inactive ones.
func (h *StaffResultsHandler) ListExams(c *gin.Context) {
	staff, ok := middleware.StaffPrincipal(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	exams, err := h.resultsService.ListModuleExams(c.Request.Context(), staff)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if exams == nil {
		exams = []model.Exam{}
	}

	response.Success(c, http.StatusOK, gin.H{"exams": exams})
}

// Overview godoc
// GET /api/v1/staff/results/overview
// Per-exam attempt rollups for the staff dashboard.
func (h *StaffResultsHandler) Overview(c *gin.Context) {
	staff, ok := middleware.StaffPrincipal(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	overview, err := h.resultsService.Overview(c.Request.Context(), staff)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"exams": overview})
}

// ExamResults godoc
// GET /api/v1/staff/exams/:exam_id/results
// Every attempt against one exam, with status and time-taken columns.
func (h *StaffResultsHandler) ExamResults(c *gin.Context) {
	staff, examID, ok := h.staffAndExam(c)
	if !ok {
		return
	}

	results, err := h.resultsService.ExamResults(c.Request.Context(), staff, examID)
	if err != nil {
		h.failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, results)
}

// QuestionStats godoc
// GET /api/v1/staff/exams/:exam_id/questions/stats
// Per-question difficulty stats for one exam.
func (h *StaffResultsHandler) QuestionStats(c *gin.Context) {
	staff, examID, ok := h.staffAndExam(c)
	if !ok {
		return
	}

	stats, err := h.resultsService.QuestionStats(c.Request.Context(), staff, examID)
	if err != nil {
		h.failFromService(c, err)
		return
	}
	if stats == nil {
		stats = []service.QuestionStat{}
	}

	response.Success(c, http.StatusOK, gin.H{"questions": stats})
}

// AttemptDetail godoc
// GET /api/v1/staff/attempts/:attempt_id
// A single student's attempt with its graded answers.
func (h *StaffResultsHandler) AttemptDetail(c *gin.Context) {
	staff, ok := middleware.StaffPrincipal(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	detail, err := h.resultsService.AttemptDetail(c.Request.Context(), staff, attemptID)
	if err != nil {
		h.failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, detail)
}

// ExportCsv godoc
// GET /api/v1/staff/exams/:exam_id/results/export
// Streams the completed attempts as a CSV download.
func (h *StaffResultsHandler) ExportCsv(c *gin.Context) {
	staff, examID, ok := h.staffAndExam(c)
	if !ok {
		return
	}

	// The body is written directly; headers must go out before rows.
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="exam_%s_results.csv"`, examID))

	if _, err := h.resultsService.ExportCsv(c.Request.Context(), staff, examID, c.Writer); err != nil {
		// An ownership failure happens before any row is written, so a
		// clean error response is still possible.
		c.Header("Content-Type", "application/json")
		c.Header("Content-Disposition", "")
		h.failFromService(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *StaffResultsHandler) staffAndExam(c *gin.Context) (service.StaffPrincipal, uuid.UUID, bool) {
	staff, ok := middleware.StaffPrincipal(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return service.StaffPrincipal{}, uuid.Nil, false
	}

	examID, err := uuid.Parse(c.Param("exam_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return service.StaffPrincipal{}, uuid.Nil, false
	}
	return staff, examID, true
}

func (h *StaffResultsHandler) failFromService(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExamNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNotModuleStaff):
		response.Fail(c, http.StatusForbidden, response.ErrNotModuleStaff)
	case errors.Is(err, service.ErrAttemptNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrAttemptNotFound)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
