package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gayratovi/online-exam-system/internal/middleware"
	"github.com/gayratovi/online-exam-system/internal/model"
	"github.com/gayratovi/online-exam-system/internal/response"
	"github.com/gayratovi/online-exam-system/internal/service"
	"github.com/gayratovi/online-exam-system/internal/validator"
)

// StudentExamHandler handles the student-facing exam-taking endpoints.
type StudentExamHandler struct {
	attemptService *service.AttemptService
}

// NewStudentExamHandler creates a new StudentExamHandler.
func NewStudentExamHandler(attemptService *service.AttemptService) *StudentExamHandler {
	return &StudentExamHandler{attemptService: attemptService}
}

// ListExams godoc
// GET /api/v1/student/exams
// Returns active exams in the student's enrolled modules with their
// attempt status.
func (h *StudentExamHandler) ListExams(c *gin.Context) {
	student, ok := middleware.StudentPrincipal(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	entries, err := h.attemptService.ListExams(c.Request.Context(), student)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if entries == nil {
		entries = []service.StudentExamEntry{}
	}

	response.Success(c, http.StatusOK, gin.H{"exams": entries})
}

// StartExam godoc
// POST /api/v1/student/exams/:exam_id/start
// Begins or resumes the student's attempt. Safe to call repeatedly.
func (h *StudentExamHandler) StartExam(c *gin.Context) {
	student, examID, ok := h.studentAndExam(c)
	if !ok {
		return
	}

	outcome, err := h.attemptService.Start(c.Request.Context(), student, examID)
	if err != nil {
		h.failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, outcome)
}

// GetQuestion godoc
// GET /api/v1/student/exams/:exam_id/questions/:index
// Returns the question at a navigation position with prefill and the
// remaining time.
func (h *StudentExamHandler) GetQuestion(c *gin.Context) {
	student, examID, ok := h.studentAndExam(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	view, err := h.attemptService.ViewQuestion(c.Request.Context(), student, examID, index)
	if err != nil {
		h.failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, view)
}

// SubmitAnswer godoc
// POST /api/v1/student/exams/:exam_id/questions/:index
// Saves the answer for a question and resolves navigation. Direction
// "submit" finalizes the attempt.
func (h *StudentExamHandler) SubmitAnswer(c *gin.Context) {
	student, examID, ok := h.studentAndExam(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SubmitAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	outcome, err := h.attemptService.RecordAnswer(c.Request.Context(), student, examID, index, req)
	if err != nil {
		h.failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, outcome)
}

// SubmitExam godoc
// POST /api/v1/student/exams/:exam_id/submit
// Finalizes the attempt. Replays are no-ops reporting the locked score.
func (h *StudentExamHandler) SubmitExam(c *gin.Context) {
	student, examID, ok := h.studentAndExam(c)
	if !ok {
		return
	}

	attempt, err := h.attemptService.Finalize(c.Request.Context(), student, examID)
	if err != nil {
		h.failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attempt": attempt})
}

// GetResult godoc
// GET /api/v1/student/exams/:exam_id/result
// Returns the completed attempt with its graded answers.
func (h *StudentExamHandler) GetResult(c *gin.Context) {
	student, examID, ok := h.studentAndExam(c)
	if !ok {
		return
	}

	result, err := h.attemptService.GetResult(c.Request.Context(), student, examID)
	if err != nil {
		h.failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// GetClock godoc
// GET /api/v1/student/exams/:exam_id/clock
// Returns the seconds left on the attempt. Polled by the frontend
// countdown, so it reads the cached deadline instead of the attempt row.
func (h *StudentExamHandler) GetClock(c *gin.Context) {
	student, examID, ok := h.studentAndExam(c)
	if !ok {
		return
	}

	remaining, err := h.attemptService.RemainingClock(c.Request.Context(), student, examID)
	if err != nil {
		h.failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"remaining_seconds": remaining})
}

func (h *StudentExamHandler) studentAndExam(c *gin.Context) (service.StudentPrincipal, uuid.UUID, bool) {
	student, ok := middleware.StudentPrincipal(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return service.StudentPrincipal{}, uuid.Nil, false
	}

	examID, err := uuid.Parse(c.Param("exam_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return service.StudentPrincipal{}, uuid.Nil, false
	}
	return student, examID, true
}

// failFromService maps service sentinels onto HTTP statuses and error codes.
func (h *StudentExamHandler) failFromService(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExamNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNotEnrolled):
		response.Fail(c, http.StatusForbidden, response.ErrNotEnrolled)
	case errors.Is(err, service.ErrWindowClosed):
		response.Fail(c, http.StatusConflict, response.ErrWindowClosed)
	case errors.Is(err, service.ErrNoQuestions):
		response.Fail(c, http.StatusBadRequest, response.ErrNoQuestions)
	case errors.Is(err, service.ErrAttemptNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrAttemptNotFound)
	case errors.Is(err, service.ErrAttemptCompleted):
		response.Fail(c, http.StatusConflict, response.ErrAttemptCompleted)
	case errors.Is(err, service.ErrResultNotReady):
		response.Fail(c, http.StatusNotFound, response.ErrResultNotReady)
	case errors.Is(err, service.ErrQuestionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
