package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/gayratovi/online-exam-system/internal/middleware"
	"github.com/gayratovi/online-exam-system/internal/response"
	"github.com/gayratovi/online-exam-system/internal/service"
	ws "github.com/gayratovi/online-exam-system/internal/websocket"
)

const (
	monitorRefreshInterval = 10 * time.Second
	monitorQueryTimeout    = 5 * time.Second // a slow query must not stall the push loop
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// MonitorHandler streams live attempt progress to staff over WebSocket.
type MonitorHandler struct {
	resultsService *service.ResultsService
	log            zerolog.Logger
	upgrader       websocket.Upgrader
}

// NewMonitorHandler creates a new MonitorHandler.
func NewMonitorHandler(resultsService *service.ResultsService, log zerolog.Logger, allowedOrigins []string) *MonitorHandler {
	return &MonitorHandler{
		resultsService: resultsService,
		log:            log.With().Str("component", "monitor_handler").Logger(),
		upgrader:       buildUpgrader(allowedOrigins),
	}
}

// MonitorExam godoc
// WS /ws/v1/staff/exams/:exam_id/monitor
// Upgrades to WebSocket and pushes attempt snapshots: one immediately,
// then one per refresh interval until the client disconnects.
func (h *MonitorHandler) MonitorExam(c *gin.Context) {
	staff, ok := middleware.StaffPrincipal(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	examID, err := uuid.Parse(c.Param("exam_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	// Check ownership before upgrading so a 403 reaches the client as HTTP.
	if _, err := h.resultsService.ExamResults(c.Request.Context(), staff, examID); err != nil {
		response.Fail(c, http.StatusForbidden, response.ErrNotModuleStaff)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Int("staff_id", staff.ID).
		Str("exam_id", examID.String()).
		Logger()
	wsLog.Info().Msg("Staff attached to live monitor")

	// Reader pump: queues pings and detects the close. It never writes —
	// gorilla/websocket allows a single concurrent writer, so every write
	// stays on the select loop below.
	done := make(chan struct{})
	pings := make(chan struct{}, 1)
	go func() {
		defer close(done)
		for {
			var msg ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				}
				return
			}
			if msg.Action == ws.ActionPing {
				select {
				case pings <- struct{}{}:
				default: // a pong is already queued
				}
			}
		}
	}()

	ticker := time.NewTicker(monitorRefreshInterval)
	defer ticker.Stop()

	ctx := c.Request.Context()
	h.pushSnapshot(ctx, conn, staff, examID, wsLog)

	for {
		select {
		case <-done:
			wsLog.Info().Msg("Staff detached from live monitor")
			return
		case <-ctx.Done():
			return
		case <-pings:
			if err := ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong}); err != nil {
				wsLog.Debug().Err(err).Msg("Pong write failed")
			}
		case <-ticker.C:
			h.pushSnapshot(ctx, conn, staff, examID, wsLog)
		}
	}
}

func (h *MonitorHandler) pushSnapshot(parentCtx context.Context, conn *websocket.Conn, staff service.StaffPrincipal, examID uuid.UUID, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(parentCtx, monitorQueryTimeout)
	defer cancel()

	results, err := h.resultsService.ExamResults(ctx, staff, examID)
	if err != nil {
		log.Warn().Err(err).Msg("Snapshot query failed")
		return
	}

	snapshot := ws.MonitorSnapshot{
		Event:    ws.EventSnapshot,
		ExamID:   examID.String(),
		Title:    results.Exam.Title,
		Students: make([]ws.MonitorStudent, 0, len(results.Attempts)),
	}
	snapshot.Stats.TotalAttempts = len(results.Attempts)
	snapshot.Stats.AvgScore = results.AvgScore

	for _, row := range results.Attempts {
		student := ws.MonitorStudent{
			StudentID: row.StudentID,
			Username:  row.Username,
			FullName:  row.FullName,
			Status:    row.Status,
			Score:     row.Score,
			StartedAt: row.StartedAt.UTC().Format(time.RFC3339),
		}
		if row.SubmittedAt != nil {
			student.SubmittedAt = row.SubmittedAt.UTC().Format(time.RFC3339)
			snapshot.Stats.Completed++
		} else {
			snapshot.Stats.InProgress++
		}
		snapshot.Students = append(snapshot.Students, student)
	}

	if err := ws.WriteTyped(conn, snapshot); err != nil {
		log.Debug().Err(err).Msg("Snapshot write failed")
	}
}
