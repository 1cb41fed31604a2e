package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/gayratovi/online-exam-system/internal/config"
	"github.com/gayratovi/online-exam-system/internal/handler"
	"github.com/gayratovi/online-exam-system/internal/middleware"
	"github.com/gayratovi/online-exam-system/internal/response"
	"github.com/gayratovi/online-exam-system/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth         *handler.AuthHandler
	StudentExam  *handler.StudentExamHandler
	StaffResults *handler.StaffResultsHandler
	Monitor      *handler.MonitorHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/student/login", handlers.Auth.StudentLogin)
		auth.POST("/staff/login", handlers.Auth.StaffLogin)
		auth.POST("/student/logout", middleware.RequireStudentJWT(authService), handlers.Auth.StudentLogout)
	}

	// ─── 2. Student Group (JWT + Single Device) ────────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(
		middleware.RequireStudentJWT(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		studentAPI.GET("/exams", handlers.StudentExam.ListExams)
		studentAPI.POST("/exams/:exam_id/start", handlers.StudentExam.StartExam)
		studentAPI.GET("/exams/:exam_id/questions/:index", handlers.StudentExam.GetQuestion)
		studentAPI.POST("/exams/:exam_id/questions/:index", handlers.StudentExam.SubmitAnswer)
		studentAPI.POST("/exams/:exam_id/submit", handlers.StudentExam.SubmitExam)
		studentAPI.GET("/exams/:exam_id/result", handlers.StudentExam.GetResult)
		studentAPI.GET("/exams/:exam_id/clock", handlers.StudentExam.GetClock)
	}

	// ─── 3. Staff Group (JWT) ──────────────────────────────────────────
	staffAPI := router.Group("/api/v1/staff")
	staffAPI.Use(middleware.RequireStaffJWT(authService))
	{
		staffAPI.GET("/exams", handlers.StaffResults.ListExams)
		staffAPI.GET("/results/overview", handlers.StaffResults.Overview)
		staffAPI.GET("/exams/:exam_id/results", handlers.StaffResults.ExamResults)
		staffAPI.GET("/exams/:exam_id/results/export", handlers.StaffResults.ExportCsv)
		staffAPI.GET("/exams/:exam_id/questions/stats", handlers.StaffResults.QuestionStats)
		staffAPI.GET("/attempts/:attempt_id", handlers.StaffResults.AttemptDetail)
	}

	// ─── 4. WebSocket Group (Staff WS Auth) ────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireStaffWSAuth(authService))
	{
		ws.GET("/staff/exams/:exam_id/monitor", handlers.Monitor.MonitorExam)
	}

	return router
}
