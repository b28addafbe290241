package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/invenflow/workforce-api/internal/api/handler"
	"github.com/invenflow/workforce-api/internal/api/middleware"
	"github.com/invenflow/workforce-api/internal/core/domain"
	"github.com/invenflow/workforce-api/internal/core/service"
	"github.com/invenflow/workforce-api/internal/infrastructure/config"
	storemongo "github.com/invenflow/workforce-api/internal/infrastructure/db/mongo"
	storeredis "github.com/invenflow/workforce-api/internal/infrastructure/db/redis"
	"github.com/invenflow/workforce-api/internal/infrastructure/queue"
)

// NewRouter builds the Echo instance with all routes registered and returns
// it together with the audit dispatcher, which the caller starts and owns.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) (*echo.Echo, *queue.Dispatcher) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("workforce"))

	// --- Dependencies ---
	registry := domain.NewRegistry()
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	guard := service.NewGuard(tokens, registry, log)

	userRepo := storemongo.NewUserRepository(db)
	attendanceRepo := storemongo.NewAttendanceRepository(db)
	auditRepo := storemongo.NewAuditRepository(db)
	dedup := storeredis.NewDedupChecker(rdb)

	auditService := service.NewAuditService(auditRepo, dedup, log)
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, auditService, log)

	authService := service.NewAuthService(userRepo, tokens, log)
	userService := service.NewUserService(userRepo, log)
	attendanceService := service.NewAttendanceService(attendanceRepo, dispatcher, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, guard)
	attendanceHandler := handler.NewAttendanceHandler(attendanceService, guard)

	authn := middleware.Auth(tokens)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/me", authHandler.Me, authn)

	// --- User management ---
	users := e.Group("/v1/users", authn)
	users.GET("", userHandler.List, middleware.Permit(guard, domain.ModuleUsers, domain.ActionView))
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	// --- Attendance ---
	attendance := e.Group("/v1/attendance", authn)
	attendance.POST("/clock-in", attendanceHandler.ClockIn)
	attendance.POST("/clock-out", attendanceHandler.ClockOut)
	attendance.POST("/absences", attendanceHandler.MarkAbsent,
		middleware.Permit(guard, domain.ModuleAttendance, domain.ActionManage))
	attendance.GET("", attendanceHandler.List)
	attendance.GET("/stats", attendanceHandler.Stats)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e, dispatcher
}
