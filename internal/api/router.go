package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/koptay/client-portal/internal/api/handler"
	"github.com/koptay/client-portal/internal/api/middleware"
	"github.com/koptay/client-portal/internal/core/ports"
	"github.com/koptay/client-portal/internal/core/service"
	mongodb "github.com/koptay/client-portal/internal/infrastructure/db/mongo"
	redisdb "github.com/koptay/client-portal/internal/infrastructure/db/redis"
)

// Deps carries everything the router needs that has its own lifecycle and is
// therefore owned by main: connections, the notification dispatcher and the
// document store.
type Deps struct {
	Mongo     *mongo.Database
	Redis     *redis.Client
	Notifier  ports.Notifier
	FileStore ports.FileStore
	JWTSecret string
	TokenTTL  time.Duration
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("portal"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(deps.Mongo)
	caseRepo := mongodb.NewCaseRepository(deps.Mongo)
	documentRepo := mongodb.NewDocumentRepository(deps.Mongo)
	paymentRepo := mongodb.NewPaymentRepository(deps.Mongo)
	notificationRepo := mongodb.NewNotificationRepository(deps.Mongo)
	auditRepo := mongodb.NewAuditRepository(deps.Mongo)

	denylist := redisdb.NewTokenDenylist(deps.Redis)

	auditRecorder := service.NewAuditService(auditRepo, deps.Logger)
	authService := service.NewAuthService(userRepo, denylist, deps.JWTSecret, deps.TokenTTL, deps.Logger)
	caseService := service.NewCaseService(caseRepo, userRepo, deps.Notifier, auditRecorder, deps.Logger)
	documentService := service.NewDocumentService(documentRepo, caseRepo, deps.FileStore, deps.Notifier, auditRecorder, deps.Logger)
	paymentService := service.NewPaymentService(paymentRepo, userRepo, caseRepo, deps.Notifier, auditRecorder, deps.Logger)
	notificationService := service.NewNotificationService(notificationRepo, deps.Logger)
	adminService := service.NewAdminService(userRepo, caseRepo, documentRepo, paymentRepo, auditRecorder, deps.Logger)

	authHandler := handler.NewAuthHandler(authService)
	caseHandler := handler.NewCaseHandler(caseService)
	documentHandler := handler.NewDocumentHandler(documentService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	adminHandler := handler.NewAdminHandler(adminService)

	authMiddleware := middleware.Auth(deps.JWTSecret, denylist)
	staffOnly := middleware.Staff()

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/me", authHandler.Me, authMiddleware)
	e.POST("/auth/change-password", authHandler.ChangePassword, authMiddleware)
	e.POST("/auth/logout", authHandler.Logout, authMiddleware)

	// --- Portal routes (any authenticated user) ---
	v1 := e.Group("/v1", authMiddleware)

	v1.POST("/cases", caseHandler.Create)
	v1.GET("/cases", caseHandler.List)
	v1.GET("/cases/:id", caseHandler.Get)
	v1.PUT("/cases/:id", caseHandler.Update, staffOnly)
	v1.DELETE("/cases/:id", caseHandler.Delete, staffOnly)
	v1.GET("/cases/:id/timeline", caseHandler.Timeline)
	v1.POST("/cases/:id/timeline", caseHandler.AddTimelineEvent, staffOnly)

	v1.POST("/documents", documentHandler.Upload)
	v1.GET("/documents", documentHandler.List)
	v1.GET("/documents/:id", documentHandler.Get)
	v1.GET("/documents/:id/download", documentHandler.Download)
	v1.DELETE("/documents/:id", documentHandler.Delete, staffOnly)

	v1.POST("/payments", paymentHandler.Create, staffOnly)
	v1.GET("/payments", paymentHandler.List)
	v1.GET("/payments/:id", paymentHandler.Get)
	v1.PUT("/payments/:id", paymentHandler.Update, staffOnly)
	v1.DELETE("/payments/:id", paymentHandler.Delete, staffOnly)

	v1.GET("/notifications", notificationHandler.List)
	v1.GET("/notifications/unread-count", notificationHandler.UnreadCount)
	v1.POST("/notifications/read-all", notificationHandler.MarkAllRead)
	v1.POST("/notifications/:id/read", notificationHandler.MarkRead)

	// --- Management routes (staff only) ---
	admin := v1.Group("/admin", staffOnly)
	admin.GET("/clients", adminHandler.ListClients)
	admin.POST("/clients", adminHandler.CreateClient)
	admin.GET("/clients/:id", adminHandler.GetClient)
	admin.GET("/statistics", adminHandler.Statistics)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
