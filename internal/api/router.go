package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/99minutos/user-admin/internal/api/handler"
	"github.com/99minutos/user-admin/internal/api/middleware"
	"github.com/99minutos/user-admin/internal/core/domain"
	"github.com/99minutos/user-admin/internal/core/ports"
)

// RouterConfig carries the services the HTTP layer is wired to.
type RouterConfig struct {
	Auth      ports.AuthService
	Gate      ports.Gate
	Operators ports.OperatorService
	Profiles  ports.ProfileService

	// Readiness lists the dependencies probed by /health/ready.
	Readiness map[string]handler.Pinger
	Title     string
	Logger    zerolog.Logger

	// Registerer and Gatherer back the HTTP metrics. Nil means the
	// Prometheus defaults.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	if cfg.Registerer == nil {
		cfg.Registerer = prometheus.DefaultRegisterer
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Logger)

	// --- Global middleware ---
	e.Pre(echomiddleware.RemoveTrailingSlash())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(cfg.Logger))
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "useradmin",
		Registerer: cfg.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Guards ---
	requireAdmin := middleware.RequireTier(cfg.Gate, domain.TierAdmin)
	requireReadWrite := middleware.RequireTier(cfg.Gate, domain.TierReadWrite)
	requireRead := middleware.RequireTier(cfg.Gate, domain.TierRead)

	// --- Handlers ---
	rootHandler := handler.NewRootHandler(cfg.Title)
	authHandler := handler.NewAuthHandler(cfg.Auth)
	operatorHandler := handler.NewOperatorHandler(cfg.Operators)
	profileHandler := handler.NewProfileHandler(cfg.Profiles)
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(cfg.Readiness)

	e.GET("/", rootHandler.Welcome)

	// --- Operator routes ---
	admin := e.Group("/admin")
	admin.POST("/login", authHandler.Login)
	admin.GET("/me", authHandler.Me, requireRead)
	admin.POST("/register", operatorHandler.Register, requireAdmin)
	admin.GET("", operatorHandler.List, requireAdmin)
	admin.GET("/:id", operatorHandler.Get, requireAdmin)
	admin.PUT("/:id", operatorHandler.Update, requireAdmin)
	admin.DELETE("/:id", operatorHandler.Delete, requireAdmin)

	// --- Profile routes ---
	users := e.Group("/users")
	users.POST("", profileHandler.Create, requireAdmin)
	users.GET("", profileHandler.List, requireRead)
	users.GET("/:id", profileHandler.Get, requireRead)
	users.PUT("/:id", profileHandler.Update, requireReadWrite)
	users.DELETE("/:id", profileHandler.Delete, requireAdmin)

	// --- Health probes, metrics and docs (no auth required) ---
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: cfg.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
