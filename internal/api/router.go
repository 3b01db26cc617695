package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/artisthub/ams-client/docs"
	"github.com/artisthub/ams-client/internal/api/handler"
	"github.com/artisthub/ams-client/internal/api/middleware"
	"github.com/artisthub/ams-client/internal/core/domain"
	"github.com/artisthub/ams-client/internal/core/ports"
	"github.com/artisthub/ams-client/internal/core/service"
	"github.com/artisthub/ams-client/internal/pkg/validation"
)

// Deps is what the console needs to serve browsers.
type Deps struct {
	Gateway      ports.AuthGateway
	Stores       ports.StoreProvider
	Logger       zerolog.Logger
	CookieSecure bool
	// Checks are pinged by the readiness probe, keyed by name.
	Checks map[string]handler.Pinger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	// One validator for the echo binder and every browser's controller.
	v := validation.New()
	e.Validator = handler.NewValidator(v)
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	// Each router owns its HTTP metrics registry so several can coexist in tests.
	reg := prometheus.NewRegistry()
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "ams_console",
		Registerer: reg,
	}))

	// --- Dependencies ---
	newController := func(browserID string) ports.SessionController {
		log := deps.Logger.With().Str("browser", browserID).Logger()
		return service.NewSessionController(deps.Gateway, deps.Stores.Scope(browserID), v, log)
	}
	browser := middleware.Browser(newController, deps.CookieSecure)
	authHandler := handler.NewAuthHandler()
	dashboardHandler := handler.NewDashboardHandler(deps.Logger)

	// --- Auth routes ---
	e.GET(string(domain.RouteLogin), authHandler.LoginView)
	auth := e.Group("/auth", browser)
	auth.POST("/signup", authHandler.SignUp)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)

	// --- Session-guarded routes ---
	guard := middleware.Guard()
	e.GET("/session", dashboardHandler.Session, browser, guard)
	for _, route := range domain.DashboardRoutes {
		e.GET(string(route), dashboardHandler.Dashboard, browser, guard, middleware.RoleRoute())
	}

	// --- Health probes and operational endpoints (no session required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness: is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness: is the store reachable?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{reg, prometheus.DefaultGatherer},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
