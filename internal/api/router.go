package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/tradeshift/trading-shell/internal/api/handler"
	"github.com/tradeshift/trading-shell/internal/api/middleware"
	"github.com/tradeshift/trading-shell/internal/core/domain"
	"github.com/tradeshift/trading-shell/internal/core/ports"
	"github.com/tradeshift/trading-shell/internal/core/service"
)

// Dependencies are the collaborators the shell routes are built from.
type Dependencies struct {
	Auth   ports.AuthService
	Orders ports.OrderService
	Quotes ports.QuoteService
	Guard  middleware.Decider

	PortfolioID  int64
	TickInterval time.Duration
	// Rand drives the simulated market data. Nil uses math/rand/v2.
	Rand service.RandFunc

	// Health lists the dependencies checked by /health/ready.
	Health map[string]handler.Pinger

	// Registry receives the HTTP server metrics and backs /metrics. Nil uses
	// the default Prometheus registry.
	Registry *prometheus.Registry

	Log zerolog.Logger
}

// NewRouter builds the shell's Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(serverMetrics(deps.Registry))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Log)
	tradeHandler := handler.NewTradeHandler(deps.Orders, deps.Quotes, deps.PortfolioID)
	historyHandler := handler.NewHistoryHandler(deps.Orders, deps.PortfolioID, deps.Log)
	marketHandler := handler.NewMarketHandler(deps.TickInterval, deps.Rand, deps.Log)
	settingsHandler := handler.NewSettingsHandler(deps.Auth, deps.Log)
	healthHandler := handler.NewHealthHandler(deps.Health)

	// --- Public views ---
	e.GET("/", landing)
	e.GET("/auth", authHandler.Page)
	e.POST("/auth/register/admin", authHandler.RegisterAdmin)
	e.POST("/auth/register/user", authHandler.RegisterUser)
	e.GET("/login", authHandler.LoginPage)
	e.POST("/login", authHandler.Login)

	// --- Health and metrics ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", metricsHandler(deps.Registry))

	// --- Protected views ---
	guard := middleware.Guard(deps.Guard)

	e.GET("/dashboard", marketHandler.Dashboard, guard)
	e.GET("/dashboard/stream", marketHandler.DashboardStream, guard)
	e.GET("/portfolio", marketHandler.Portfolio, guard)
	e.GET("/analytics", marketHandler.Analytics, guard)
	e.GET("/analytics/stream", marketHandler.AnalyticsStream, guard)

	e.GET("/trade", tradeHandler.Page, guard)
	e.POST("/trade/quote", tradeHandler.Quote, guard)
	e.POST("/trade/orders", tradeHandler.Submit, guard)

	e.GET("/history", historyHandler.List, guard)

	e.GET("/settings", settingsHandler.Page, guard)
	e.PUT("/settings/profile", settingsHandler.UpdateProfile, guard)

	e.POST("/logout", authHandler.Logout, guard)

	return e
}

func landing(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"view":  domain.ViewLanding,
		"links": map[string]string{"register": "/auth", "login": domain.LoginPath},
	})
}

func serverMetrics(reg *prometheus.Registry) echo.MiddlewareFunc {
	cfg := echoprometheus.MiddlewareConfig{
		Namespace: "tradeshift",
		Subsystem: "shell",
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || c.Path() == "/health"
		},
	}
	if reg != nil {
		cfg.Registerer = reg
	}
	return echoprometheus.NewMiddlewareWithConfig(cfg)
}

func metricsHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}
