package mockapi

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/tradeshift/trading-shell/internal/api/handler"
	"github.com/tradeshift/trading-shell/internal/api/middleware"
	"github.com/tradeshift/trading-shell/internal/core/domain"
	"github.com/tradeshift/trading-shell/internal/core/validation"
	_ "github.com/tradeshift/trading-shell/internal/mockapi/docs"
)

// Options configure the mock API.
type Options struct {
	Users  UserRepository
	Orders OrderRepository

	// Store is pinged by /api/health/ready. Nil skips the check.
	Store handler.Pinger

	JWTSecret string
	TokenTTL  time.Duration

	// Now stamps placed orders. Nil uses time.Now.
	Now func() time.Time

	// Registry receives the HTTP server metrics. Nil uses the default
	// Prometheus registry.
	Registry *prometheus.Registry

	Log zerolog.Logger
}

// New builds the mock API.
//
// @title                       TradeShift mock trading API
// @version                     1.0
// @BasePath                    /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func New(opts Options) *echo.Echo {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = newHTTPErrorHandler(opts.Log)

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
	}))
	e.Use(middleware.RequestLogger(opts.Log))

	metricsCfg := echoprometheus.MiddlewareConfig{Namespace: "tradeshift", Subsystem: "mockapi"}
	if opts.Registry != nil {
		metricsCfg.Registerer = opts.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(metricsCfg))

	auth := &authHandler{accounts: NewAccounts(opts.Users, opts.JWTSecret, opts.TokenTTL), log: opts.Log}
	orders := &orderHandler{orders: opts.Orders, now: now, log: opts.Log}
	health := handler.NewHealthHandler(map[string]handler.Pinger{"store": opts.Store})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	api.GET("/health", health.Liveness)
	api.GET("/health/ready", health.Readiness)

	bearer := middleware.BearerAuth(opts.JWTSecret)
	member := middleware.RequireRole(domain.RoleAdmin, domain.RoleUser)
	self := middleware.SelfOrRole("username", domain.RoleAdmin)

	api.POST("/auth/register", auth.register)
	api.POST("/auth/login", auth.login)
	api.GET("/auth/profile/:username", auth.profile, bearer, member, self)
	api.PUT("/auth/update/:username", auth.update, bearer, member, self)
	// Route of the upstream backend, kept for clients that still call it.
	api.PUT("/auth/:username", auth.update, bearer, member, self)

	api.POST("/portfolio/:id/orders", orders.place)
	api.GET("/portfolio/:id/orders", orders.list, bearer)

	return e
}
