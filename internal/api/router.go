package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/learnhub/enrollment-pipeline/docs"
	"github.com/learnhub/enrollment-pipeline/internal/api/handler"
	"github.com/learnhub/enrollment-pipeline/internal/api/middleware"
	"github.com/learnhub/enrollment-pipeline/internal/core/ports"
	"github.com/learnhub/enrollment-pipeline/internal/infrastructure/http/handlers"
)

// RouterDeps carries everything the HTTP surface needs.
type RouterDeps struct {
	Purchases ports.PurchaseService
	Health    *handlers.HealthHandler
	JWTSecret string
	Log       zerolog.Logger

	// Registerer receives the HTTP request metrics. Defaults to the global
	// Prometheus registerer.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "enrollment",
		Registerer: deps.Registerer,
	}))

	// --- Operational endpoints (no auth required) ---
	e.GET("/health", deps.Health.Liveness)
	e.GET("/health/ready", deps.Health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Authenticated API ---
	purchaseHandler := handler.NewPurchaseHandler(deps.Purchases, deps.Log)

	v1 := e.Group("/v1", middleware.Auth(deps.JWTSecret))
	v1.POST("/webhooks/purchases", purchaseHandler.Receive,
		middleware.RBAC(middleware.RoleIntegration, middleware.RoleAdministrator))
	v1.GET("/purchases/:key", purchaseHandler.Lookup,
		middleware.RBAC(middleware.RoleAdministrator))

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
