package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/storefront/microservices/docs"
	"github.com/storefront/microservices/internal/api/handler"
	"github.com/storefront/microservices/internal/api/middleware"
	"github.com/storefront/microservices/internal/core/domain"
	"github.com/storefront/microservices/internal/core/ports"
)

// Deps are the collaborators shared by every service router.
type Deps struct {
	Logger         zerolog.Logger
	Verifier       ports.TokenVerifier
	RequestTimeout time.Duration
	// Health lists the dependencies pinged by /health/ready.
	Health map[string]handler.Pinger
	// Registry overrides the default Prometheus registry.
	Registry *prometheus.Registry
}

// NewUserRouter builds the user service.
func NewUserRouter(users ports.UserService, deps Deps) *echo.Echo {
	e := newEcho("user_service", deps)

	h := handler.NewUserHandler(users)
	admin := middleware.Guard(deps.Verifier, middleware.Permission(domain.PermissionAdmin))
	public := middleware.Guard(deps.Verifier, middleware.Public)

	g := e.Group("/api/v1/user")
	g.POST("", h.Create, admin)
	g.POST("/", h.Create, admin)
	g.POST("/auth", h.Auth, public)

	return e
}

// NewProductRouter builds the product service.
func NewProductRouter(products ports.ProductService, deps Deps) *echo.Echo {
	e := newEcho("product_service", deps)

	h := handler.NewProductHandler(products)
	manage := middleware.Guard(deps.Verifier, middleware.Permission(domain.PermissionManageProducts))
	public := middleware.Guard(deps.Verifier, middleware.Public)

	g := e.Group("/api/v1/product")
	g.GET("", h.List, public)
	g.GET("/", h.List, public)
	g.POST("", h.Create, manage)
	g.POST("/", h.Create, manage)
	g.GET("/:id", h.Get, public)
	g.PUT("/:id", h.Update, manage)
	g.DELETE("/:id", h.Delete, manage)

	return e
}

func newEcho(subsystem string, deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(RequestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  subsystem,
		Registerer: registerer,
	}))
	if deps.RequestTimeout > 0 {
		e.Use(echomiddleware.ContextTimeoutWithConfig(echomiddleware.ContextTimeoutConfig{
			Timeout: deps.RequestTimeout,
		}))
	}

	// --- Health probes and tooling (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Health)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// RequestLogger writes one zerolog entry per request.
func RequestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogStatus:    true,
		LogMethod:    true,
		LogURI:       true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
