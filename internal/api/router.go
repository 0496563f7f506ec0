package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/elmdemo/marketplace/internal/api/handler"
	"github.com/elmdemo/marketplace/internal/api/middleware"
	"github.com/elmdemo/marketplace/internal/core/domain"
	"github.com/elmdemo/marketplace/internal/core/ports"
	"github.com/elmdemo/marketplace/internal/infrastructure/http/handlers"
)

// Dependencies carries everything the router wires into handlers.
type Dependencies struct {
	Accounts     ports.AccountService
	Products     ports.ProductService
	Tokens       middleware.TokenVerifier
	AccountStore middleware.AccountFinder
	Readiness    []handlers.DependencyCheck
	Logger       zerolog.Logger
	// Now overrides the clock used to check token expiry. Defaults to time.Now.
	Now func() time.Time
	// Registerer and Gatherer back the HTTP metrics and /metrics. They default
	// to the process-wide Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "marketplace",
		Subsystem:  "http",
		Registerer: deps.Registerer,
	}))
	e.Use(middleware.Gate(deps.Tokens, deps.AccountStore, deps.Now, deps.Logger))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Accounts)
	userHandler := handler.NewUserHandler(deps.Accounts)
	productHandler := handler.NewProductHandler(deps.Products)

	admin := middleware.RequireRole(domain.RoleAdmin)
	dealer := middleware.RequireRole(domain.RoleDealer)
	client := middleware.RequireRole(domain.RoleClient)

	// --- Public routes ---
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)

	// --- Account management ---
	e.POST("/users", userHandler.Create, admin)
	e.PATCH("/users/:id/status", userHandler.ToggleStatus, admin)

	// --- Catalogue ---
	e.GET("/products", productHandler.ListOwn, dealer)
	e.POST("/products", productHandler.Create, dealer)
	e.PATCH("/products/:id/status", productHandler.ToggleStatus, dealer)
	e.GET("/products/active", productHandler.ListActive, client)
	e.GET("/products/all", productHandler.ListAll, admin)

	// --- Health probes and ops (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Readiness...)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger routes echo's request log through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
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
