package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/schedulr/appointments-api/internal/api/graphql"
	"github.com/schedulr/appointments-api/internal/api/handler"
	"github.com/schedulr/appointments-api/internal/api/middleware"
	"github.com/schedulr/appointments-api/internal/core/domain"
	"github.com/schedulr/appointments-api/internal/core/ports"
	"github.com/schedulr/appointments-api/internal/core/validation"
)

// RouterConfig carries everything the HTTP surface depends on.
type RouterConfig struct {
	Log          zerolog.Logger
	Auth         ports.AuthService
	Users        ports.UserService
	Appointments ports.AppointmentService
	// Checks are run by the readiness probe, keyed by dependency name.
	Checks map[string]handler.Checker
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(cfg.Log))
	e.Use(middleware.Auth(cfg.Auth, cfg.Log))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(cfg.Auth)
	graphqlHandler, err := graphql.NewHandler(
		graphql.NewResolver(cfg.Auth, cfg.Users, cfg.Appointments, cfg.Log),
		cfg.Log,
	)
	if err != nil {
		return nil, err
	}

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/me", authHandler.Me, middleware.RequireRole(domain.RoleUser, domain.RoleAdmin))

	// --- GraphQL ---
	e.POST("/graphql", graphqlHandler.Serve)
	e.GET("/graphql", graphqlHandler.Serve)

	// --- Health probes and metrics (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(cfg.Checks).Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e, nil
}
