package api

import (
	"database/sql"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/accounthub/account-service/internal/api/handler"
	"github.com/accounthub/account-service/internal/api/middleware"
	"github.com/accounthub/account-service/internal/core/auth"
	"github.com/accounthub/account-service/internal/core/ports"
	"github.com/accounthub/account-service/internal/core/service"
	"github.com/accounthub/account-service/internal/infrastructure/db/postgres"
	redisinfra "github.com/accounthub/account-service/internal/infrastructure/db/redis"
	"github.com/accounthub/account-service/internal/infrastructure/http/handlers"
)

// Options bundles the router's dependencies. Redis is optional; without it
// the login throttle is disabled and the readiness probe skips the check.
type Options struct {
	DB     *sql.DB
	Redis  *goredis.Client
	Tokens *auth.TokenManager
	Hasher *auth.PasswordHasher
	Log    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	// --- Dependencies ---
	userRepo := postgres.NewUserRepository(opts.DB)
	authService := service.NewAuthService(userRepo, opts.Hasher, opts.Tokens)

	var throttle ports.LoginThrottle
	if opts.Redis != nil {
		throttle = redisinfra.NewLoginThrottle(opts.Redis)
	}

	authHandler := handler.NewAuthHandler(authService, throttle, opts.Log)
	authMiddleware := middleware.Auth(opts.Tokens)

	// --- Auth routes ---
	e.POST("/api/auth/signup", authHandler.Signup)
	e.POST("/api/auth/login", authHandler.Login)
	e.GET("/api/auth/me", authHandler.Me, authMiddleware)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(opts.DB, opts.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Metrics ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
