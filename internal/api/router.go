package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/smallplatform/personnel-api/internal/api/handler"
	"github.com/smallplatform/personnel-api/internal/api/middleware"
	"github.com/smallplatform/personnel-api/internal/core/domain"
	"github.com/smallplatform/personnel-api/internal/core/ports"
	"github.com/smallplatform/personnel-api/internal/core/service"
	mongostore "github.com/smallplatform/personnel-api/internal/infrastructure/db/mongo"
	redisstore "github.com/smallplatform/personnel-api/internal/infrastructure/db/redis"
)

// Deps carries the externally constructed collaborators the router wires
// handlers around.
type Deps struct {
	Mongo   *mongo.Database
	Redis   *redis.Client
	Tokens  ports.TokenService
	Hasher  *service.PasswordHasher
	Publish func(ports.LoginEvent)
	Logger  zerolog.Logger
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
	e.Use(echoprometheus.NewMiddleware("personnel"))

	// --- Dependencies ---
	userRepo := mongostore.NewUserRepository(deps.Mongo)
	loginFeed := redisstore.NewLoginFeed(deps.Redis)
	authService := service.NewAuthService(userRepo, deps.Hasher, deps.Tokens, deps.Publish, deps.Logger)
	directoryService := service.NewDirectoryService(userRepo, loginFeed, deps.Hasher, deps.Logger)

	authHandler := handler.NewAuthHandler(authService)
	directoryHandler := handler.NewDirectoryHandler(directoryService)
	authMiddleware := middleware.Auth(deps.Tokens)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Protected routes ---
	e.GET("/dashboard", directoryHandler.Overview, authMiddleware)
	e.GET("/reports", directoryHandler.Report, authMiddleware, middleware.RBAC(domain.RoleAdmin))
	e.GET("/users", directoryHandler.List, authMiddleware, middleware.RBAC(domain.RoleAdmin))
	e.GET("/users/:id", directoryHandler.Get, authMiddleware, middleware.SelfOrAdmin())
	e.PUT("/users/:id", directoryHandler.Update, authMiddleware, middleware.SelfOrAdmin())

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
