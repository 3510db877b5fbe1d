package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/webstarter/identity-gateway/internal/api/handler"
	"github.com/webstarter/identity-gateway/internal/api/middleware"
	"github.com/webstarter/identity-gateway/internal/core/domain"
	"github.com/webstarter/identity-gateway/internal/core/ports"
	"github.com/webstarter/identity-gateway/internal/core/service"
	mongodb "github.com/webstarter/identity-gateway/internal/infrastructure/db/mongo"
	redisdb "github.com/webstarter/identity-gateway/internal/infrastructure/db/redis"
	"github.com/webstarter/identity-gateway/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, audit ports.AuditRecorder, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("identity"))
	e.Use(middleware.Locale())
	// The gate runs innermost of the globals so the locale cookie rides on
	// redirects too.

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	rbacRepo := mongodb.NewRBACRepository(db)
	tokenService := service.NewTokenService(rbacRepo, cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(userRepo, tokenService)
	rbacService := service.NewRBACService(rbacRepo)
	limiter := redisdb.NewLoginLimiter(rdb, cfg.LoginWindow, cfg.LoginMaxAttempts)

	e.Use(middleware.Gate(tokenService, log))
	guard := middleware.NewPermissionGuard(rbacService, audit, log)

	authHandler := handler.NewAuthHandler(authService, limiter, audit, cfg.TokenTTL, log)
	userHandler := handler.NewUserHandler(userRepo, authService)
	adminHandler := handler.NewAdminHandler(userRepo, rbacService, audit)
	pageHandler := handler.NewPageHandler()

	// --- Auth API ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)

	// --- Authenticated API (outside the protected page prefixes) ---
	e.GET("/protected/me", userHandler.Me, middleware.RequireAuth())

	// --- Permission-gated user API ---
	e.GET("/users", userHandler.List, middleware.RequireAuth(), guard.Require(domain.Name("user:read")))
	e.GET("/users/:id", userHandler.Get, middleware.RequireAuth(), guard.Require(domain.Name("user:read")))
	e.POST("/users", userHandler.Create, middleware.RequireAuth(), guard.Require(domain.Name("user:update")))
	e.DELETE("/users/:id", userHandler.Delete, middleware.RequireAuth(), guard.Require(domain.Name("user:delete")))

	// --- Admin API (the /admin prefix is already gate-protected) ---
	e.GET("/admin/users", adminHandler.ListUsers, guard.Require(domain.Name("user:read")))
	e.POST("/admin/users/roles", adminHandler.AssignRole, guard.Require(domain.Name("user:update")))
	e.DELETE("/admin/users/roles", adminHandler.RemoveRole, guard.Require(domain.Name("user:update")))
	e.GET("/admin/roles/:id/check", adminHandler.CheckRolePermission, guard.Require(domain.Name("user:read")))

	// --- Pages ---
	e.GET("/dashboard", pageHandler.Dashboard)
	e.GET("/profile", pageHandler.Profile)
	e.GET("/settings", pageHandler.Settings)
	e.GET("/auth/sign-in", pageHandler.SignIn)
	e.GET("/auth/sign-up", pageHandler.SignUp)
	e.GET("/auth/forgot-password", pageHandler.ForgotPassword)
	e.GET("/auth/reset-password", pageHandler.ResetPassword)

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
