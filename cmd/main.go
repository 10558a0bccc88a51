package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	_ "github.com/rolegate/backend/docs"
	"github.com/rolegate/backend/internal/db"
	"github.com/rolegate/backend/internal/handlers"
	"github.com/rolegate/backend/internal/repositories"
	"github.com/rolegate/backend/internal/services"
	"github.com/rolegate/backend/libs/auth/middleware"
	"github.com/rolegate/backend/libs/auth/service"
	"github.com/rolegate/backend/libs/config"
	baseHandlers "github.com/rolegate/backend/libs/handlers"
	"github.com/rolegate/backend/libs/logger"
	loggerMiddleware "github.com/rolegate/backend/libs/logger/middleware"
	sharedMiddleware "github.com/rolegate/backend/libs/middlewares"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// @title RoleGate RBAC API
// @version 1.0
// @description Users, roles and per-role access modules behind a static API key

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Api-Key
func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting RoleGate RBAC service")

	// Connect to database
	conn, err := db.Connect(ctx, cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer conn.Close()

	// Run migrations
	if err := db.RunMigrations(conn, cfg.MigrationsPath); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	tx := db.NewTransactor(conn, logger.Logger)

	// Initialize JWT token generator
	tokenGenerator := service.NewTokenGenerator(
		cfg.SecretKey,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	// Initialize repositories
	roleRepo := repositories.NewRoleRepository(logger.Logger)
	userRepo := repositories.NewUserRepository(logger.Logger)

	// Initialize services
	roleService := services.NewRoleService(tx, roleRepo, logger.Logger)
	accessModuleService := services.NewAccessModuleService(tx, roleRepo, logger.Logger)
	userService := services.NewUserService(tx, userRepo, roleRepo, logger.Logger)
	authService := services.NewAuthService(tx, userRepo, roleRepo, tokenGenerator, logger.Logger, cfg.SecretKey)

	// Initialize handlers
	roleHandler := handlers.NewRoleHandler(roleService, logger.Logger)
	accessModuleHandler := handlers.NewAccessModuleHandler(accessModuleService, logger.Logger)
	userHandler := handlers.NewUserHandler(userService, logger.Logger)
	authHandler := handlers.NewAuthHandler(authService, logger.Logger)
	healthHandler := handlers.NewHealthHandler(tx, logger.Logger)
	fallback := &baseHandlers.BaseHandler{Logger: logger.Logger}

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(sharedMiddleware.RequestIDMiddleware)
	r.Use(loggerMiddleware.LoggerMiddleware(logger.Logger))
	r.Use(sharedMiddleware.RecoveryMiddleware(logger.Logger))
	r.Use(sharedMiddleware.CORSMiddleware(cfg.AllowedOrigins()))
	r.Use(httprate.LimitByIP(cfg.RateLimit.RequestsPerMinute, time.Minute))
	r.Use(sharedMiddleware.RequestSizeLimitMiddleware(1 * 1024 * 1024)) // 1MB

	// Unmatched requests go through the Api-Key check before answering 404/405
	apiKeyMiddleware := middleware.APIKeyMiddleware(cfg.SecretKey)
	r.MethodNotAllowed(apiKeyMiddleware(http.HandlerFunc(fallback.MethodNotAllowed)).ServeHTTP)
	r.NotFound(apiKeyMiddleware(http.HandlerFunc(fallback.NotFound)).ServeHTTP)

	// Operational routes
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))
	r.Handle("/metrics", promhttp.Handler())
	healthHandler.RegisterRoutes(r)

	// API routes require the Api-Key header
	r.Group(func(r chi.Router) {
		r.Use(apiKeyMiddleware)
		authHandler.RegisterRoutes(r)
		roleHandler.RegisterRoutes(r)
		accessModuleHandler.RegisterRoutes(r)
		userHandler.RegisterRoutes(r)
	})

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}
