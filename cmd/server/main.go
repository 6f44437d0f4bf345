package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"bankledger/internal/config"
	"bankledger/internal/database"
	"bankledger/internal/handlers"
	"bankledger/internal/middleware"
	"bankledger/internal/repositories"
	"bankledger/internal/services"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Missing .env is fine; configuration falls back to the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err.Error())
		os.Exit(1)
	}
	logger := newLogger(cfg.Server.Environment)
	slog.SetDefault(logger)

	db, err := database.Initialize(cfg)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err.Error())
		os.Exit(1)
	}

	userRepo := repositories.NewUserRepository(db)
	accountRepo := repositories.NewAccountRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)
	auditRepo := repositories.NewAuditLogRepository(db)

	metrics := services.NewPrometheusMetrics()
	passwordService := services.NewPasswordService()
	tokenService := services.NewTokenService(&cfg.JWT)
	authService := services.NewAuthService(userRepo, auditRepo, passwordService, tokenService, metrics, logger)
	ledgerService := services.NewLedgerService(
		accountRepo,
		transactionRepo,
		userRepo,
		auditRepo,
		services.NewNumberIssuer(),
		metrics,
		logger,
	)

	if cfg.Server.Environment == "development" && os.Getenv("SEED_DEMO_DATA") == "true" {
		seeder := services.NewDemoSeeder(userRepo, ledgerService, passwordService, logger)
		userCount, _ := strconv.Atoi(os.Getenv("SEED_DEMO_USERS"))
		if err := seeder.Seed(userCount); err != nil {
			logger.Warn("Demo data seeding failed", "error", err.Error())
		}
	}

	authHandler := handlers.NewAuthHandler(authService)
	accountHandler := handlers.NewAccountHandler(ledgerService)
	healthHandler := handlers.NewHealthCheckHandler(db)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewValidator()
	e.HTTPErrorHandler = middleware.CustomHTTPErrorHandler

	e.Use(middleware.RequestID())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.Server.CORSAllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(middleware.RateLimiterWithConfig(cfg.Security.RateLimitPerSecond, cfg.Security.RateLimitBurst))
	e.Use(middleware.PanicRecovery())

	e.GET("/health", healthHandler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	accounts := api.Group("/accounts", middleware.RequireAuth(tokenService))
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.GetUserAccounts)
	accounts.GET("/:accountId", accountHandler.GetAccount)
	accounts.POST("/:accountId/fund", accountHandler.FundAccount)
	accounts.GET("/:accountId/transactions", accountHandler.GetTransactions)

	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	go func() {
		addr := ":" + cfg.Server.Port
		logger.Info("Starting server", "addr", addr, "environment", cfg.Server.Environment)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server stopped", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err.Error())
	}
}

func newLogger(environment string) *slog.Logger {
	if environment == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
