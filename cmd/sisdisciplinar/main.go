package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/sisdisciplinar/sisdisciplinar/internal/app"
	"github.com/sisdisciplinar/sisdisciplinar/internal/audit"
	"github.com/sisdisciplinar/sisdisciplinar/internal/auth"
	"github.com/sisdisciplinar/sisdisciplinar/internal/employees"
	"github.com/sisdisciplinar/sisdisciplinar/internal/observability"
	"github.com/sisdisciplinar/sisdisciplinar/internal/platform/db"
	"github.com/sisdisciplinar/sisdisciplinar/internal/processes"
	"github.com/sisdisciplinar/sisdisciplinar/internal/profiles"
	"github.com/sisdisciplinar/sisdisciplinar/internal/rbac"
	"github.com/sisdisciplinar/sisdisciplinar/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	connectCtx, cancelConnect := context.WithTimeout(ctx, cfg.StoreTimeout)
	pool, err := db.New(connectCtx, cfg.PGDSN, cfg.StoreTimeout)
	cancelConnect()
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	tokens := auth.NewTokenManager(redisClient, cfg.TokenTTL)
	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo, tokens, logger)
	authHandler := auth.NewHandler(logger, authService)
	authenticator := &auth.Authenticator{Tokens: tokens, Store: authRepo, Logger: logger}

	auditRepo := audit.NewRepository(pool)
	auditService := audit.NewService(auditRepo, logger)
	auditHandler := audit.NewHandler(logger, auditService, cfg.ActivityFeedLimit)

	rbacRepo := rbac.NewRepository(pool)
	rbacService := rbac.NewService(rbacRepo)
	rbacMiddleware := rbac.Middleware{Service: rbacService, Logger: logger}
	rbacHandler := rbac.NewHandler(logger, rbacService, auditService)

	profilesRepo := profiles.NewRepository(pool)
	profilesService := profiles.NewService(profilesRepo)
	profilesHandler := profiles.NewHandler(profiles.HandlerConfig{
		Logger:     logger,
		Service:    profilesService,
		Audit:      auditService,
		ServiceKey: cfg.HasServiceKey(),
		LoginLimit: cfg.LoginFeedLimit,
	})

	employeesRepo := employees.NewRepository(pool)
	employeesService := employees.NewService(employeesRepo, cfg.ImportMaxRows)
	employeesHandler := employees.NewHandler(logger, employeesService, auditService)

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	processesRepo := processes.NewRepository(pool)
	processesService := processes.NewService(processesRepo, jobs.NewCaseNotifier(jobsClient), logger)
	processesHandler := processes.NewHandler(logger, processesService, auditService, rbacMiddleware, cfg.HasServiceKey())

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		Authenticator:    authenticator,
		AuthHandler:      authHandler,
		ProfilesHandler:  profilesHandler,
		RBACHandler:      rbacHandler,
		EmployeesHandler: employeesHandler,
		ProcessesHandler: processesHandler,
		AuditHandler:     auditHandler,
		RBACMiddleware:   rbacMiddleware,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
