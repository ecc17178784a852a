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

	"github.com/arunika-id/arunika-admin/internal/app"
	"github.com/arunika-id/arunika-admin/internal/auth"
	"github.com/arunika-id/arunika-admin/internal/capability"
	"github.com/arunika-id/arunika-admin/internal/content"
	"github.com/arunika-id/arunika-admin/internal/guard"
	"github.com/arunika-id/arunika-admin/internal/identity"
	"github.com/arunika-id/arunika-admin/internal/observability"
	"github.com/arunika-id/arunika-admin/internal/platform/cache"
	"github.com/arunika-id/arunika-admin/internal/platform/db"
	"github.com/arunika-id/arunika-admin/internal/settings"
	"github.com/arunika-id/arunika-admin/internal/shared"
	"github.com/arunika-id/arunika-admin/internal/staff"
	"github.com/arunika-id/arunika-admin/internal/topup"
	"github.com/arunika-id/arunika-admin/jobs"
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

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "arunika_session", cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	catalog := capability.DefaultCatalog()
	if err := capability.Validate(catalog); err != nil {
		logger.Error("invalid capability catalog", slog.Any("error", err))
		os.Exit(1)
	}

	identityRepo := identity.NewRepository(dbpool)
	identityService := identity.NewService(identityRepo)
	routeGuard := guard.Middleware{Resolver: identityService, Logger: logger}

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, identityService, catalog, sessionManager, csrfManager)

	auditLogger := shared.NewAuditLogger(dbpool)
	approvalRecorder := shared.NewApprovalRecorder(dbpool, logger)
	metrics := observability.NewMetrics()

	dispatcher := jobs.NewDispatcher(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := dispatcher.Close(); err != nil {
			logger.Warn("dispatcher close", slog.Any("error", err))
		}
	}()

	topupRepo := topup.NewRepository(dbpool)
	topupService := topup.NewService(topupRepo, approvalRecorder, auditLogger, dispatcher, logger)
	topupHandler := topup.NewHandler(logger, topupService, routeGuard, metrics)

	contentRepo := content.NewRepository(dbpool)
	contentService := content.NewService(contentRepo, approvalRecorder, auditLogger, logger)
	contentHandler := content.NewHandler(logger, contentService, routeGuard, metrics)

	settingsService := settings.NewService(redisClient, auditLogger, logger)
	settingsHandler := settings.NewHandler(logger, settingsService, routeGuard)

	staffRepo := staff.NewRepository(dbpool)
	staffService := staff.NewService(staffRepo, catalog, auditLogger, logger)
	staffHandler := staff.NewHandler(logger, staffService, routeGuard)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		SessionManager:  sessionManager,
		CSRFManager:     csrfManager,
		AuthHandler:     authHandler,
		TopupHandler:    topupHandler,
		ContentHandler:  contentHandler,
		SettingsHandler: settingsHandler,
		StaffHandler:    staffHandler,
		JobHandler:      jobHandler,
		Metrics:         metrics,
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
