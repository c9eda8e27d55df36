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

	"github.com/logiparts/logiparts-admin/internal/apiclient"
	"github.com/logiparts/logiparts-admin/internal/app"
	"github.com/logiparts/logiparts-admin/internal/auth"
	"github.com/logiparts/logiparts-admin/internal/catalog/bulk"
	"github.com/logiparts/logiparts-admin/internal/catalog/categories"
	"github.com/logiparts/logiparts-admin/internal/catalog/dashboard"
	"github.com/logiparts/logiparts-admin/internal/catalog/products"
	catalogShared "github.com/logiparts/logiparts-admin/internal/catalog/shared"
	"github.com/logiparts/logiparts-admin/internal/catalog/vehicles"
	"github.com/logiparts/logiparts-admin/internal/observability"
	"github.com/logiparts/logiparts-admin/internal/platform/cache"
	"github.com/logiparts/logiparts-admin/internal/shared"
	"github.com/logiparts/logiparts-admin/internal/view"
	"github.com/logiparts/logiparts-admin/jobs"
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
	if !cfg.AdminSecretConfigured() {
		logger.Warn("no ADMIN_PASSWORD or ADMIN_PASSWORD_BCRYPT set: the admin console accepts any password")
	}

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

	sessionManager := shared.NewSessionManager(redisClient, cfg.SessionCookie, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine(cfg.UploadsBase())
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()
	apiClient := apiclient.NewClient(cfg.APIURL, cfg.APITimeout,
		apiclient.WithLogger(logger),
		apiclient.WithObserver(metrics))

	gate := auth.NewGate(cfg.AdminPassword, cfg.AdminPasswordBcrypt)
	authHandler := auth.NewHandler(logger, gate, templates, sessionManager, csrfManager)

	deps := catalogShared.Deps{
		Logger:         logger,
		Templates:      templates,
		CSRF:           csrfManager,
		Previews:       shared.NewPreviewStore(redisClient, 15*time.Minute),
		Guard:          shared.NewSubmitGuard(redisClient, time.Minute),
		UploadsBase:    cfg.UploadsBase(),
		MaxUploadBytes: cfg.MaxUploadBytes,
	}

	categoryRepo := categories.NewRepository(apiClient)
	productRepo := products.NewRepository(apiClient)
	vehicleRepo := vehicles.NewRepository(apiClient)

	redisOpts := cache.QueueOpt(redisClient)
	jobClient, err := jobs.NewClient(redisOpts)
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		SessionManager:    sessionManager,
		CSRFManager:       csrfManager,
		Gate:              gate,
		AuthHandler:       authHandler,
		Catalog:           deps,
		DashboardHandler:  dashboard.NewHandler(deps, categoryRepo, productRepo, vehicleRepo),
		CategoryHandler:   categories.NewHandler(deps, categories.NewService(categoryRepo)),
		ProductHandler:    products.NewHandler(deps, products.NewService(productRepo, categoryRepo, vehicleRepo)),
		VehicleHandler:    vehicles.NewHandler(deps, vehicles.NewService(vehicleRepo)),
		BulkHandler:       bulk.NewHandler(deps, bulk.NewStore(redisClient, 24*time.Hour), jobClient),
		JobHandler:        jobs.NewHandler(inspector, logger),
		Metrics:           metrics,
		LoginAttemptLimit: cfg.LoginAttemptsPerMinute,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("api", cfg.APIURL))
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
