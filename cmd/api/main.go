package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/staff-portal/internal/api/http"
	"github.com/spec-kit/staff-portal/internal/api/http/handlers"
	"github.com/spec-kit/staff-portal/internal/auth"
	"github.com/spec-kit/staff-portal/internal/config"
	"github.com/spec-kit/staff-portal/internal/events"
	"github.com/spec-kit/staff-portal/internal/observability"
	"github.com/spec-kit/staff-portal/internal/persistence"
	"github.com/spec-kit/staff-portal/internal/service"
	"github.com/spec-kit/staff-portal/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := persistence.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer store.Close(context.Background())
	logger.Info("store ready", zap.String("driver", store.Driver))

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	var limiter auth.LoginLimiter = auth.NoopLimiter{}
	if redis != nil {
		limiter = auth.NewRedisLimiter(redis.Client, cfg.Auth.MaxFailedAttempts, cfg.Auth.FailedAttemptsTTL)
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	var notifier *worker.NotificationWorker
	if cfg.Notification.Async {
		notifier = worker.StartNotificationWorker(ctx, dispatcher, notificationService, logger)
	} else {
		notificationService.RegisterHandlers()
	}

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		StaffRepo:      store.Repos.Staff,
		CredentialRepo: store.Repos.Credentials,
		LoginLogRepo:   store.Repos.LoginLogs,
		Limiter:        limiter,
		Dispatcher:     dispatcher,
		Logger:         logger,
		Metrics:        metrics,
	})
	loginLogService := service.NewLoginLogService(store.Repos.LoginLogs, dispatcher, logger)

	deps := map[string]handlers.Pinger{}
	if store.Postgres != nil {
		deps["postgres"] = store.Postgres
	}
	if store.Mongo != nil {
		deps["mongo"] = store.Mongo
	}
	if redis != nil {
		deps["redis"] = redis
	}

	app := fiber.New(httptransport.FiberConfig(cfg.App))
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps),
		Auth:           handlers.NewAuthHandler(authService),
		LoginLogs:      handlers.NewLoginLogsHandler(loginLogService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
		Metrics:        metrics,
		RatePerSecond:  cfg.RateLimit.PerSecond,
		RateBurst:      cfg.RateLimit.Burst,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
	if notifier != nil {
		notifier.Stop()
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
