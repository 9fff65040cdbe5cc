package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/complaint-desk/internal/api/http"
	"github.com/spec-kit/complaint-desk/internal/api/http/handlers"
	"github.com/spec-kit/complaint-desk/internal/config"
	"github.com/spec-kit/complaint-desk/internal/events"
	"github.com/spec-kit/complaint-desk/internal/observability"
	"github.com/spec-kit/complaint-desk/internal/persistence"
	"github.com/spec-kit/complaint-desk/internal/repository"
	"github.com/spec-kit/complaint-desk/internal/seed"
	"github.com/spec-kit/complaint-desk/internal/service"
	"github.com/spec-kit/complaint-desk/internal/storage"
	"github.com/spec-kit/complaint-desk/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.Pool, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	var sinks []service.NotificationSink
	if pg.Enabled() {
		sinks = append(sinks, repository.NewNotificationOutboxRepository(pg.Pool))
	}
	if redis.Enabled() {
		sinks = append(sinks, repository.NewNotificationStream(redis.Client, cfg.Redis))
	}

	dispatcher := events.NewInMemoryDispatcher()
	service.NewActivityRecorder(dispatcher, logger, metrics).RegisterHandlers()

	notifications := service.NewNotificationService(logger, metrics, cfg.Notification, len(sinks) > 0)
	notificationWorker := worker.NewNotificationWorker(notifications.Deliveries(), sinks, logger, metrics)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		notificationWorker.Run(ctx)
	}()

	registry := service.NewRegistry(service.RegistryDependencies{
		Notifier:   notifications,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	if cfg.Seed.MockData {
		if err := registry.Seed(seed.Departments(), seed.Complaints()); err != nil {
			logger.Fatal("failed to load mock data", zap.Error(err))
		}
		logger.Info("mock data loaded",
			zap.Int("departments", len(registry.Departments())),
			zap.Int("complaints", len(registry.Complaints())))
	}

	var images storage.ImageStore = storage.NewDataURLStore(cfg.Storage.MaxImageBytes)
	if cfg.Storage.S3Enabled() {
		s3Store, err := storage.NewS3ImageStore(ctx, cfg.Storage)
		if err != nil {
			logger.Fatal("failed to init s3 image store", zap.Error(err))
		}
		images = s3Store
	}

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: int(cfg.Storage.MaxImageBytes) + 1<<20,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Complaints:  handlers.NewComplaintsHandler(registry, images),
		Departments: handlers.NewDepartmentsHandler(registry),
		Metrics:     metrics.Handler(),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("fiber shutdown", zap.Error(err))
	}
	notifications.Close()
	<-workerDone
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
