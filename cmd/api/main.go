package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/crp-service/internal/api/http"
	"github.com/spec-kit/crp-service/internal/api/http/handlers"
	"github.com/spec-kit/crp-service/internal/auth"
	"github.com/spec-kit/crp-service/internal/config"
	"github.com/spec-kit/crp-service/internal/engine"
	"github.com/spec-kit/crp-service/internal/events"
	"github.com/spec-kit/crp-service/internal/observability"
	"github.com/spec-kit/crp-service/internal/persistence"
	"github.com/spec-kit/crp-service/internal/repository"
	"github.com/spec-kit/crp-service/internal/service"
	"github.com/spec-kit/crp-service/internal/store"
	"github.com/spec-kit/crp-service/internal/worker"
	"github.com/spec-kit/crp-service/internal/workflow"
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

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	pool := pg.PoolHandle()
	if pool != nil && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pool, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	st := store.New()
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()
	tracker := workflow.NewTracker()

	eng := engine.New(engine.Dependencies{
		Store:      st,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})

	intake := service.NewIntakeService(service.IntakeDependencies{
		Store:      st,
		Dispatcher: dispatcher,
		Engine:     eng,
		Tracker:    tracker,
		Metrics:    metrics,
		Logger:     logger,
	})

	notifications := service.NewNotificationService(dispatcher, redis, logger)

	var snapshots *service.SnapshotService
	if pool != nil {
		snapshots = service.NewSnapshotService(service.SnapshotDependencies{
			Store:        st,
			Dispatcher:   dispatcher,
			EngineerRepo: repository.NewEngineerRepository(pool),
			TicketRepo:   repository.NewTicketRepository(pool),
			ThreadRepo:   repository.NewThreadRepository(pool),
			Logger:       logger,
		})
	}

	restored := 0
	if snapshots != nil {
		restored, err = snapshots.Restore(ctx)
		if err != nil {
			logger.Fatal("failed to restore snapshots", zap.Error(err))
		}
	}
	if restored == 0 {
		if err := store.SeedRoster(st); err != nil {
			logger.Fatal("failed to seed roster", zap.Error(err))
		}
		logger.Info("seeded demo roster", zap.Int("engineers", st.EngineerCount()))
		if snapshots != nil {
			if err := snapshots.PersistRoster(ctx); err != nil {
				logger.Warn("failed to persist seeded roster", zap.Error(err))
			}
		}
	}

	worker.RegisterEventWorkers(notifications, snapshots, intake)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())
	authMiddleware := auth.NewMiddleware(tokens)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, st),
		Auth:           handlers.NewAuthHandler(cfg.Auth, tokens),
		Tickets:        handlers.NewTicketsHandler(intake, eng, st),
		Threads:        handlers.NewThreadsHandler(eng, st),
		Engineers:      handlers.NewEngineersHandler(eng, st),
		Workflow:       handlers.NewWorkflowHandler(tracker, dispatcher),
		AuthMiddleware: authMiddleware,
		RequireAuth:    cfg.Auth.OperatorPasswordHash != "",
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
