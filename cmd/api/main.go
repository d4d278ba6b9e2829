package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/course-service/internal/api/http"
	"github.com/spec-kit/course-service/internal/api/http/handlers"
	"github.com/spec-kit/course-service/internal/auth"
	"github.com/spec-kit/course-service/internal/config"
	"github.com/spec-kit/course-service/internal/events"
	"github.com/spec-kit/course-service/internal/mail"
	"github.com/spec-kit/course-service/internal/observability"
	"github.com/spec-kit/course-service/internal/persistence"
	"github.com/spec-kit/course-service/internal/repository"
	"github.com/spec-kit/course-service/internal/service"
	"github.com/spec-kit/course-service/internal/worker"
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

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	moduleRepo := repository.NewModuleRepository(pool)
	activityRepo := repository.NewActivityRepository(pool)
	transactor := repository.NewTransactor(pool, logger)

	revocations, pruner, err := revocationStore(cfg.Revocation, pg, redis, logger)
	if err != nil {
		logger.Fatal("failed to select revocation store", zap.Error(err))
	}

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())
	if err != nil {
		logger.Fatal("failed to init token manager", zap.Error(err))
	}
	validator := auth.NewValidator(tokens, revocations, userRepo)

	dispatcher := events.NewInMemoryDispatcher()
	mailer := mail.New(cfg.Mail, logger)

	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:          userRepo,
		PasswordResetRepo: resetRepo,
		Transactor:        transactor,
		Tokens:            tokens,
		Validator:         validator,
		Revocations:       revocations,
		Dispatcher:        dispatcher,
		Logger:            logger,
		BcryptCost:        cfg.Auth.BcryptCost,
		ResetTTL:          cfg.Auth.PasswordResetTTL(),
		ClientURL:         cfg.App.ClientURL,
	})
	userService := service.NewUserService(userRepo, dispatcher, logger, cfg.Auth.BcryptCost)
	courseService := service.NewCourseService(service.CourseDependencies{
		CourseRepo: courseRepo,
		ModuleRepo: moduleRepo,
		Transactor: transactor,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	moduleService := service.NewModuleService(moduleRepo, courseRepo, transactor, logger)
	activityService := service.NewActivityService(activityRepo, dispatcher, logger, cfg.Activity.Retention())
	notificationService := service.NewNotificationService(dispatcher, mailer, logger)

	worker.StartEventHandlers(notificationService, activityService)

	prunerWorker := worker.NewPruner(worker.PrunerConfig{
		ActivityInterval:   cfg.Activity.PruneInterval(),
		RevocationInterval: cfg.Revocation.PruneInterval(),
	}, activityService, pruner, metrics, logger)
	go prunerWorker.Run(ctx)

	dependencies := map[string]handlers.Pinger{"postgres": pg}
	if redis.Enabled() {
		dependencies["redis"] = redis
	}

	app := httptransport.NewApp(cfg.App, logger, metrics)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, dependencies),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService),
		Courses:        handlers.NewCoursesHandler(courseService),
		Modules:        handlers.NewModulesHandler(moduleService),
		Activities:     handlers.NewActivitiesHandler(activityService),
		AuthMiddleware: auth.NewAuthMiddleware(validator, logger, metrics),
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

// revocationStore selects the logout blacklist backend. The returned pruner is nil when
// the backend expires records on its own or pruning does not apply.
func revocationStore(cfg config.RevocationConfig, pg *persistence.Postgres, redis *persistence.Redis, logger *zap.Logger) (auth.RevocationStore, auth.RevocationPruner, error) {
	switch cfg.Backend {
	case config.RevocationBackendRedis:
		if !redis.Enabled() {
			return nil, nil, errors.New("revocation backend redis requires REDIS_ADDR")
		}
		logger.Info("revocation store: redis")
		return repository.NewRedisRevocationStore(redis.Client), nil, nil
	case config.RevocationBackendMemory:
		logger.Warn("revocation store: memory; revocations are lost on restart")
		store := auth.NewMemoryRevocationStore()
		return store, store, nil
	default:
		logger.Info("revocation store: postgres")
		store := repository.NewPostgresRevocationStore(pg.PoolHandle())
		return store, store, nil
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
