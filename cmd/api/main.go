package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/franchise-service/internal/api/http"
	"github.com/spec-kit/franchise-service/internal/api/http/handlers"
	"github.com/spec-kit/franchise-service/internal/auth"
	"github.com/spec-kit/franchise-service/internal/config"
	"github.com/spec-kit/franchise-service/internal/events"
	"github.com/spec-kit/franchise-service/internal/observability"
	"github.com/spec-kit/franchise-service/internal/persistence"
	"github.com/spec-kit/franchise-service/internal/repository"
	"github.com/spec-kit/franchise-service/internal/service"
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

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	franchiseRepo := repository.NewFranchiseRepository(pool)
	storeRepo := repository.NewStoreRepository(pool)
	sessionRepo := repository.NewSessionRepository(redis.Client, cfg.Auth.SessionTTL())

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	subscribeAuthMetrics(dispatcher, metrics)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:    userRepo,
		SessionRepo: sessionRepo,
		Dispatcher:  dispatcher,
	})
	franchiseService := service.NewFranchiseService(service.FranchiseDependencies{
		FranchiseRepo: franchiseRepo,
		StoreRepo:     storeRepo,
		UserRepo:      userRepo,
	})
	authenticator := auth.NewSessionAuthenticator(authService.TokenCodec(), sessionRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	usersHandler := handlers.NewUsersHandler(authService)
	franchiseHandler := handlers.NewFranchiseHandler(franchiseService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:        healthHandler,
		Users:         usersHandler,
		Franchises:    franchiseHandler,
		Authenticator: authenticator,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func subscribeAuthMetrics(dispatcher events.Dispatcher, metrics *observability.Metrics) {
	for _, eventType := range []events.EventType{
		events.EventUserRegistered,
		events.EventUserLoggedIn,
		events.EventUserLoggedOut,
		events.EventUserUpdated,
	} {
		et := eventType
		dispatcher.Subscribe(et, func(_ context.Context, event events.Event) error {
			metrics.RecordAuthEvent(string(event.Type))
			return nil
		})
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
