package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ibrahimmurtaza/neurolearn-scheduler/config/logger"
	postgresdb "github.com/ibrahimmurtaza/neurolearn-scheduler/config/storage/postgresql"
	redisdb "github.com/ibrahimmurtaza/neurolearn-scheduler/config/storage/redis"
	config "github.com/ibrahimmurtaza/neurolearn-scheduler/config/utils"
	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/adapter/handler/httpapi"
	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/adapter/storage/postgres"
	rediscache "github.com/ibrahimmurtaza/neurolearn-scheduler/internal/adapter/storage/redis"
	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/core/service"
)

// _shutdownPeriod is the time in-flight requests get to finish before the
// listener is closed for good.
const _shutdownPeriod = 10 * time.Second

func main() {
	rootCtx, rootCtxCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCtxCancel()

	// 1. Init config & logger
	appConfig := config.New()
	baseLogger := logger.Build(appConfig.Logger)
	zap.ReplaceGlobals(baseLogger)

	log := baseLogger.With(zap.String("service", "api"))
	log.Info("Starting the scheduling API",
		zap.String("app", appConfig.App.Name),
		zap.String("env", appConfig.App.Env))

	// 2. Postgres
	dbService, err := postgresdb.New(rootCtx, appConfig.DB, baseLogger.Named("DB"))
	if err != nil {
		log.Error("Error initializing database connection", zap.Error(err))
		os.Exit(1)
	}
	log.Info("Successfully connected to the database", zap.String("host", appConfig.DB.Host))

	if err := dbService.Migrate(); err != nil {
		log.Error("Error migrating database", zap.Error(err))
		os.Exit(1)
	}
	log.Info("Successfully migrated the database")

	// 3. Redis
	cacheService, err := redisdb.New(rootCtx, appConfig.Redis)
	if err != nil {
		log.Error("Error initializing cache connection", zap.Error(err))
		os.Exit(1)
	}
	log.Info("Successfully connected to the cache server", zap.String("address", appConfig.Redis.Addr))

	// 4. Repositories & services
	goalRepo := postgres.NewGoalRepository(dbService, baseLogger.Named("GoalRepo"))
	taskRepo := postgres.NewTaskRepository(dbService, baseLogger.Named("TaskRepo"))
	profileRepo := postgres.NewProfileRepository(dbService, baseLogger.Named("ProfileRepo"))
	notificationRepo := postgres.NewNotificationRepository(dbService, baseLogger.Named("NotificationRepo"))
	goalCache := rediscache.NewGoalCache(cacheService.Client.Conn(), appConfig.Redis.GoalTTL, baseLogger.Named("GoalCache"))

	goals := service.NewGoalService(goalRepo, goalCache, baseLogger.Named("Goals"))
	allocator := service.NewAllocatorService(goalRepo, taskRepo, goalCache, baseLogger.Named("Allocator"))
	planner := service.NewPlannerService(goalRepo, taskRepo, baseLogger.Named("Planner"))
	matcher := service.NewMatcherService(profileRepo, baseLogger.Named("Matcher"))

	// 5. HTTP server
	server := httpapi.NewServer(httpapi.Options{
		AppName:       appConfig.App.Name,
		RateLimit:     appConfig.HTTP.RateLimit,
		LimiterStore:  cacheService.Client,
		Goals:         goals,
		Allocator:     allocator,
		Planner:       planner,
		Matcher:       matcher,
		Notifications: notificationRepo,
		Ready: func(ctx context.Context) error {
			if err := dbService.DBHealth(ctx); err != nil {
				return err
			}
			return cacheService.Client.Conn().Ping(ctx).Err()
		},
		Log: baseLogger.Named("HTTP"),
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Listen(appConfig.HTTP.Addr)
	}()
	log.Info("HTTP server listening", zap.String("addr", appConfig.HTTP.Addr))

	// 6. Wait for shutdown
	select {
	case err := <-errCh:
		log.Error("HTTP server failed", zap.Error(err))
		os.Exit(1)
	case <-rootCtx.Done():
	}

	log.Info("Shutting down, draining in-flight requests")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), _shutdownPeriod)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}

	dbService.Close()
	log.Info("Graceful shutdown complete")
}
