package main

import (
	"context"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ibrahimmurtaza/neurolearn-scheduler/config/logger"
	postgresdb "github.com/ibrahimmurtaza/neurolearn-scheduler/config/storage/postgresql"
	config "github.com/ibrahimmurtaza/neurolearn-scheduler/config/utils"
	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/adapter/queue/rabbitmq"
	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/adapter/storage/postgres"
	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/core/service"
)

func main() {
	rootCtx, rootCtxCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCtxCancel()

	// 1. Init config & logger
	appConfig := config.New()
	baseLogger := logger.Build(appConfig.Logger)
	zap.ReplaceGlobals(baseLogger)

	log := baseLogger.With(zap.String("service", "reminder"))
	log.Info("Starting the reminder daemon",
		zap.Duration("interval", appConfig.Scheduling.ReminderInterval),
		zap.Duration("lead", appConfig.Scheduling.ReminderLead))

	// 2. Postgres. The api binary owns migrations, this one just connects.
	dbService, err := postgresdb.New(rootCtx, appConfig.DB, baseLogger.Named("DB"))
	if err != nil {
		log.Fatal("Failed to init Postgres", zap.Error(err))
	}
	taskRepo := postgres.NewTaskRepository(dbService, baseLogger.Named("TaskRepo"))
	notificationRepo := postgres.NewNotificationRepository(dbService, baseLogger.Named("NotificationRepo"))

	// 3. RabbitMQ
	reminderQueue, err := rabbitmq.NewReminderQueue(appConfig.Queue.URL(), baseLogger.Named("Queue"))
	if err != nil {
		log.Fatal("Failed to init RabbitMQ", zap.Error(err))
	}

	// 4. Run the scan loop until shutdown
	reminders := service.NewReminderService(
		taskRepo,
		notificationRepo,
		reminderQueue,
		appConfig.Scheduling.ReminderLead,
		baseLogger.Named("Reminders"),
	)
	if err := reminders.Run(rootCtx, appConfig.Scheduling.ReminderInterval); err != nil {
		log.Fatal("Reminder loop failed", zap.Error(err))
	}

	// 5. Cleanup
	if err := reminderQueue.Close(); err != nil {
		log.Warn("Closing queue connection failed", zap.Error(err))
	}
	dbService.Close()
	log.Info("Shutdown complete")
}
