package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ibrahimmurtaza/neurolearn-scheduler/config/logger"
	postgresdb "github.com/ibrahimmurtaza/neurolearn-scheduler/config/storage/postgresql"
	redisdb "github.com/ibrahimmurtaza/neurolearn-scheduler/config/storage/redis"
	config "github.com/ibrahimmurtaza/neurolearn-scheduler/config/utils"
	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/adapter/queue/rabbitmq"
	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/adapter/storage/postgres"
	rediscache "github.com/ibrahimmurtaza/neurolearn-scheduler/internal/adapter/storage/redis"
	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/core/domain"
	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/core/service"

	"github.com/google/uuid"
)

// Exercises every backing service end to end against a running stack.
func main() {
	// 1. Setup logger & config
	appConfig := config.New()
	log := logger.Build(appConfig.Logger)
	ctx := context.Background()

	log.Info("Starting Verification...")

	// 2. Test Postgres
	log.Info("--- Testing Postgres ---")
	dbService, err := postgresdb.New(ctx, appConfig.DB, log)
	if err != nil {
		log.Fatal("Failed to connect to DB", zap.Error(err))
	}
	if err := dbService.Migrate(); err != nil {
		log.Fatal("Failed to migrate DB", zap.Error(err))
	}

	goalRepo := postgres.NewGoalRepository(dbService, log)
	taskRepo := postgres.NewTaskRepository(dbService, log)

	goal := &domain.Goal{
		ID:        uuid.NewString(),
		OwnerID:   uuid.NewString(),
		Title:     "Verification goal",
		Deadline:  time.Now().Add(7 * 24 * time.Hour).UTC(),
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := goalRepo.Save(ctx, goal); err != nil {
		log.Error("X Postgres: Save Goal Failed", zap.Error(err))
	} else {
		log.Info("✓ Postgres: Save Goal Success")
	}

	if fetched, err := goalRepo.GetByID(ctx, goal.ID); err != nil {
		log.Error("X Postgres: Get Goal Failed", zap.Error(err))
	} else {
		log.Info("✓ Postgres: Get Goal Success", zap.String("FetchedID", fetched.ID))
	}

	// 3. Test Redis
	log.Info("--- Testing Redis ---")
	cacheService, err := redisdb.New(ctx, appConfig.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	goalCache := rediscache.NewGoalCache(cacheService.Client.Conn(), appConfig.Redis.GoalTTL, log)

	if err := goalCache.Set(ctx, goal); err != nil {
		log.Error("X Redis: Cache Goal Failed", zap.Error(err))
	} else {
		log.Info("✓ Redis: Cache Goal Success")
	}

	if cached, err := goalCache.Get(ctx, goal.ID); err != nil || cached == nil {
		log.Error("X Redis: Read Cached Goal Failed", zap.Error(err))
	} else {
		log.Info("✓ Redis: Read Cached Goal Success", zap.String("CachedID", cached.ID))
	}

	// 4. Test allocation end to end
	log.Info("--- Testing Allocation ---")
	allocator := service.NewAllocatorService(goalRepo, taskRepo, goalCache, log)

	tasks, err := allocator.AllocateTasks(ctx, goal.ID, []domain.SubtaskSpec{
		{Title: "Verification subtask one"},
		{Title: "Verification subtask two", Priority: domain.TaskPriorityHigh},
		{Title: "Verification subtask three"},
	})
	if err != nil {
		log.Error("X Allocation: Batch Failed", zap.Error(err))
	} else {
		log.Info("✓ Allocation: Batch Success",
			zap.Int("Count", len(tasks)),
			zap.Time("FirstDue", tasks[0].DueDate),
			zap.Time("LastDue", tasks[len(tasks)-1].DueDate))
	}

	if listed, err := taskRepo.ListByGoal(ctx, goal.ID); err != nil || len(listed) != len(tasks) {
		log.Error("X Allocation: Read Back Failed", zap.Error(err), zap.Int("Count", len(listed)))
	} else {
		log.Info("✓ Allocation: Read Back Success", zap.Int("Count", len(listed)))
	}

	// 5. Test RabbitMQ
	log.Info("--- Testing RabbitMQ ---")
	queue, err := rabbitmq.NewReminderQueue(appConfig.Queue.URL(), log)
	if err != nil {
		log.Error("X RabbitMQ: Connection Failed", zap.Error(err))
	} else {
		event := &domain.ReminderEvent{
			TaskID:   uuid.NewString(),
			GoalID:   goal.ID,
			OwnerID:  goal.OwnerID,
			Title:    "Verification reminder",
			Priority: domain.TaskPriorityMedium,
			DueDate:  time.Now().Add(12 * time.Hour).UTC(),
		}
		if err := queue.PublishReminder(ctx, event); err != nil {
			log.Error("X RabbitMQ: Publish Failed", zap.Error(err))
		} else {
			log.Info("✓ RabbitMQ: Publish Success")
		}
		if err := queue.Close(); err != nil {
			log.Warn("! RabbitMQ: Close Failed", zap.Error(err))
		}
	}

	// 6. Cleanup, tasks cascade with the goal
	if err := goalRepo.Delete(ctx, goal.ID); err != nil {
		log.Warn("! Cleanup: Delete Goal Failed", zap.Error(err))
	}
	if err := goalCache.Invalidate(ctx, goal.ID); err != nil {
		log.Warn("! Cleanup: Invalidate Cache Failed", zap.Error(err))
	}

	log.Info("Verification Complete.")
}
