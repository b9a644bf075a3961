package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/core/domain"
	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/core/port"
)

// defaultReminderLead is how far before its due date a task becomes
// remindable when no lead time is configured.
const defaultReminderLead = 24 * time.Hour

// ReminderService scans for tasks entering their reminder window, publishes
// one event per task and turns consumed events into notifications.
type ReminderService struct {
	tasks         port.TaskRepository
	notifications port.NotificationRepository
	queue         port.ReminderQueue
	lead          time.Duration
	log           *zap.Logger
	now           func() time.Time
}

func NewReminderService(
	tasks port.TaskRepository,
	notifications port.NotificationRepository,
	queue port.ReminderQueue,
	lead time.Duration,
	log *zap.Logger,
) *ReminderService {
	if lead <= 0 {
		lead = defaultReminderLead
	}
	return &ReminderService{
		tasks:         tasks,
		notifications: notifications,
		queue:         queue,
		lead:          lead,
		log:           log,
		now:           time.Now,
	}
}

// Run starts the consumer and then the scan loop. It blocks until ctx is
// cancelled.
func (s *ReminderService) Run(ctx context.Context, interval time.Duration) error {
	if err := s.queue.ConsumeReminders(ctx, s.HandleReminder); err != nil {
		return fmt.Errorf("starting reminder consumer: %w", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	count := 0
	for {
		select {
		case <-ctx.Done():
			s.log.Info("Stopping reminder loop")
			return nil
		case <-ticker.C:
			count++
			if count%10 == 0 {
				s.log.Info("Reminder scanner heartbeat",
					zap.Duration("interval", interval),
					zap.Duration("lead", s.lead))
			}

			if err := s.ScanOnce(ctx); err != nil {
				s.log.Error("Reminder scan failed", zap.Error(err))
			}
		}
	}
}

// ScanOnce publishes a reminder for every task due within the lead window and
// marks it reminded. A task whose publish fails stays unmarked and is
// retried next cycle.
func (s *ReminderService) ScanOnce(ctx context.Context) error {
	now := s.now().UTC()

	due, err := s.tasks.ListDueSoon(ctx, now.Add(s.lead))
	if err != nil {
		return err
	}
	if len(due) == 0 {
		return nil
	}

	s.log.Info("Found tasks entering reminder window", zap.Int("count", len(due)))

	for _, task := range due {
		event := &domain.ReminderEvent{
			TaskID:   task.ID,
			GoalID:   task.GoalID,
			OwnerID:  task.OwnerID,
			Title:    task.Title,
			Priority: task.Priority,
			DueDate:  task.DueDate,
		}

		if err := s.queue.PublishReminder(ctx, event); err != nil {
			s.log.Error("Failed to publish reminder", zap.String("task_id", task.ID), zap.Error(err))
			continue
		}

		if err := s.tasks.MarkReminded(ctx, task.ID, now); err != nil {
			s.log.Error("Failed to mark task reminded", zap.String("task_id", task.ID), zap.Error(err))
			continue
		}

		s.log.Info("Published reminder",
			zap.String("task_id", task.ID),
			zap.String("owner_id", task.OwnerID),
			zap.Time("due_date", task.DueDate))
	}

	return nil
}

// HandleReminder stores one notification for a consumed reminder event.
func (s *ReminderService) HandleReminder(event *domain.ReminderEvent) error {
	now := s.now().UTC()

	notification := &domain.Notification{
		ID:        uuid.NewString(),
		UserID:    event.OwnerID,
		TaskID:    event.TaskID,
		Message:   reminderMessage(event, now),
		DueDate:   event.DueDate,
		Read:      false,
		CreatedAt: now,
	}

	ctx := context.Background() // consumer callbacks carry no request context
	if err := s.notifications.Save(ctx, notification); err != nil {
		s.log.Error("Failed to store notification", zap.String("task_id", event.TaskID), zap.Error(err))
		return err
	}

	s.log.Info("Stored reminder notification",
		zap.String("task_id", event.TaskID),
		zap.String("user_id", event.OwnerID))
	return nil
}

func reminderMessage(event *domain.ReminderEvent, now time.Time) string {
	remaining := event.DueDate.Sub(now)
	switch {
	case remaining < 0:
		return fmt.Sprintf("Task %q is overdue", event.Title)
	case remaining < time.Hour:
		return fmt.Sprintf("Task %q is due in less than an hour", event.Title)
	case remaining < 24*time.Hour:
		return fmt.Sprintf("Task %q is due in %d hours", event.Title, int(remaining.Hours()))
	default:
		return fmt.Sprintf("Task %q is due on %s", event.Title, event.DueDate.Format("Jan 2, 15:04 MST"))
	}
}
