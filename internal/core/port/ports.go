package port

import (
	"context"
	"time"

	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/core/domain"
)

// GoalRepository defines how goals are persisted
type GoalRepository interface {
	Save(ctx context.Context, goal *domain.Goal) error
	GetByID(ctx context.Context, id string) (*domain.Goal, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Goal, error)
	Delete(ctx context.Context, id string) error
}

// TaskRepository defines how study tasks are persisted
type TaskRepository interface {
	// SaveBatch inserts all tasks in a single transaction, or none of them.
	SaveBatch(ctx context.Context, tasks []*domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByGoal(ctx context.Context, goalID string) ([]*domain.Task, error)
	ListUpcoming(ctx context.Context, ownerID string, from, to time.Time) ([]*domain.Task, error)
	ListOverdue(ctx context.Context, ownerID string, now time.Time) ([]*domain.Task, error)
	// ListDueSoon returns open tasks due before the cutoff that have not been
	// reminded about yet.
	ListDueSoon(ctx context.Context, before time.Time) ([]*domain.Task, error)
	UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) error
	MarkReminded(ctx context.Context, id string, at time.Time) error
	Progress(ctx context.Context, goalID string) (*domain.GoalProgress, error)
	Delete(ctx context.Context, id string) error
}

// ProfileRepository defines how study profiles are persisted
type ProfileRepository interface {
	Upsert(ctx context.Context, profile *domain.StudyProfile) error
	GetByUser(ctx context.Context, userID string) (*domain.StudyProfile, error)
	ListAll(ctx context.Context) ([]*domain.StudyProfile, error)
}

// NotificationRepository defines how in-app notifications are persisted
type NotificationRepository interface {
	Save(ctx context.Context, notification *domain.Notification) error
	// ListByUser returns notifications unread first, newest first within.
	ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id string) error
}

// GoalCache defines how goal lookups are cached between requests (Redis)
type GoalCache interface {
	// Get returns the cached goal, or nil without error on a miss.
	Get(ctx context.Context, id string) (*domain.Goal, error)
	Set(ctx context.Context, goal *domain.Goal) error
	Invalidate(ctx context.Context, id string) error
}

// ReminderQueue defines how due-task reminders are published and consumed
type ReminderQueue interface {
	PublishReminder(ctx context.Context, event *domain.ReminderEvent) error
	ConsumeReminders(ctx context.Context, handler func(event *domain.ReminderEvent) error) error
	Close() error
}
