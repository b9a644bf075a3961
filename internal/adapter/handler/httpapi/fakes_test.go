package httpapi

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/core/domain"
	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/core/service"
)

// In-memory repositories backing a server under test. The real services run
// on top of them, only the storage and queue edges are faked.

type memGoalRepo struct {
	goals map[string]*domain.Goal
}

func newMemGoalRepo() *memGoalRepo {
	return &memGoalRepo{goals: make(map[string]*domain.Goal)}
}

func (r *memGoalRepo) Save(_ context.Context, goal *domain.Goal) error {
	r.goals[goal.ID] = goal
	return nil
}

func (r *memGoalRepo) GetByID(_ context.Context, id string) (*domain.Goal, error) {
	goal, ok := r.goals[id]
	if !ok {
		return nil, domain.ErrGoalNotFound
	}
	return goal, nil
}

func (r *memGoalRepo) ListByOwner(_ context.Context, ownerID string) ([]*domain.Goal, error) {
	var out []*domain.Goal
	for _, goal := range r.goals {
		if goal.OwnerID == ownerID {
			out = append(out, goal)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memGoalRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.goals[id]; !ok {
		return domain.ErrGoalNotFound
	}
	delete(r.goals, id)
	return nil
}

type memTaskRepo struct {
	tasks map[string]*domain.Task
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{tasks: make(map[string]*domain.Task)}
}

func (r *memTaskRepo) SaveBatch(_ context.Context, tasks []*domain.Task) error {
	for _, task := range tasks {
		r.tasks[task.ID] = task
	}
	return nil
}

func (r *memTaskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	task, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}

func (r *memTaskRepo) ListByGoal(_ context.Context, goalID string) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, task := range r.tasks {
		if task.GoalID == goalID {
			out = append(out, task)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (r *memTaskRepo) ListUpcoming(_ context.Context, ownerID string, from, to time.Time) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, task := range r.tasks {
		if task.OwnerID != ownerID || task.Status == domain.TaskStatusCompleted {
			continue
		}
		if task.DueDate.Before(from) || task.DueDate.After(to) {
			continue
		}
		out = append(out, task)
	}
	sortByDueDate(out)
	return out, nil
}

func (r *memTaskRepo) ListOverdue(_ context.Context, ownerID string, now time.Time) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, task := range r.tasks {
		if task.OwnerID != ownerID || task.Status == domain.TaskStatusCompleted {
			continue
		}
		if !task.DueDate.Before(now) {
			continue
		}
		out = append(out, task)
	}
	sortByDueDate(out)
	return out, nil
}

func (r *memTaskRepo) ListDueSoon(_ context.Context, before time.Time) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, task := range r.tasks {
		if task.Status == domain.TaskStatusCompleted || task.RemindedAt != nil {
			continue
		}
		if task.DueDate.After(before) {
			continue
		}
		out = append(out, task)
	}
	sortByDueDate(out)
	return out, nil
}

func (r *memTaskRepo) UpdateStatus(_ context.Context, id string, status domain.TaskStatus) error {
	task, ok := r.tasks[id]
	if !ok {
		return domain.ErrTaskNotFound
	}
	task.Status = status
	return nil
}

func (r *memTaskRepo) MarkReminded(_ context.Context, id string, at time.Time) error {
	task, ok := r.tasks[id]
	if !ok {
		return domain.ErrTaskNotFound
	}
	task.RemindedAt = &at
	return nil
}

func (r *memTaskRepo) Progress(_ context.Context, goalID string) (*domain.GoalProgress, error) {
	progress := &domain.GoalProgress{GoalID: goalID}
	for _, task := range r.tasks {
		if task.GoalID != goalID {
			continue
		}
		switch task.Status {
		case domain.TaskStatusPending:
			progress.Pending++
		case domain.TaskStatusInProgress:
			progress.InProgress++
		case domain.TaskStatusCompleted:
			progress.Completed++
		}
		progress.Total++
	}
	return progress, nil
}

func (r *memTaskRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

func sortByDueDate(tasks []*domain.Task) {
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].DueDate.Before(tasks[j].DueDate) })
}

type memProfileRepo struct {
	profiles map[string]*domain.StudyProfile
}

func newMemProfileRepo() *memProfileRepo {
	return &memProfileRepo{profiles: make(map[string]*domain.StudyProfile)}
}

func (r *memProfileRepo) Upsert(_ context.Context, profile *domain.StudyProfile) error {
	r.profiles[profile.UserID] = profile
	return nil
}

func (r *memProfileRepo) GetByUser(_ context.Context, userID string) (*domain.StudyProfile, error) {
	profile, ok := r.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return profile, nil
}

func (r *memProfileRepo) ListAll(_ context.Context) ([]*domain.StudyProfile, error) {
	out := make([]*domain.StudyProfile, 0, len(r.profiles))
	for _, profile := range r.profiles {
		out = append(out, profile)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

type memNotificationRepo struct {
	notifications map[string]*domain.Notification
}

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{notifications: make(map[string]*domain.Notification)}
}

func (r *memNotificationRepo) Save(_ context.Context, notification *domain.Notification) error {
	r.notifications[notification.ID] = notification
	return nil
}

func (r *memNotificationRepo) ListByUser(_ context.Context, userID string, unreadOnly bool) ([]*domain.Notification, error) {
	var out []*domain.Notification
	for _, notification := range r.notifications {
		if notification.UserID != userID {
			continue
		}
		if unreadOnly && notification.Read {
			continue
		}
		out = append(out, notification)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Read != out[j].Read {
			return !out[i].Read
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memNotificationRepo) MarkRead(_ context.Context, id string) error {
	notification, ok := r.notifications[id]
	if !ok {
		return domain.ErrNotificationNotFound
	}
	notification.Read = true
	return nil
}

type testBackend struct {
	goals         *memGoalRepo
	tasks         *memTaskRepo
	profiles      *memProfileRepo
	notifications *memNotificationRepo
}

// newTestServer builds a server over in-memory storage. Option funcs tweak the
// server options before construction.
func newTestServer(opts ...func(*Options)) (*Server, *testBackend) {
	backend := &testBackend{
		goals:         newMemGoalRepo(),
		tasks:         newMemTaskRepo(),
		profiles:      newMemProfileRepo(),
		notifications: newMemNotificationRepo(),
	}

	log := zap.NewNop()
	options := Options{
		AppName:       "neurolearn-scheduler-test",
		Goals:         service.NewGoalService(backend.goals, nil, log),
		Allocator:     service.NewAllocatorService(backend.goals, backend.tasks, nil, log),
		Planner:       service.NewPlannerService(backend.goals, backend.tasks, log),
		Matcher:       service.NewMatcherService(backend.profiles, log),
		Notifications: backend.notifications,
		Log:           log,
	}
	for _, opt := range opts {
		opt(&options)
	}

	return NewServer(options), backend
}
