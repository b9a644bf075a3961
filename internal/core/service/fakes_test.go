package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/core/domain"
)

// In-memory fakes for the storage and queue ports.

type fakeGoalRepo struct {
	mu    sync.Mutex
	goals map[string]*domain.Goal
}

func newFakeGoalRepo(goals ...*domain.Goal) *fakeGoalRepo {
	r := &fakeGoalRepo{goals: make(map[string]*domain.Goal)}
	for _, g := range goals {
		r.goals[g.ID] = g
	}
	return r
}

func (r *fakeGoalRepo) Save(_ context.Context, goal *domain.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.goals[goal.ID] = goal
	return nil
}

func (r *fakeGoalRepo) GetByID(_ context.Context, id string) (*domain.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	goal, ok := r.goals[id]
	if !ok {
		return nil, domain.ErrGoalNotFound
	}
	return goal, nil
}

func (r *fakeGoalRepo) ListByOwner(_ context.Context, ownerID string) ([]*domain.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Goal
	for _, g := range r.goals {
		if g.OwnerID == ownerID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeGoalRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.goals[id]; !ok {
		return domain.ErrGoalNotFound
	}
	delete(r.goals, id)
	return nil
}

type fakeTaskRepo struct {
	mu        sync.Mutex
	tasks     map[string]*domain.Task
	saveCalls int
	saveErr   error
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[string]*domain.Task)}
}

func (r *fakeTaskRepo) SaveBatch(_ context.Context, tasks []*domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveCalls++
	if r.saveErr != nil {
		return r.saveErr
	}
	for _, t := range tasks {
		r.tasks[t.ID] = t
	}
	return nil
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}

func (r *fakeTaskRepo) ListByGoal(_ context.Context, goalID string) ([]*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Task
	for _, t := range r.tasks {
		if t.GoalID == goalID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (r *fakeTaskRepo) ListUpcoming(_ context.Context, ownerID string, from, to time.Time) ([]*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Task
	for _, t := range r.tasks {
		if t.OwnerID != ownerID || t.Status == domain.TaskStatusCompleted {
			continue
		}
		if t.DueDate.Before(from) || t.DueDate.After(to) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (r *fakeTaskRepo) ListOverdue(_ context.Context, ownerID string, now time.Time) ([]*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Task
	for _, t := range r.tasks {
		if t.OwnerID == ownerID && t.Overdue(now) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (r *fakeTaskRepo) ListDueSoon(_ context.Context, before time.Time) ([]*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Task
	for _, t := range r.tasks {
		if t.Status == domain.TaskStatusCompleted || t.RemindedAt != nil {
			continue
		}
		if t.DueDate.After(before) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (r *fakeTaskRepo) UpdateStatus(_ context.Context, id string, status domain.TaskStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return domain.ErrTaskNotFound
	}
	task.Status = status
	return nil
}

func (r *fakeTaskRepo) MarkReminded(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return domain.ErrTaskNotFound
	}
	task.RemindedAt = &at
	return nil
}

func (r *fakeTaskRepo) Progress(_ context.Context, goalID string) (*domain.GoalProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	progress := &domain.GoalProgress{GoalID: goalID}
	for _, t := range r.tasks {
		if t.GoalID != goalID {
			continue
		}
		progress.Total++
		switch t.Status {
		case domain.TaskStatusPending:
			progress.Pending++
		case domain.TaskStatusInProgress:
			progress.InProgress++
		case domain.TaskStatusCompleted:
			progress.Completed++
		}
	}
	return progress, nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*domain.StudyProfile
}

func newFakeProfileRepo(profiles ...*domain.StudyProfile) *fakeProfileRepo {
	r := &fakeProfileRepo{profiles: make(map[string]*domain.StudyProfile)}
	for _, p := range profiles {
		r.profiles[p.UserID] = p
	}
	return r
}

func (r *fakeProfileRepo) Upsert(_ context.Context, profile *domain.StudyProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[profile.UserID] = profile
	return nil
}

func (r *fakeProfileRepo) GetByUser(_ context.Context, userID string) (*domain.StudyProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return profile, nil
}

func (r *fakeProfileRepo) ListAll(_ context.Context) ([]*domain.StudyProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.StudyProfile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

type fakeNotificationRepo struct {
	mu    sync.Mutex
	saved []*domain.Notification
}

func (r *fakeNotificationRepo) Save(_ context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, n)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, userID string, unreadOnly bool) ([]*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Notification
	for _, n := range r.saved {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.saved {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}
	return domain.ErrNotificationNotFound
}

type fakeQueue struct {
	mu         sync.Mutex
	published  []*domain.ReminderEvent
	publishErr error
	handler    func(*domain.ReminderEvent) error
}

func (q *fakeQueue) PublishReminder(_ context.Context, event *domain.ReminderEvent) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.publishErr != nil {
		return q.publishErr
	}
	q.published = append(q.published, event)
	return nil
}

func (q *fakeQueue) ConsumeReminders(_ context.Context, handler func(*domain.ReminderEvent) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handler = handler
	return nil
}

func (q *fakeQueue) Close() error { return nil }

type fakeGoalCache struct {
	mu      sync.Mutex
	entries map[string]*domain.Goal
	getErr  error
	sets    int
}

func newFakeGoalCache() *fakeGoalCache {
	return &fakeGoalCache{entries: make(map[string]*domain.Goal)}
}

func (c *fakeGoalCache) Get(_ context.Context, id string) (*domain.Goal, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.entries[id], nil
}

func (c *fakeGoalCache) Set(_ context.Context, goal *domain.Goal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.entries[goal.ID] = goal
	return nil
}

func (c *fakeGoalCache) Invalidate(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	return nil
}
