package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/core/domain"
	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/core/port"
)

// defaultUpcomingWindow bounds schedule queries that do not name a horizon.
const defaultUpcomingWindow = 7 * 24 * time.Hour

// PlannerService answers schedule queries and tracks task state changes.
type PlannerService struct {
	goals port.GoalRepository
	tasks port.TaskRepository
	log   *zap.Logger
	now   func() time.Time
}

func NewPlannerService(goals port.GoalRepository, tasks port.TaskRepository, log *zap.Logger) *PlannerService {
	return &PlannerService{
		goals: goals,
		tasks: tasks,
		log:   log,
		now:   time.Now,
	}
}

// UpcomingTasks lists open tasks due within the window, soonest first.
func (s *PlannerService) UpcomingTasks(ctx context.Context, ownerID string, window time.Duration) ([]*domain.Task, error) {
	if ownerID == "" {
		return nil, domain.NewValidationError("owner_id", "must not be empty")
	}
	if window <= 0 {
		window = defaultUpcomingWindow
	}

	now := s.now().UTC()
	return s.tasks.ListUpcoming(ctx, ownerID, now, now.Add(window))
}

// OverdueTasks lists open tasks whose due date has passed.
func (s *PlannerService) OverdueTasks(ctx context.Context, ownerID string) ([]*domain.Task, error) {
	if ownerID == "" {
		return nil, domain.NewValidationError("owner_id", "must not be empty")
	}
	return s.tasks.ListOverdue(ctx, ownerID, s.now().UTC())
}

// TasksForGoal lists every task of the goal in allocation order.
func (s *PlannerService) TasksForGoal(ctx context.Context, goalID string) ([]*domain.Task, error) {
	if _, err := s.goals.GetByID(ctx, goalID); err != nil {
		return nil, err
	}
	return s.tasks.ListByGoal(ctx, goalID)
}

// GoalProgress reports per-status task counts for the goal.
func (s *PlannerService) GoalProgress(ctx context.Context, goalID string) (*domain.GoalProgress, error) {
	if _, err := s.goals.GetByID(ctx, goalID); err != nil {
		return nil, err
	}
	return s.tasks.Progress(ctx, goalID)
}

// UpdateTaskStatus moves a task to the given status.
func (s *PlannerService) UpdateTaskStatus(ctx context.Context, taskID string, status domain.TaskStatus) (*domain.Task, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status == status {
		return task, nil
	}

	if err := s.tasks.UpdateStatus(ctx, taskID, status); err != nil {
		return nil, err
	}

	s.log.Info("Updated task status",
		zap.String("task_id", taskID),
		zap.String("from", string(task.Status)),
		zap.String("to", string(status)))

	task.Status = status
	task.UpdatedAt = s.now().UTC()
	return task, nil
}

// DeleteTask removes a single task.
func (s *PlannerService) DeleteTask(ctx context.Context, taskID string) error {
	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return err
	}
	s.log.Info("Deleted task", zap.String("task_id", taskID))
	return nil
}
