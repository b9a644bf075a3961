package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/core/domain"
	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/core/port"
)

// Clamp margins for computed due dates.
const (
	dueDateMinLead   = time.Hour      // a task is never due sooner than this after allocation
	dueDateLowClamp  = 24 * time.Hour // floor offset when a tentative date is too close to now
	dueDateHighClamp = 24 * time.Hour // backoff from the deadline when a tentative date passes it
)

// AllocatorService turns a batch of subtask specs into persisted tasks with
// due dates spread across the owning goal's remaining time.
type AllocatorService struct {
	goals port.GoalRepository
	tasks port.TaskRepository
	cache port.GoalCache
	log   *zap.Logger
	now   func() time.Time
}

func NewAllocatorService(
	goals port.GoalRepository,
	tasks port.TaskRepository,
	cache port.GoalCache,
	log *zap.Logger,
) *AllocatorService {
	return &AllocatorService{
		goals: goals,
		tasks: tasks,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

// AllocateTasks validates the batch, computes a due date per subtask and
// persists the whole batch in one transaction. A batch of zero subtasks is a
// no-op, not an error. The returned tasks keep the input order.
func (s *AllocatorService) AllocateTasks(ctx context.Context, goalID string, specs []domain.SubtaskSpec) ([]*domain.Task, error) {
	// 1. Resolve the goal, cache first. A missing goal wins over a bad payload.
	goal, err := s.lookupGoal(ctx, goalID)
	if err != nil {
		return nil, err
	}

	// 2. Reject malformed specs before any date arithmetic
	if err := validateSubtasks(specs); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if goal.Expired(now) {
		s.log.Warn("Allocating against an expired goal deadline",
			zap.String("goal_id", goal.ID),
			zap.Time("deadline", goal.Deadline))
	}

	if len(specs) == 0 {
		return []*domain.Task{}, nil
	}

	// 3. Spread due dates across the remaining time
	dueDates := SpreadDueDates(now, goal.Deadline.UTC(), len(specs))

	tasks := make([]*domain.Task, 0, len(specs))
	for i, spec := range specs {
		priority := spec.Priority
		if priority == "" {
			priority = domain.TaskPriorityMedium
		}
		orderIndex := spec.OrderIndex
		if orderIndex == 0 {
			orderIndex = i + 1
		}

		tasks = append(tasks, &domain.Task{
			ID:               uuid.NewString(),
			GoalID:           goal.ID,
			OwnerID:          goal.OwnerID,
			Title:            strings.TrimSpace(spec.Title),
			Description:      spec.Description,
			Priority:         priority,
			EstimatedMinutes: spec.EstimatedMinutes,
			OrderIndex:       orderIndex,
			DueDate:          dueDates[i],
			Dependencies:     spec.Dependencies,
			Status:           domain.TaskStatusPending,
			CreatedAt:        now,
			UpdatedAt:        now,
		})
	}

	// 4. Persist all-or-nothing
	if err := s.tasks.SaveBatch(ctx, tasks); err != nil {
		return nil, fmt.Errorf("saving task batch: %w", err)
	}

	s.log.Info("Allocated study tasks",
		zap.String("goal_id", goal.ID),
		zap.Int("count", len(tasks)),
		zap.Time("first_due", tasks[0].DueDate),
		zap.Time("last_due", tasks[len(tasks)-1].DueDate))

	return tasks, nil
}

// SpreadDueDates distributes n due dates across the time remaining between
// now and deadline. Dates grow with batch position, the first lands near now
// and the last near the deadline. A date that would pass the deadline backs
// off to one day before it, otherwise a date closer than one hour from now is
// pushed to one day out. The two clamps are mutually exclusive, so a deadline
// already in the past yields dates in the past rather than after now.
func SpreadDueDates(now, deadline time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}

	days := int(deadline.Sub(now).Hours() / 24)
	if days < 1 {
		days = 1
	}
	span := time.Duration(days-1) * 24 * time.Hour

	dates := make([]time.Time, n)
	for k := 1; k <= n; k++ {
		ratio := float64(k) / float64(n)
		if ratio > 1 {
			ratio = 1
		}

		due := now.Add(time.Duration(ratio * float64(span)))
		if due.After(deadline) {
			due = deadline.Add(-dueDateHighClamp)
		} else if due.Before(now.Add(dueDateMinLead)) {
			due = now.Add(dueDateLowClamp)
		}
		dates[k-1] = due
	}
	return dates
}

func validateSubtasks(specs []domain.SubtaskSpec) error {
	for i, spec := range specs {
		if strings.TrimSpace(spec.Title) == "" {
			return domain.NewValidationError(fmt.Sprintf("subtasks[%d].title", i), "must not be empty")
		}
		if spec.Priority != "" && !spec.Priority.Valid() {
			return domain.NewValidationError(fmt.Sprintf("subtasks[%d].priority", i), "must be low, medium or high")
		}
		if spec.EstimatedMinutes < 0 {
			return domain.NewValidationError(fmt.Sprintf("subtasks[%d].estimated_minutes", i), "must not be negative")
		}
		if spec.OrderIndex < 0 {
			return domain.NewValidationError(fmt.Sprintf("subtasks[%d].order_index", i), "must not be negative")
		}
	}
	return nil
}

// lookupGoal checks the cache before the repository. Cache failures only
// degrade to a repository read, they never fail the allocation.
func (s *AllocatorService) lookupGoal(ctx context.Context, id string) (*domain.Goal, error) {
	if s.cache != nil {
		goal, err := s.cache.Get(ctx, id)
		if err != nil {
			s.log.Debug("Goal cache read failed", zap.String("goal_id", id), zap.Error(err))
		} else if goal != nil {
			return goal, nil
		}
	}

	goal, err := s.goals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, goal); err != nil {
			s.log.Debug("Goal cache write failed", zap.String("goal_id", id), zap.Error(err))
		}
	}
	return goal, nil
}
