package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/core/domain"
	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/core/port"
)

// NewGoal carries the caller-supplied fields for goal creation.
type NewGoal struct {
	OwnerID     string
	Title       string
	Description string
	Deadline    time.Time
}

// GoalService manages the goal lifecycle.
type GoalService struct {
	goals port.GoalRepository
	cache port.GoalCache
	log   *zap.Logger
	now   func() time.Time
}

func NewGoalService(goals port.GoalRepository, cache port.GoalCache, log *zap.Logger) *GoalService {
	return &GoalService{
		goals: goals,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

func (s *GoalService) CreateGoal(ctx context.Context, in NewGoal) (*domain.Goal, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, domain.NewValidationError("title", "must not be empty")
	}
	if in.OwnerID == "" {
		return nil, domain.NewValidationError("owner_id", "must not be empty")
	}

	now := s.now().UTC()
	if in.Deadline.IsZero() {
		return nil, domain.NewValidationError("deadline", "must be set")
	}
	if !in.Deadline.After(now) {
		return nil, domain.NewValidationError("deadline", "must be in the future")
	}

	goal := &domain.Goal{
		ID:          uuid.NewString(),
		OwnerID:     in.OwnerID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Deadline:    in.Deadline.UTC(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.goals.Save(ctx, goal); err != nil {
		return nil, err
	}

	s.log.Info("Created goal",
		zap.String("goal_id", goal.ID),
		zap.String("owner_id", goal.OwnerID),
		zap.Time("deadline", goal.Deadline))

	return goal, nil
}

func (s *GoalService) GetGoal(ctx context.Context, id string) (*domain.Goal, error) {
	return s.goals.GetByID(ctx, id)
}

func (s *GoalService) ListGoals(ctx context.Context, ownerID string) ([]*domain.Goal, error) {
	if ownerID == "" {
		return nil, domain.NewValidationError("owner_id", "must not be empty")
	}
	return s.goals.ListByOwner(ctx, ownerID)
}

// DeleteGoal removes the goal, its tasks cascade in storage. The cache entry
// is dropped so a stale deadline cannot serve a later allocation.
func (s *GoalService) DeleteGoal(ctx context.Context, id string) error {
	if err := s.goals.Delete(ctx, id); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, id); err != nil {
			s.log.Debug("Goal cache invalidation failed", zap.String("goal_id", id), zap.Error(err))
		}
	}

	s.log.Info("Deleted goal", zap.String("goal_id", id))
	return nil
}
