package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/core/domain"
	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/core/port"
)

type goalCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	log    *zap.Logger
}

// NewGoalCache creates a Redis adapter that keeps recently used goals warm so
// allocation requests skip a database round trip.
func NewGoalCache(client redis.UniversalClient, ttl time.Duration, log *zap.Logger) port.GoalCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &goalCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// Get returns nil without error on a miss. A corrupt entry is dropped and
// treated as a miss.
func (c *goalCache) Get(ctx context.Context, id string) (*domain.Goal, error) {
	val, err := c.client.Get(ctx, goalKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var goal domain.Goal
	if err := json.Unmarshal([]byte(val), &goal); err != nil {
		c.log.Warn("Dropping corrupt goal cache entry", zap.String("goal_id", id), zap.Error(err))
		c.client.Del(ctx, goalKey(id))
		return nil, nil
	}
	return &goal, nil
}

func (c *goalCache) Set(ctx context.Context, goal *domain.Goal) error {
	data, err := json.Marshal(goal)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, goalKey(goal.ID), data, c.ttl).Err()
}

func (c *goalCache) Invalidate(ctx context.Context, id string) error {
	return c.client.Del(ctx, goalKey(id)).Err()
}

func goalKey(id string) string {
	return fmt.Sprintf("goal:%s", id)
}
