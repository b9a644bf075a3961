package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	pgdb "github.com/ibrahimmurtaza/neurolearn-scheduler/config/storage/postgresql"
	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/core/domain"
	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/core/port"
)

var goalColumns = []string{"id", "owner_id", "title", "description", "deadline", "created_at", "updated_at"}

type goalRepository struct {
	db  *pgdb.DB
	log *zap.Logger
}

// NewGoalRepository creates a new postgres goal repository
func NewGoalRepository(db *pgdb.DB, log *zap.Logger) port.GoalRepository {
	return &goalRepository{
		db:  db,
		log: log,
	}
}

func (r *goalRepository) Save(ctx context.Context, goal *domain.Goal) error {
	query, args, err := r.db.QueryBuilder.
		Insert("goals").
		Columns(goalColumns...).
		Values(goal.ID, goal.OwnerID, goal.Title, goal.Description, goal.Deadline, goal.CreatedAt, goal.UpdatedAt).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		r.log.Error("Failed to save goal", zap.String("goal_id", goal.ID), zap.Error(err))
		return err
	}
	return nil
}

func (r *goalRepository) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	query, args, err := r.db.QueryBuilder.
		Select(goalColumns...).
		From("goals").
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return nil, err
	}

	var goal domain.Goal
	row := r.db.QueryRow(ctx, query, args...)
	if err := row.Scan(&goal.ID, &goal.OwnerID, &goal.Title, &goal.Description,
		&goal.Deadline, &goal.CreatedAt, &goal.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, err
	}
	return &goal, nil
}

func (r *goalRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Goal, error) {
	query, args, err := r.db.QueryBuilder.
		Select(goalColumns...).
		From("goals").
		Where("owner_id = ?", ownerID).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []*domain.Goal
	for rows.Next() {
		var goal domain.Goal
		if err := rows.Scan(&goal.ID, &goal.OwnerID, &goal.Title, &goal.Description,
			&goal.Deadline, &goal.CreatedAt, &goal.UpdatedAt); err != nil {
			return nil, err
		}
		goals = append(goals, &goal)
	}
	return goals, rows.Err()
}

// Delete removes the goal, tasks cascade through the foreign key.
func (r *goalRepository) Delete(ctx context.Context, id string) error {
	query, args, err := r.db.QueryBuilder.
		Delete("goals").
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to delete goal", zap.String("goal_id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}
