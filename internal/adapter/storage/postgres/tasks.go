package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	pgdb "github.com/ibrahimmurtaza/neurolearn-scheduler/config/storage/postgresql"
	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/core/domain"
	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/core/port"
)

// foreign key violation, raised when a task batch references a goal that
// vanished between lookup and insert
const pgForeignKeyViolation = "23503"

var taskColumns = []string{
	"id", "goal_id", "owner_id", "title", "description", "priority",
	"estimated_minutes", "order_index", "due_date", "dependencies",
	"status", "reminded_at", "created_at", "updated_at",
}

type taskRepository struct {
	db  *pgdb.DB
	log *zap.Logger
}

// NewTaskRepository creates a new postgres task repository
func NewTaskRepository(db *pgdb.DB, log *zap.Logger) port.TaskRepository {
	return &taskRepository{
		db:  db,
		log: log,
	}
}

// SaveBatch inserts every task inside one transaction so a failed insert
// leaves no partial plan behind.
func (r *taskRepository) SaveBatch(ctx context.Context, tasks []*domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, task := range tasks {
		deps := task.Dependencies
		if deps == nil {
			deps = []string{}
		}

		query, args, err := r.db.QueryBuilder.
			Insert("tasks").
			Columns(taskColumns...).
			Values(task.ID, task.GoalID, task.OwnerID, task.Title, task.Description, task.Priority,
				task.EstimatedMinutes, task.OrderIndex, task.DueDate, deps,
				task.Status, task.RemindedAt, task.CreatedAt, task.UpdatedAt).
			ToSql()
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, query, args...); err != nil {
			if r.db.ErrorCode(err) == pgForeignKeyViolation {
				return domain.ErrGoalNotFound
			}
			r.log.Error("Failed to insert task batch member",
				zap.String("task_id", task.ID),
				zap.String("goal_id", task.GoalID),
				zap.Error(err))
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query, args, err := r.db.QueryBuilder.
		Select(taskColumns...).
		From("tasks").
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return nil, err
	}

	task, err := scanTask(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) ListByGoal(ctx context.Context, goalID string) ([]*domain.Task, error) {
	return r.list(ctx, r.db.QueryBuilder.
		Select(taskColumns...).
		From("tasks").
		Where("goal_id = ?", goalID).
		OrderBy("order_index ASC", "due_date ASC"))
}

func (r *taskRepository) ListUpcoming(ctx context.Context, ownerID string, from, to time.Time) ([]*domain.Task, error) {
	return r.list(ctx, r.db.QueryBuilder.
		Select(taskColumns...).
		From("tasks").
		Where(squirrel.Eq{"owner_id": ownerID}).
		Where(squirrel.NotEq{"status": domain.TaskStatusCompleted}).
		Where(squirrel.GtOrEq{"due_date": from}).
		Where(squirrel.LtOrEq{"due_date": to}).
		OrderBy("due_date ASC"))
}

func (r *taskRepository) ListOverdue(ctx context.Context, ownerID string, now time.Time) ([]*domain.Task, error) {
	return r.list(ctx, r.db.QueryBuilder.
		Select(taskColumns...).
		From("tasks").
		Where(squirrel.Eq{"owner_id": ownerID}).
		Where(squirrel.NotEq{"status": domain.TaskStatusCompleted}).
		Where(squirrel.Lt{"due_date": now}).
		OrderBy("due_date ASC"))
}

func (r *taskRepository) ListDueSoon(ctx context.Context, before time.Time) ([]*domain.Task, error) {
	return r.list(ctx, r.db.QueryBuilder.
		Select(taskColumns...).
		From("tasks").
		Where(squirrel.LtOrEq{"due_date": before}).
		Where(squirrel.NotEq{"status": domain.TaskStatusCompleted}).
		Where(squirrel.Eq{"reminded_at": nil}).
		OrderBy("due_date ASC"))
}

func (r *taskRepository) UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) error {
	query, args, err := r.db.QueryBuilder.
		Update("tasks").
		Set("status", status).
		Set("updated_at", time.Now().UTC()).
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to update task status", zap.String("task_id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) MarkReminded(ctx context.Context, id string, at time.Time) error {
	query, args, err := r.db.QueryBuilder.
		Update("tasks").
		Set("reminded_at", at).
		Set("updated_at", at).
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to mark task reminded", zap.String("task_id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) Progress(ctx context.Context, goalID string) (*domain.GoalProgress, error) {
	query, args, err := r.db.QueryBuilder.
		Select("status", "COUNT(*)").
		From("tasks").
		Where("goal_id = ?", goalID).
		GroupBy("status").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	progress := &domain.GoalProgress{GoalID: goalID}
	for rows.Next() {
		var status domain.TaskStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}

		progress.Total += count
		switch status {
		case domain.TaskStatusPending:
			progress.Pending = count
		case domain.TaskStatusInProgress:
			progress.InProgress = count
		case domain.TaskStatusCompleted:
			progress.Completed = count
		}
	}
	return progress, rows.Err()
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	query, args, err := r.db.QueryBuilder.
		Delete("tasks").
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to delete task", zap.String("task_id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) list(ctx context.Context, builder squirrel.SelectBuilder) ([]*domain.Task, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	if err := row.Scan(&task.ID, &task.GoalID, &task.OwnerID, &task.Title, &task.Description,
		&task.Priority, &task.EstimatedMinutes, &task.OrderIndex, &task.DueDate,
		&task.Dependencies, &task.Status, &task.RemindedAt, &task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, err
	}
	return &task, nil
}
