package postgres

import (
	"context"

	"github.com/Masterminds/squirrel"
	"go.uber.org/zap"

	pgdb "github.com/ibrahimmurtaza/neurolearn-scheduler/config/storage/postgresql"
	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/core/domain"
	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/core/port"
)

var notificationColumns = []string{"id", "user_id", "task_id", "message", "due_date", "is_read", "created_at"}

type notificationRepository struct {
	db  *pgdb.DB
	log *zap.Logger
}

// NewNotificationRepository creates a new postgres notification repository
func NewNotificationRepository(db *pgdb.DB, log *zap.Logger) port.NotificationRepository {
	return &notificationRepository{
		db:  db,
		log: log,
	}
}

func (r *notificationRepository) Save(ctx context.Context, notification *domain.Notification) error {
	query, args, err := r.db.QueryBuilder.
		Insert("notifications").
		Columns(notificationColumns...).
		Values(notification.ID, notification.UserID, notification.TaskID, notification.Message,
			notification.DueDate, notification.Read, notification.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		r.log.Error("Failed to save notification",
			zap.String("notification_id", notification.ID),
			zap.Error(err))
		return err
	}
	return nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]*domain.Notification, error) {
	// Unread first, newest first within each group
	builder := r.db.QueryBuilder.
		Select(notificationColumns...).
		From("notifications").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("is_read", "created_at DESC")
	if unreadOnly {
		builder = builder.Where(squirrel.Eq{"is_read": false})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.TaskID, &n.Message,
			&n.DueDate, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, &n)
	}
	return notifications, rows.Err()
}

func (r *notificationRepository) MarkRead(ctx context.Context, id string) error {
	query, args, err := r.db.QueryBuilder.
		Update("notifications").
		Set("is_read", true).
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to mark notification read", zap.String("notification_id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}
