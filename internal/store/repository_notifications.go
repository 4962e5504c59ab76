package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/ashvale/go-craft-market/internal/logger"
	"github.com/ashvale/go-craft-market/models"
)

type notificationRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewNotificationRepository constructs the SQLite-backed implementation of
// [NotificationRepository].
func NewNotificationRepository(db *DB, logger *logger.Logger) NotificationRepository {
	return &notificationRepository{db: db, logger: logger}
}

func (n *notificationRepository) Insert(ctx context.Context, notif models.Notification) (bool, error) {
	query, args, err := sq.
		Insert("notifications").
		Columns("id", "type", "content", "link", "is_read", "ts").
		Values(notif.ID, string(notif.Type), notif.Content, notif.Link, notif.Read, notif.Timestamp).
		Suffix("ON CONFLICT(id) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build notification insert: %w", err)
	}

	res, err := n.db.ExecContext(ctx, query, args...)
	if err != nil {
		n.logger.Err(err).Int64("id", notif.ID).Msg("failed to insert notification")
		return false, fmt.Errorf("insert notification %d: %w", notif.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("notification insert result: %w", err)
	}
	return affected > 0, nil
}

func (n *notificationRepository) List(ctx context.Context, limit int) ([]models.Notification, error) {
	builder := sq.
		Select("id", "type", "content", "link", "is_read", "ts").
		From("notifications").
		OrderBy("ts DESC", "id DESC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build notification select: %w", err)
	}

	return n.query(ctx, query, args...)
}

func (n *notificationRepository) Unread(ctx context.Context) ([]models.Notification, error) {
	query, args, err := sq.
		Select("id", "type", "content", "link", "is_read", "ts").
		From("notifications").
		Where(sq.Eq{"is_read": false}).
		OrderBy("ts DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build unread select: %w", err)
	}

	return n.query(ctx, query, args...)
}

func (n *notificationRepository) MarkRead(ctx context.Context, id int64) error {
	query, args, err := sq.
		Update("notifications").
		Set("is_read", true).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark read update: %w", err)
	}

	res, err := n.db.ExecContext(ctx, query, args...)
	if err != nil {
		n.logger.Err(err).Int64("id", id).Msg("failed to mark notification read")
		return fmt.Errorf("mark notification %d read: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark read result: %w", err)
	}
	if affected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (n *notificationRepository) query(ctx context.Context, query string, args ...any) ([]models.Notification, error) {
	rows, err := n.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var result []models.Notification
	for rows.Next() {
		var item models.Notification
		var typ string
		if err = rows.Scan(&item.ID, &typ, &item.Content, &item.Link, &item.Read, &item.Timestamp); err != nil {
			return nil, fmt.Errorf("scan notification row: %w", err)
		}
		item.Type = models.NotificationType(typ)
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notification rows: %w", err)
	}

	return result, nil
}
