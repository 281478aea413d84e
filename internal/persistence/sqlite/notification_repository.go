package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/auction-scheduler/internal/persistence"
)

const notificationColumns = `id, user_id, type, reference_id, message, read, created_at`

// NotificationRepository implements persistence.NotificationRepository on
// SQLite.
type NotificationRepository struct {
	db    dbtx
	idGen func() string
	now   func() time.Time
}

// NewNotificationRepository binds a notification repository to a database
// handle or transaction.
func NewNotificationRepository(db dbtx, idGen func() string, now func() time.Time) *NotificationRepository {
	if idGen == nil {
		idGen = uuid.NewString
	}
	if now == nil {
		now = time.Now
	}
	return &NotificationRepository{db: db, idGen: idGen, now: now}
}

func (r *NotificationRepository) CreateMany(ctx context.Context, notifications []persistence.NewNotification) ([]persistence.Notification, error) {
	createdAt := r.now().UTC()
	created := make([]persistence.Notification, 0, len(notifications))
	for _, item := range notifications {
		entry := persistence.Notification{
			ID:          r.idGen(),
			UserID:      item.UserID,
			Type:        item.Type,
			ReferenceID: item.ReferenceID,
			Message:     item.Message,
			Read:        false,
			CreatedAt:   createdAt,
		}
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO notifications (`+notificationColumns+`)
			VALUES (?, ?, ?, ?, ?, 0, ?)`,
			entry.ID, entry.UserID, string(entry.Type), entry.ReferenceID,
			entry.Message, entry.CreatedAt.Format(time.RFC3339))
		if err != nil {
			return nil, mapError(err)
		}
		created = append(created, entry)
	}
	return created, nil
}

func (r *NotificationRepository) ListByUserID(ctx context.Context, userID string) ([]persistence.Notification, error) {
	return r.list(ctx, `
		SELECT `+notificationColumns+` FROM notifications
		WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`, userID)
}

func (r *NotificationRepository) ListAll(ctx context.Context) ([]persistence.Notification, error) {
	return r.list(ctx, `SELECT `+notificationColumns+` FROM notifications ORDER BY created_at, rowid`)
}

func (r *NotificationRepository) MarkRead(ctx context.Context, userID string, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, 0, len(ids)+1)
	args = append(args, userID)
	for _, id := range ids {
		args = append(args, id)
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE notifications SET read = 1
		WHERE user_id = ? AND read = 0 AND id IN (`+placeholders+`)`, args...)
	if err != nil {
		return 0, mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

func (r *NotificationRepository) ExistsBySignature(ctx context.Context, signature persistence.NotificationSignature) (bool, error) {
	var exists int
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM notifications
			WHERE user_id = ? AND type = ? AND reference_id = ? AND message = ?
		)`,
		signature.UserID, string(signature.Type), signature.ReferenceID, signature.Message,
	).Scan(&exists)
	if err != nil {
		return false, mapError(err)
	}
	return exists == 1, nil
}

func (r *NotificationRepository) list(ctx context.Context, query string, args ...any) ([]persistence.Notification, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	notifications := make([]persistence.Notification, 0)
	for rows.Next() {
		var (
			entry     persistence.Notification
			kind      string
			read      int
			createdAt string
		)
		err := rows.Scan(&entry.ID, &entry.UserID, &kind, &entry.ReferenceID,
			&entry.Message, &read, &createdAt)
		if err != nil {
			return nil, err
		}
		entry.Type = persistence.NotificationType(kind)
		entry.Read = read != 0
		if entry.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, entry)
	}
	return notifications, rows.Err()
}
