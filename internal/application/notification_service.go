package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/auction-scheduler/internal/persistence"
)

// NotificationService pushes notifications, marks them read, and serves a
// user's inbox.
type NotificationService struct {
	tx     persistence.TxManager
	logger *slog.Logger
}

// NewNotificationService wires dependencies for notification operations.
func NewNotificationService(tx persistence.TxManager, logger *slog.Logger) *NotificationService {
	return &NotificationService{tx: tx, logger: logger}
}

// PushOrRead appends notifications to a user's inbox and/or marks existing
// ones read, then returns the inbox newest first. Pushing requires the system
// role; marking read is allowed to the system and to the user themselves.
func (s *NotificationService) PushOrRead(ctx context.Context, params PushOrReadParams) ([]Notification, error) {
	logger := serviceLogger(ctx, s.logger, "notification", "push_or_read", "user_id", params.UserID)

	if len(params.Notifications) > 0 && params.Principal.Role != RoleSystem {
		logger.Warn("push rejected", "error_kind", ErrorKind(ErrUnauthorized))
		return nil, ErrUnauthorized
	}
	if len(params.MarkReadIDs) > 0 && params.Principal.Role != RoleSystem && params.Principal.UserID != params.UserID {
		logger.Warn("mark read rejected", "error_kind", ErrorKind(ErrUnauthorized))
		return nil, ErrUnauthorized
	}

	vErr := &ValidationError{}
	if params.UserID == "" {
		vErr.add("userId", "user id is required")
	}
	for i, input := range params.Notifications {
		switch persistence.NotificationType(input.Type) {
		case persistence.NotificationDeadlineAlert, persistence.NotificationMeetingReminder, persistence.NotificationAuctionCleared:
		default:
			vErr.add(fmt.Sprintf("notifications[%d].type", i), "unknown notification type")
		}
		if input.Message == "" {
			vErr.add(fmt.Sprintf("notifications[%d].message", i), "message is required")
		}
	}
	if vErr.HasErrors() {
		logger.Warn("push rejected", "error_kind", "validation")
		return nil, vErr
	}

	var inbox []persistence.Notification
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, repos persistence.Repositories) error {
		if len(params.Notifications) > 0 {
			create := make([]persistence.NewNotification, 0, len(params.Notifications))
			for _, input := range params.Notifications {
				create = append(create, persistence.NewNotification{
					UserID:      params.UserID,
					Type:        persistence.NotificationType(input.Type),
					ReferenceID: input.ReferenceID,
					Message:     input.Message,
				})
			}
			if _, err := repos.Notifications.CreateMany(ctx, create); err != nil {
				return err
			}
		}

		if len(params.MarkReadIDs) > 0 {
			if _, err := repos.Notifications.MarkRead(ctx, params.UserID, params.MarkReadIDs); err != nil {
				return err
			}
		}

		var err error
		inbox, err = repos.Notifications.ListByUserID(ctx, params.UserID)
		return err
	})
	if err != nil {
		logger.Warn("push or read failed", "error_kind", ErrorKind(err))
		return nil, err
	}

	return notificationsFromPersistence(inbox), nil
}
