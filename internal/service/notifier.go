package service

import (
	"context"
	"fmt"

	"auroric/internal/middleware"
	"auroric/internal/models"
	"auroric/internal/repository"
)

// Notifier emits notifications for user interactions. Emission is
// best-effort: a failed insert is logged and counted but never fails
// the interaction that triggered it.
type Notifier struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
}

// NewNotifier returns a Notifier backed by the given repositories.
func NewNotifier(notifications repository.NotificationRepository, users repository.UserRepository) *Notifier {
	return &Notifier{notifications: notifications, users: users}
}

// actorName resolves the display name used in notification messages,
// falling back to the username and then to "Someone".
func (n *Notifier) actorName(ctx context.Context, userID uint) string {
	user, err := n.users.GetByID(ctx, userID)
	if err != nil || user == nil {
		return "Someone"
	}
	if user.DisplayName != "" {
		return user.DisplayName
	}
	if user.Username != "" {
		return user.Username
	}
	return "Someone"
}

// Emit records a notification from one user to another. Self-directed
// notifications are silently dropped.
func (n *Notifier) Emit(ctx context.Context, typ models.NotificationType, fromUserID, toUserID uint, pinID, boardID *uint) {
	if fromUserID == toUserID {
		return
	}

	actor := n.actorName(ctx, fromUserID)
	var message string
	switch typ {
	case models.NotificationTypeLike:
		message = fmt.Sprintf("%s liked your pin", actor)
	case models.NotificationTypeComment:
		message = fmt.Sprintf("%s commented on your pin", actor)
	case models.NotificationTypeFollow:
		message = fmt.Sprintf("%s started following you", actor)
	case models.NotificationTypeSave:
		message = fmt.Sprintf("%s saved your pin", actor)
	case models.NotificationTypeBoardInvite:
		message = fmt.Sprintf("%s invited you to collaborate on a board", actor)
	default:
		message = fmt.Sprintf("%s interacted with your content", actor)
	}

	notification := &models.Notification{
		Type:       typ,
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		PinID:      pinID,
		BoardID:    boardID,
		Message:    message,
	}
	if err := n.notifications.Create(ctx, notification); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to emit notification",
			"type", string(typ), "from", fromUserID, "to", toUserID, "error", err)
		return
	}
	middleware.NotificationsEmitted.WithLabelValues(string(typ)).Inc()
}
