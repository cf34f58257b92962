package service

import (
	"context"

	"auroric/internal/models"
	"auroric/internal/repository"
)

// NotificationService implements the recipient-facing notification feed.
type NotificationService struct {
	notifications repository.NotificationRepository
}

// NewNotificationService returns a NotificationService backed by the
// given repository.
func NewNotificationService(notifications repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// List returns the caller's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID uint, page, limit int) (models.Page[models.Notification], error) {
	return s.notifications.ByRecipient(ctx, userID, page, limit)
}

// UnreadCount returns how many of the caller's notifications are unread.
func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.notifications.UnreadCount(ctx, userID)
}

// MarkRead marks a single notification read. Only the recipient may do so.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID uint) error {
	n, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n.ToUserID != userID {
		return models.NewForbiddenError("not your notification")
	}
	return s.notifications.MarkRead(ctx, id)
}

// MarkAllRead marks every unread notification for the caller and
// returns how many changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	return s.notifications.MarkAllRead(ctx, userID)
}
