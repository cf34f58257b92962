package repository

import (
	"context"
	"errors"

	"auroric/internal/models"

	"gorm.io/gorm"
)

// NotificationRepository defines persistence operations for notifications.
type NotificationRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Notification, error)
	Create(ctx context.Context, n *models.Notification) error
	ByRecipient(ctx context.Context, userID uint, page, limit int) (models.Page[models.Notification], error)
	UnreadCount(ctx context.Context, userID uint) (int64, error)
	MarkRead(ctx context.Context, id uint) error
	MarkAllRead(ctx context.Context, userID uint) (int64, error)
	DeleteByPin(ctx context.Context, pinID uint) error
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository returns a new NotificationRepository implementation.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	var n models.Notification
	if err := r.db.WithContext(ctx).First(&n, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Notification", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &n, nil
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *notificationRepository) ByRecipient(ctx context.Context, userID uint, page, limit int) (models.Page[models.Notification], error) {
	var zero models.Page[models.Notification]
	page, limit, offset := normalizePage(page, limit)

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("to_user_id = ?", userID).
		Count(&total).Error; err != nil {
		return zero, models.NewInternalError(err)
	}

	var notifications []models.Notification
	if err := r.db.WithContext(ctx).
		Where("to_user_id = ?", userID).
		Preload("FromUser").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error; err != nil {
		return zero, models.NewInternalError(err)
	}
	return models.NewPage(notifications, total, page, limit), nil
}

func (r *notificationRepository) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("to_user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ?", id).
		Update("read", true).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// MarkAllRead marks every unread notification for a user and returns
// how many rows changed.
func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("to_user_id = ? AND read = ?", userID, false).
		Update("read", true)
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteByPin removes notifications that reference a pin, used by the
// pin delete cascade.
func (r *notificationRepository) DeleteByPin(ctx context.Context, pinID uint) error {
	if err := r.db.WithContext(ctx).Where("pin_id = ?", pinID).Delete(&models.Notification{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
