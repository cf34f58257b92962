package models

import "time"

// NotificationType enumerates the interactions that produce notifications.
type NotificationType string

const (
	NotificationTypeLike        NotificationType = "like"
	NotificationTypeComment     NotificationType = "comment"
	NotificationTypeFollow      NotificationType = "follow"
	NotificationTypeSave        NotificationType = "save"
	NotificationTypeBoardInvite NotificationType = "board_invite"
)

// Notification is an append-only record of an interaction directed at a
// specific user. Marking read is the only permitted mutation.
type Notification struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	Type       NotificationType `gorm:"size:20;not null;index" json:"type"`
	FromUserID uint             `gorm:"not null" json:"from_user_id"`
	FromUser   *User            `gorm:"foreignKey:FromUserID" json:"from_user,omitempty"`
	ToUserID   uint             `gorm:"not null;index" json:"to_user_id"`
	PinID      *uint            `gorm:"index" json:"pin_id,omitempty"`
	BoardID    *uint            `json:"board_id,omitempty"`
	Message    string           `gorm:"not null" json:"message"`
	Read       bool             `gorm:"default:false;index" json:"read"`
	CreatedAt  time.Time        `json:"created_at"`
}
