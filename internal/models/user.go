// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Theme values accepted for UserSettings.Theme.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// UserSettings is a flat record of per-user preferences, stored as prefixed
// columns on the users table. Updates merge key-by-key, never wholesale.
type UserSettings struct {
	PrivateProfile        bool   `gorm:"default:false" json:"private_profile"`
	ShowActivity          bool   `gorm:"default:true" json:"show_activity"`
	AllowMessages         bool   `gorm:"default:true" json:"allow_messages"`
	AllowNotifications    bool   `gorm:"default:true" json:"allow_notifications"`
	EmailOnNewFollower    bool   `gorm:"default:true" json:"email_on_new_follower"`
	EmailOnPinInteraction bool   `gorm:"default:true" json:"email_on_pin_interaction"`
	Theme                 string `gorm:"size:10;default:'dark'" json:"theme"`
}

// User represents a user account. The password hash never leaves the server:
// it is excluded from JSON and must stay that way.
type User struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Username    string       `gorm:"size:40;unique;not null" json:"username"`
	DisplayName string       `gorm:"size:80;not null" json:"display_name"`
	Email       string       `gorm:"size:255;unique;not null" json:"email"`
	Password    string       `gorm:"not null" json:"-"`
	Bio         string       `json:"bio"`
	Avatar      string       `json:"avatar"`
	Website     string       `json:"website"`
	Settings    UserSettings `gorm:"embedded;embeddedPrefix:settings_" json:"settings"`

	// FollowersCount and FollowingCount are not persisted; computed at query time.
	FollowersCount int `gorm:"->" json:"followers_count"`
	FollowingCount int `gorm:"->" json:"following_count"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Pins []Pin `gorm:"foreignKey:AuthorID" json:"pins,omitempty"`
}

// Follow is a directed edge in the social graph: follower follows followee.
// The pair is unique so toggling can never produce duplicate membership.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follower_followee" json:"follower_id"`
	FolloweeID uint      `gorm:"not null;uniqueIndex:idx_follower_followee;index" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`

	Follower User `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	Followee User `gorm:"foreignKey:FolloweeID" json:"followee,omitempty"`
}
