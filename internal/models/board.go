package models

import (
	"time"

	"gorm.io/gorm"
)

// Board represents a named collection of pins owned by one user. Pin
// membership lives on Pin.BoardID; followers and collaborators are join
// tables so membership is a real set.
type Board struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:120;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	CoverImage  string `json:"cover_image"`
	OwnerID     uint   `gorm:"not null;index" json:"owner_id"`
	Owner       User   `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Category    string `gorm:"size:40;index" json:"category"`
	IsPrivate   bool   `gorm:"default:false;index" json:"is_private"`

	// PinsCount and FollowersCount are computed at query time.
	PinsCount      int `gorm:"->" json:"pins_count"`
	FollowersCount int `gorm:"->" json:"followers_count"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Pins []Pin `gorm:"foreignKey:BoardID" json:"pins,omitempty"`
}

// BoardFollower marks that a user follows a board. The pair is unique.
type BoardFollower struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_board_follower" json:"user_id"`
	BoardID   uint      `gorm:"not null;uniqueIndex:idx_board_follower;index" json:"board_id"`
	CreatedAt time.Time `json:"created_at"`
}

// BoardCollaborator marks that a user may add pins to a board they do not
// own. The pair is unique.
type BoardCollaborator struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_board_collaborator" json:"user_id"`
	BoardID   uint      `gorm:"not null;uniqueIndex:idx_board_collaborator;index" json:"board_id"`
	CreatedAt time.Time `json:"created_at"`
}
