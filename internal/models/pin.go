package models

import (
	"time"

	"gorm.io/gorm"
)

// Categories is the fixed set of pin/board categories. "All" is the
// wildcard used by listing filters, not a real category on content.
var Categories = []string{
	"All",
	"Fashion",
	"Interior Design",
	"Architecture",
	"Art",
	"Food & Beverage",
	"Photography",
	"Travel",
	"DIY & Crafts",
	"Technology",
	"Nature",
	"Fitness",
	"Beauty",
	"Automotive",
	"Music",
	"Books",
}

// IsValidCategory reports whether c is one of the known categories.
func IsValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// Pin represents a single posted content item (image + metadata) owned by
// one user and optionally filed on at most one board.
type Pin struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:300;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	ImageURL    string     `gorm:"not null" json:"image_url"`
	SourceURL   string     `json:"source_url"`
	AuthorID    uint       `gorm:"not null;index" json:"author_id"`
	Author      User       `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	BoardID     *uint      `gorm:"index" json:"board_id,omitempty"`
	Tags        StringList `gorm:"type:text" json:"tags"`
	Category    string     `gorm:"size:40;index" json:"category"`
	IsPrivate   bool       `gorm:"default:false;index" json:"is_private"`

	// Computed at query time; never persisted.
	LikesCount    int  `gorm:"->" json:"likes_count"`
	SavesCount    int  `gorm:"->" json:"saves_count"`
	CommentsCount int  `gorm:"->" json:"comments_count"`
	Liked         bool `gorm:"->" json:"liked"`
	Saved         bool `gorm:"->" json:"saved"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// PinLike marks that a user liked a pin. The pair is unique.
type PinLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_pin_like" json:"user_id"`
	PinID     uint      `gorm:"not null;uniqueIndex:idx_pin_like;index" json:"pin_id"`
	CreatedAt time.Time `json:"created_at"`
}

// PinSave marks that a user saved (bookmarked) a pin. The pair is unique.
type PinSave struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_pin_save;index" json:"user_id"`
	PinID     uint      `gorm:"not null;uniqueIndex:idx_pin_save;index" json:"pin_id"`
	CreatedAt time.Time `json:"created_at"`
}
