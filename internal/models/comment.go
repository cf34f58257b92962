package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment on a pin. Comments are append-only apart
// from explicit deletion by the comment author or the pin author.
type Comment struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Text     string `gorm:"type:text;not null" json:"text"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Author   User   `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	PinID    uint   `gorm:"not null;index" json:"pin_id"`

	// LikesCount and Liked are computed at query time.
	LikesCount int  `gorm:"->" json:"likes_count"`
	Liked      bool `gorm:"->" json:"liked"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// CommentLike marks that a user liked a comment. The pair is unique.
type CommentLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_comment_like" json:"user_id"`
	CommentID uint      `gorm:"not null;uniqueIndex:idx_comment_like;index" json:"comment_id"`
	CreatedAt time.Time `json:"created_at"`
}
