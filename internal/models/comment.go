package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment is a top-level comment (ParentCommentID nil) or a reply to one.
// The tree never goes deeper than one level.
type Comment struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Content         string         `gorm:"type:text;not null" json:"content"`
	PostID          uint           `gorm:"not null;index" json:"postId"`
	AuthorID        uint           `gorm:"not null;index" json:"authorId"`
	Author          *User          `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	ParentCommentID *uint          `gorm:"index" json:"parentCommentId"`
	ClapsCount      int            `gorm:"not null;default:0" json:"clapsCount"`
	RepliesCount    int            `gorm:"not null;default:0" json:"repliesCount"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsReply reports whether the comment hangs under another comment.
func (c *Comment) IsReply() bool {
	return c.ParentCommentID != nil
}

// CommentClap is one user's clap on one comment.
type CommentClap struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CommentID uint      `gorm:"not null;uniqueIndex:idx_comment_claps_comment_user" json:"commentId"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_comment_claps_comment_user;index" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
