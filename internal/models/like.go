package models

import "time"

// LikeType is the variant of a Like row.
type LikeType string

const (
	LikeTypeLike    LikeType = "like"
	LikeTypeDislike LikeType = "dislike"
)

// Valid reports whether t is like or dislike.
func (t LikeType) Valid() bool {
	return t == LikeTypeLike || t == LikeTypeDislike
}

// CounterColumn names the posts column that tallies this variant.
func (t LikeType) CounterColumn() string {
	if t == LikeTypeDislike {
		return "dislikes_count"
	}
	return "likes_count"
}

// Like represents a user's reaction on a post.
// The combination of PostID and UserID must be unique.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_likes_post_user" json:"postId"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_likes_post_user;index" json:"userId"`
	Type      LikeType  `gorm:"size:16;not null" json:"type"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Bookmark marks a post as saved by a user.
type Bookmark struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_bookmarks_user_post" json:"userId"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_bookmarks_user_post;index" json:"postId"`
	Post      *Post     `gorm:"foreignKey:PostID" json:"post,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

// ToggleOutcome is the transition a toggle performed.
type ToggleOutcome string

const (
	ToggleAdded    ToggleOutcome = "added"
	ToggleRemoved  ToggleOutcome = "removed"
	ToggleSwitched ToggleOutcome = "switched"
)

// Active reports whether the toggle left a row in place.
func (o ToggleOutcome) Active() bool {
	return o == ToggleAdded || o == ToggleSwitched
}
