package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// PostStatus controls feed visibility.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// Valid reports whether s is a known status.
func (s PostStatus) Valid() bool {
	return s == PostStatusDraft || s == PostStatusPublished
}

// Post is an article. The counters are denormalized views of the likes
// table (LikesCount, DislikesCount) or plain tallies (Views, SharesCount).
type Post struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Title         string         `gorm:"not null;size:300" json:"title"`
	Slug          string         `gorm:"uniqueIndex;not null;size:400" json:"slug"`
	Content       string         `gorm:"type:text;not null" json:"content"`
	Summary       string         `gorm:"size:400" json:"summary"`
	CoverImage    string         `json:"coverImage"`
	AuthorID      uint           `gorm:"not null;index" json:"authorId"`
	Author        *User          `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	TechHubID     uint           `gorm:"not null;index" json:"techHubId"`
	TechHub       *TechHub       `gorm:"foreignKey:TechHubID" json:"techHub,omitempty"`
	Tags          []Tag          `gorm:"many2many:post_tags;" json:"tags"`
	Status        PostStatus     `gorm:"size:16;not null;default:published;index" json:"status"`
	ReadTime      int            `gorm:"not null;default:1" json:"readTime"`
	Views         int            `gorm:"not null;default:0" json:"views"`
	LikesCount    int            `gorm:"not null;default:0" json:"likesCount"`
	DislikesCount int            `gorm:"not null;default:0" json:"dislikesCount"`
	SharesCount   int            `gorm:"not null;default:0" json:"sharesCount"`
	CreatedAt     time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// Tag is a lowercase label shared between posts. It serializes as its name.
type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"-"`
	Name string `gorm:"uniqueIndex;not null;size:64"`
}

// MarshalJSON renders the tag as a bare string.
func (t Tag) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Name)
}

// UnmarshalJSON accepts the bare string form written by MarshalJSON.
func (t *Tag) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &t.Name)
}

// TagNames flattens the post's tags.
func (p *Post) TagNames() []string {
	names := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		names = append(names, t.Name)
	}
	return names
}
