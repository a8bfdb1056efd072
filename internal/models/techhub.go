package models

import "time"

// TechHub is a topical container for posts. SubscriberCount mirrors the
// number of hub subscriptions pointing at it.
type TechHub struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"uniqueIndex;not null;size:80" json:"name"`
	Slug            string    `gorm:"uniqueIndex;not null;size:100" json:"slug"`
	Description     string    `gorm:"type:text;not null" json:"description"`
	Image           string    `json:"image"`
	SubscriberCount int       `gorm:"not null;default:0" json:"subscriberCount"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
