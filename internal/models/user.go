// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Role is the coarse permission level of a user.
type Role string

const (
	RoleReader Role = "reader"
	RoleWriter Role = "writer"
	RoleAdmin  Role = "admin"
)

// DefaultAvatar is assigned to users who never uploaded one.
const DefaultAvatar = "https://res.cloudinary.com/demo/image/upload/v1/avatars/default.png"

// MaxBioLength bounds the profile bio in characters.
const MaxBioLength = 250

// User represents an account on Even. FollowersCount and FollowingCount
// only move through author subscription toggles.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"uniqueIndex;not null;size:30" json:"username"`
	Email          string    `gorm:"uniqueIndex;not null;size:254" json:"email"`
	FullName       string    `gorm:"not null;size:120" json:"fullName"`
	Bio            string    `gorm:"size:250" json:"bio"`
	Avatar         string    `json:"avatar"`
	Role           Role      `gorm:"size:16;not null;default:reader" json:"role"`
	FollowersCount int       `gorm:"not null;default:0" json:"followersCount"`
	FollowingCount int       `gorm:"not null;default:0" json:"followingCount"`
	Password       string    `gorm:"not null" json:"-"`
	RefreshToken   string    `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
