// Package models contains data structures for the application's domain models.
package models

import "time"

// DefaultProfilePic is assigned to every user at registration.
const DefaultProfilePic = "default_profile.png"

// User represents a registered fairy.
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Username   string    `gorm:"uniqueIndex;not null;size:30" json:"username"`
	Password   string    `gorm:"not null" json:"-"`
	FairyType  string    `gorm:"size:64" json:"fairy_type"`
	ProfilePic string    `gorm:"not null;default:'default_profile.png'" json:"profile_pic"`
	Bio        string    `json:"bio"`
	CreatedAt  time.Time `json:"created_at"`
	Posts      []Post    `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}

// UserSummary is the public identity shown next to posts, comments and suggestions.
type UserSummary struct {
	ID         uint   `json:"id"`
	Username   string `json:"username"`
	ProfilePic string `json:"profile_pic"`
	FairyType  string `json:"fairy_type"`
}

// Summary returns the public identity of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:         u.ID,
		Username:   u.Username,
		ProfilePic: u.ProfilePic,
		FairyType:  u.FairyType,
	}
}
