package testutil

import (
	"testing"
	"time"

	"instawinx/internal/models"

	"gorm.io/gorm"
)

// CreateUser inserts a user with a placeholder password hash.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username:   username,
		Password:   "$2a$10$placeholderplaceholderplaceholderplaceholderplacehold",
		FairyType:  models.FairyTypes[0],
		ProfilePic: models.DefaultProfilePic,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

// CreatePost inserts a post by userID stamped at postTime.
func CreatePost(t *testing.T, db *gorm.DB, userID uint, postTime time.Time) *models.Post {
	t.Helper()
	p := &models.Post{
		UserID:   userID,
		Image:    "fixture.jpg",
		Caption:  "fixture",
		PostTime: postTime,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return p
}

// Befriend inserts a friendship record from requester to recipient with status.
func Befriend(t *testing.T, db *gorm.DB, requester, recipient uint, status models.FriendshipStatus) *models.Friendship {
	t.Helper()
	f := &models.Friendship{User1ID: requester, User2ID: recipient, Status: status}
	if err := db.Create(f).Error; err != nil {
		t.Fatalf("create friendship: %v", err)
	}
	return f
}
