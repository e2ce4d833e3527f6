package models

import "time"

// FriendshipStatus represents the status of a friendship request.
type FriendshipStatus string

const (
	// FriendshipStatusPending indicates a request waiting for the recipient.
	FriendshipStatusPending FriendshipStatus = "pending"
	// FriendshipStatusAccepted indicates a mutual friendship.
	FriendshipStatusAccepted FriendshipStatus = "accepted"
)

// Friendship links a requester (User1) to a recipient (User2).
// At most one row exists per unordered pair of users.
type Friendship struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	User1ID   uint             `gorm:"column:user1_id;not null;uniqueIndex:idx_friendships_users" json:"user1_id"`
	User2ID   uint             `gorm:"column:user2_id;not null;uniqueIndex:idx_friendships_users;index" json:"user2_id"`
	Status    FriendshipStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`

	User1 User `gorm:"foreignKey:User1ID;constraint:OnDelete:CASCADE" json:"-"`
	User2 User `gorm:"foreignKey:User2ID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (Friendship) TableName() string {
	return "friendships"
}

// Relation values describe a friendship from one user's point of view.
const (
	RelationAccepted        = "accepted"
	RelationRequestSent     = "request_sent"
	RelationRequestReceived = "request_received"
)

// RelationFor maps the stored record to what viewerID sees.
// A nil friendship yields an empty string.
func (f *Friendship) RelationFor(viewerID uint) string {
	if f == nil {
		return ""
	}
	if f.Status == FriendshipStatusPending {
		if f.User1ID == viewerID {
			return RelationRequestSent
		}
		if f.User2ID == viewerID {
			return RelationRequestReceived
		}
	}
	return string(f.Status)
}
