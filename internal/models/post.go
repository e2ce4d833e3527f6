package models

import "time"

// Post is an image shared by a user.
type Post struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"not null;index" json:"user_id"`
	User     User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
	Image    string    `gorm:"not null" json:"image"`
	Caption  string    `json:"caption"`
	PostTime time.Time `gorm:"column:post_time;autoCreateTime;index" json:"post_time"`

	// LikesCount is computed at query time
	LikesCount int `gorm:"->;-:migration" json:"likes_count"`
	// UserLiked reports whether the viewing user liked the post (computed)
	UserLiked bool      `gorm:"->;-:migration" json:"user_liked"`
	Comments  []Comment `gorm:"foreignKey:PostID" json:"comments"`
}
