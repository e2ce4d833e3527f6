package models

import "time"

// Comment is an append-only remark on a post.
type Comment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PostID      uint      `gorm:"not null;index" json:"post_id"`
	UserID      uint      `gorm:"not null" json:"user_id"`
	Text        string    `gorm:"column:comment;not null" json:"comment"`
	CommentTime time.Time `gorm:"column:comment_time;autoCreateTime" json:"comment_time"`

	Post Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// CommentView is a comment joined with the commenter's identity.
type CommentView struct {
	ID          uint      `json:"id"`
	PostID      uint      `json:"post_id"`
	UserID      uint      `json:"user_id"`
	Comment     string    `json:"comment"`
	CommentTime time.Time `json:"comment_time"`
	Username    string    `json:"username"`
	ProfilePic  string    `json:"profile_pic"`
}

// View flattens the comment and its preloaded author.
func (c *Comment) View() CommentView {
	return CommentView{
		ID:          c.ID,
		PostID:      c.PostID,
		UserID:      c.UserID,
		Comment:     c.Text,
		CommentTime: c.CommentTime,
		Username:    c.User.Username,
		ProfilePic:  c.User.ProfilePic,
	}
}
