package models

import "time"

// GuestNickname is used for anonymous comments that did not supply a name.
const GuestNickname = "Guest"

// Comment is a reply on a post by either a registered user or a guest.
// A registered author is identified by AuthorID, a guest only by Nickname.
type Comment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PostID     uint      `gorm:"not null;index" json:"post_id"`
	Post       *Post     `gorm:"foreignKey:PostID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"post,omitempty"`
	AuthorID   *uint     `gorm:"index" json:"author_id,omitempty"`
	User       *User     `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`
	Nickname   string    `gorm:"size:100;not null" json:"nickname"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	IsApproved bool      `gorm:"not null;default:false" json:"is_approved"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// CommentAuthor identifies who wrote a comment: exactly one of a registered
// user id or a guest display name.
type CommentAuthor struct {
	userID    uint
	guestName string
}

// RegisteredAuthor returns the author variant for an authenticated user.
func RegisteredAuthor(userID uint) CommentAuthor {
	return CommentAuthor{userID: userID}
}

// GuestAuthor returns the author variant for an anonymous commenter.
func GuestAuthor(name string) CommentAuthor {
	return CommentAuthor{guestName: name}
}

// IsGuest reports whether the author is anonymous.
func (a CommentAuthor) IsGuest() bool { return a.userID == 0 }

// UserID returns the registered author id, or 0 for guests.
func (a CommentAuthor) UserID() uint { return a.userID }

// GuestName returns the guest display name, or "" for registered authors.
func (a CommentAuthor) GuestName() string { return a.guestName }

// Matches reports whether caller authored a comment written by a.
// Registered authors match by id; guest authors match the caller's
// display name.
func (a CommentAuthor) Matches(caller *User) bool {
	if caller == nil {
		return false
	}
	if !a.IsGuest() {
		return a.userID == caller.ID
	}
	return a.guestName != "" && a.guestName == caller.DisplayName()
}

// Author returns the tagged author of the comment.
func (c *Comment) Author() CommentAuthor {
	if c.AuthorID != nil && *c.AuthorID != 0 {
		return RegisteredAuthor(*c.AuthorID)
	}
	return GuestAuthor(c.Nickname)
}

// SetAuthor stores the author variant on the comment.
func (c *Comment) SetAuthor(a CommentAuthor) {
	if a.IsGuest() {
		c.AuthorID = nil
		c.Nickname = a.guestName
		return
	}
	id := a.userID
	c.AuthorID = &id
}
