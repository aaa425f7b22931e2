// Package models contains data structures for the application's domain models.
package models

import "time"

// User is the read-only identity record owned by the external identity
// service. The engagement core never writes to it.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Username    string    `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Nickname    string    `gorm:"size:100" json:"nickname,omitempty"`
	Slogan      string    `gorm:"size:255" json:"slogan,omitempty"`
	AboutMe     string    `gorm:"type:text" json:"about_me,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	SocialLinks string    `gorm:"type:text" json:"social_links,omitempty"`
	Location    string    `gorm:"size:100" json:"location,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DisplayName returns the nickname when set, otherwise the username.
func (u *User) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.Username
}

// UserSummary is the compact author/actor view embedded in other payloads.
type UserSummary struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Nickname  string `json:"nickname,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}
