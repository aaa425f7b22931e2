package models

import (
	"time"
	"unicode/utf8"
)

// TitleRuneLimit is the number of characters kept when a title is derived
// from post content.
const TitleRuneLimit = 50

// Post represents a published or draft entry authored by a user.
type Post struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	AuthorID  uint   `gorm:"not null;index" json:"author_id"`
	Author    User   `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Title     string `gorm:"size:255;not null" json:"title"`
	Excerpt   string `gorm:"size:500" json:"excerpt,omitempty"`
	Content   string `gorm:"type:text;not null" json:"content"`
	Slug      string `gorm:"uniqueIndex;size:191;not null" json:"slug"`
	Published bool   `gorm:"not null;default:false;index" json:"published"`
	// LikeCount is denormalized and always equals the number of Like rows
	// for the post once a transaction commits.
	LikeCount int `gorm:"not null;default:0;check:chk_posts_like_count,like_count >= 0" json:"like_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->;-:migration" json:"comments_count"`
	// Liked indicates whether the current viewer liked this post (computed)
	Liked     bool      `gorm:"->;-:migration" json:"liked"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeriveTitle builds a title from the first TitleRuneLimit characters of
// content, appending "..." when content was truncated.
func DeriveTitle(content string) string {
	if utf8.RuneCountInString(content) <= TitleRuneLimit {
		return content
	}
	runes := []rune(content)
	return string(runes[:TitleRuneLimit]) + "..."
}
