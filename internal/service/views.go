package service

import (
	"fmt"
	"log/slog"
	"time"

	"inkspace/internal/middleware"
	"inkspace/internal/models"

	"github.com/jinzhu/copier"
)

// FeedItem is a post as shown in feeds and on the blog.
type FeedItem struct {
	ID            uint                `json:"id"`
	Title         string              `json:"title"`
	Excerpt       string              `json:"excerpt,omitempty"`
	Content       string              `json:"content"`
	Slug          string              `json:"slug"`
	Published     bool                `json:"published"`
	LikeCount     int                 `json:"like_count"`
	CommentsCount int                 `json:"comments_count"`
	Liked         bool                `json:"liked"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	Author        *models.UserSummary `json:"author,omitempty" copier:"-"`
}

// NotificationView is a notification with its actor and targets resolved.
type NotificationView struct {
	ID        uint                    `json:"id"`
	Type      models.NotificationType `json:"type"`
	IsRead    bool                    `json:"is_read"`
	CreatedAt time.Time               `json:"created_at"`
	Actor     *models.UserSummary     `json:"actor,omitempty" copier:"-"`
	Post      *PostRef                `json:"post,omitempty" copier:"-"`
	Comment   *CommentRef             `json:"comment,omitempty" copier:"-"`
}

// PostRef identifies the post a notification points at.
type PostRef struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// CommentRef identifies the comment a notification points at.
type CommentRef struct {
	ID      uint   `json:"id"`
	Content string `json:"content"`
}

// NotificationList is the recipient's recent notifications plus the
// unread count over the same window.
type NotificationList struct {
	Items       []NotificationView `json:"items"`
	UnreadCount int64              `json:"unread_count"`
}

// ProfileStats aggregates a user's engagement totals.
type ProfileStats struct {
	PostCount      int64 `json:"post_count"`
	LikeTotal      int64 `json:"like_total"`
	FollowerCount  int64 `json:"follower_count"`
	FollowingCount int64 `json:"following_count"`
}

// Profile is the public view of a user's space.
type Profile struct {
	User        models.User  `json:"user"`
	Stats       ProfileStats `json:"stats"`
	IsFollowing bool         `json:"is_following"`
	IsSelf      bool         `json:"is_self"`
}

// LikeResult reports the state after a like toggle.
type LikeResult struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}

// FollowResult reports the state after a follow toggle.
type FollowResult struct {
	Following bool `json:"following"`
}

// copyView fills dst from src and logs when the mapping fails. The view keeps
// whatever fields were copied before the failure.
func copyView(dst, src any) bool {
	if err := copier.Copy(dst, src); err != nil {
		middleware.Logger.Warn("failed to build response view",
			slog.String("view", fmt.Sprintf("%T", dst)),
			slog.String("error", err.Error()),
		)
		return false
	}
	return true
}

func summarize(u *models.User) *models.UserSummary {
	if u == nil || u.ID == 0 {
		return nil
	}
	var s models.UserSummary
	copyView(&s, u)
	return &s
}

func summarizeAll(users []models.User) []models.UserSummary {
	out := make([]models.UserSummary, 0, len(users))
	copyView(&out, &users)
	return out
}

func toFeedItem(p *models.Post) FeedItem {
	var item FeedItem
	copyView(&item, p)
	item.Author = summarize(&p.Author)
	return item
}

func toFeedItems(posts []*models.Post) []FeedItem {
	out := make([]FeedItem, 0, len(posts))
	for _, p := range posts {
		out = append(out, toFeedItem(p))
	}
	return out
}

func toNotificationView(n *models.Notification) NotificationView {
	var v NotificationView
	copyView(&v, n)
	v.Actor = summarize(n.Actor)
	if n.Post != nil {
		v.Post = &PostRef{ID: n.Post.ID, Title: n.Post.Title, Slug: n.Post.Slug}
	}
	if n.Comment != nil {
		v.Comment = &CommentRef{ID: n.Comment.ID, Content: n.Comment.Content}
	}
	return v
}
