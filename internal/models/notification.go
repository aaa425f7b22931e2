package models

import "time"

// NotificationType enumerates the events that produce a notification.
type NotificationType string

const (
	NotificationComment NotificationType = "COMMENT"
	NotificationFollow  NotificationType = "FOLLOW"
	// NotificationLike is reserved; likes do not notify.
	NotificationLike NotificationType = "LIKE"
)

// Notification informs UserID that ActorID did something.
type Notification struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	UserID    uint             `gorm:"not null;index:idx_notifications_user_created,priority:1" json:"user_id"`
	ActorID   uint             `gorm:"not null" json:"actor_id"`
	Type      NotificationType `gorm:"size:20;not null" json:"type"`
	PostID    *uint            `json:"post_id,omitempty"`
	CommentID *uint            `json:"comment_id,omitempty"`
	IsRead    bool             `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time        `gorm:"index;index:idx_notifications_user_created,priority:2" json:"created_at"`

	User    *User    `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Actor   *User    `gorm:"foreignKey:ActorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"actor,omitempty"`
	Post    *Post    `gorm:"foreignKey:PostID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"post,omitempty"`
	Comment *Comment `gorm:"foreignKey:CommentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"comment,omitempty"`
}
