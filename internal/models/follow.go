package models

import "time"

// Follow is a directed edge from FollowerID to FollowingID.
type Follow struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FollowerID  uint      `gorm:"not null;uniqueIndex:idx_follows_pair;check:chk_follows_not_self,follower_id <> following_id" json:"follower_id"`
	FollowingID uint      `gorm:"not null;uniqueIndex:idx_follows_pair;index" json:"following_id"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`

	Follower  *User `gorm:"foreignKey:FollowerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"follower,omitempty"`
	Following *User `gorm:"foreignKey:FollowingID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"following,omitempty"`
}
