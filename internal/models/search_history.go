package models

import "time"

// SearchHistory records one distinct query per user. Repeating a query
// refreshes CreatedAt instead of adding a row.
type SearchHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_search_user_query" json:"user_id"`
	Query     string    `gorm:"size:255;not null;uniqueIndex:idx_search_user_query" json:"query"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// TableName pins the table name used by raw upserts.
func (SearchHistory) TableName() string {
	return "search_histories"
}
