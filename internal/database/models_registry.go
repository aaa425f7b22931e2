package database

import (
	"context"
	"fmt"

	"inkspace/internal/models"

	"gorm.io/gorm"
)

// PersistentModels returns the authoritative set of schema-managed GORM models
// in dependency order.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Follow{},
		&models.Notification{},
		&models.SearchHistory{},
	}
}

// TableStat is the row count of one schema-managed table.
type TableStat struct {
	Table  string
	Exists bool
	Rows   int64
}

// TableStats reports presence and row counts for every persistent model.
func TableStats(ctx context.Context, db *gorm.DB) ([]TableStat, error) {
	db = db.WithContext(ctx)
	stats := make([]TableStat, 0, len(PersistentModels()))
	for _, m := range PersistentModels() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(m); err != nil {
			return nil, fmt.Errorf("parse model %T: %w", m, err)
		}
		st := TableStat{Table: stmt.Schema.Table, Exists: db.Migrator().HasTable(m)}
		if st.Exists {
			if err := db.Model(m).Count(&st.Rows).Error; err != nil {
				return nil, fmt.Errorf("count %s: %w", st.Table, err)
			}
		}
		stats = append(stats, st)
	}
	return stats, nil
}

// LikeCounterDrift counts posts whose like_count differs from their like rows.
// A healthy database always reports zero.
func LikeCounterDrift(ctx context.Context, db *gorm.DB) (int64, error) {
	var drift int64
	err := db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM posts
		WHERE posts.like_count <> (SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id)
	`).Scan(&drift).Error
	if err != nil {
		return 0, fmt.Errorf("check like counters: %w", err)
	}
	return drift, nil
}
