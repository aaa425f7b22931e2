package repository

import (
	"context"
	"time"

	"inkspace/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SearchHistoryRepository stores each user's distinct recent queries.
type SearchHistoryRepository interface {
	// Upsert records query for userID, refreshing created_at to at when the
	// pair already exists.
	Upsert(ctx context.Context, userID uint, query string, at time.Time) error
	ListRecent(ctx context.Context, userID uint, since time.Time, limit int) ([]*models.SearchHistory, error)
	DeleteOwned(ctx context.Context, id, userID uint) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type searchHistoryRepository struct {
	db *gorm.DB
}

// NewSearchHistoryRepository creates a new SearchHistoryRepository
func NewSearchHistoryRepository(db *gorm.DB) SearchHistoryRepository {
	return &searchHistoryRepository{db: db}
}

func (r *searchHistoryRepository) Upsert(ctx context.Context, userID uint, query string, at time.Time) error {
	entry := &models.SearchHistory{UserID: userID, Query: query, CreatedAt: at}
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "query"}},
			DoUpdates: clause.AssignmentColumns([]string{"created_at"}),
		}).
		Create(entry).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *searchHistoryRepository) ListRecent(ctx context.Context, userID uint, since time.Time, limit int) ([]*models.SearchHistory, error) {
	var items []*models.SearchHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return items, nil
}

// DeleteOwned removes entry id only when it belongs to userID, in a single
// statement.
func (r *searchHistoryRepository) DeleteOwned(ctx context.Context, id, userID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.SearchHistory{})
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	return result.RowsAffected, nil
}

func (r *searchHistoryRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.SearchHistory{})
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	return result.RowsAffected, nil
}
