package repository

import (
	"context"
	"time"

	"inkspace/internal/models"
	"inkspace/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotificationRepository persists per-recipient notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	// ListRecent returns up to limit notifications for userID created at or
	// after since, newest first, with actor, post and comment loaded.
	ListRecent(ctx context.Context, userID uint, since time.Time, limit int) ([]*models.Notification, error)
	CountUnread(ctx context.Context, userID uint, since time.Time) (int64, error)
	MarkAllRead(ctx context.Context, userID uint) (int64, error)
	DeleteAll(ctx context.Context, userID uint) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(n).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *notificationRepository) ListRecent(ctx context.Context, userID uint, since time.Time, limit int) ([]*models.Notification, error) {
	ctx, span := observability.StartRepositorySpan(ctx, "ListRecent", "notifications")
	var items []*models.Notification
	err := r.db.WithContext(ctx).
		Preload("Actor").
		Preload("Post", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "author_id", "title", "slug")
		}).
		Preload("Comment", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "post_id", "content")
		}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		span.End(err)
		return nil, models.NewInternalError(err)
	}
	span.AddAttributes(attribute.Int("db.rows", len(items)))
	span.End(nil)
	return items, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID uint, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ? AND created_at >= ?", userID, false, since).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	return result.RowsAffected, nil
}

func (r *notificationRepository) DeleteAll(ctx context.Context, userID uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Notification{})
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	return result.RowsAffected, nil
}

func (r *notificationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.Notification{})
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	return result.RowsAffected, nil
}
