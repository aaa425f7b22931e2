package repository

import (
	"context"

	"inkspace/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository stores directed follow edges.
type FollowRepository interface {
	Exists(ctx context.Context, followerID, followingID uint) (bool, error)
	Insert(ctx context.Context, followerID, followingID uint) (inserted bool, err error)
	Delete(ctx context.Context, followerID, followingID uint) (int64, error)
	ListFollowing(ctx context.Context, userID uint) ([]models.User, error)
	ListFollowers(ctx context.Context, userID uint) ([]models.User, error)
	CountFollowers(ctx context.Context, userID uint) (int64, error)
	CountFollowing(ctx context.Context, userID uint) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new FollowRepository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Exists(ctx context.Context, followerID, followingID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *followRepository) Insert(ctx context.Context, followerID, followingID uint) (bool, error) {
	follow := &models.Follow{FollowerID: followerID, FollowingID: followingID}
	result := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "follower_id"}, {Name: "following_id"}},
			DoNothing: true,
		}).
		Create(follow)
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *followRepository) Delete(ctx context.Context, followerID, followingID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	return result.RowsAffected, nil
}

// ListFollowing returns the users userID follows, most recent first.
func (r *followRepository) ListFollowing(ctx context.Context, userID uint) ([]models.User, error) {
	return r.listEdges(ctx, "follows.following_id", "follows.follower_id", userID)
}

// ListFollowers returns the users following userID, most recent first.
func (r *followRepository) ListFollowers(ctx context.Context, userID uint) ([]models.User, error) {
	return r.listEdges(ctx, "follows.follower_id", "follows.following_id", userID)
}

func (r *followRepository) listEdges(ctx context.Context, joinCol, matchCol string, userID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN follows ON users.id = "+joinCol).
		Where(matchCol+" = ? AND users.id <> ?", userID, userID).
		Order("follows.created_at DESC").
		Order("follows.id DESC").
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	return r.count(ctx, "following_id = ?", userID)
}

func (r *followRepository) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	return r.count(ctx, "follower_id = ?", userID)
}

func (r *followRepository) count(ctx context.Context, where string, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Follow{}).Where(where, userID).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
