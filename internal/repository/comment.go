package repository

import (
	"context"

	"inkspace/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uint, approvedOnly bool) ([]*models.Comment, error)
	Approve(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// GetByID loads the comment with its post so callers can apply
// moderation rules.
func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("User").Preload("Post").First(&comment, id).Error; err != nil {
		return nil, wrapNotFound(err, "Comment", id)
	}
	return &comment, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID uint, approvedOnly bool) ([]*models.Comment, error) {
	q := r.db.WithContext(ctx).Preload("User").Where("post_id = ?", postID)
	if approvedOnly {
		q = q.Where("is_approved = ?", true)
	}

	var comments []*models.Comment
	if err := q.Order("created_at DESC").Order("id DESC").Find(&comments).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) Approve(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).Update("is_approved", true)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Comment", id)
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Comment", id)
	}
	return nil
}
