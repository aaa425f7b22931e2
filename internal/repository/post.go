package repository

import (
	"context"

	"inkspace/internal/models"
	"inkspace/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostFilter narrows List results.
type PostFilter struct {
	AuthorID      uint
	PublishedOnly bool
	Limit         int
	Offset        int
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	// GetByIDForUpdate reads the post and holds a row lock until the
	// surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string, viewerID uint) (*models.Post, error)
	List(ctx context.Context, filter PostFilter, viewerID uint) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	DeleteOwned(ctx context.Context, authorID uint, ids []uint) (int64, error)
	AdjustLikeCount(ctx context.Context, id uint, delta int) (int64, error)
	GetLikeCount(ctx context.Context, id uint) (int, error)
	CountByAuthor(ctx context.Context, authorID uint) (int64, error)
	SumLikesByAuthor(ctx context.Context, authorID uint) (int64, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		if IsUniqueViolation(err) {
			return models.NewConflictError("slug already in use", err)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Preload("Author").First(&post, id).Error; err != nil {
		return nil, wrapNotFound(err, "Post", id)
	}
	return &post, nil
}

func (r *postRepository) GetByIDForUpdate(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&post, id).Error
	if err != nil {
		return nil, wrapNotFound(err, "Post", id)
	}
	return &post, nil
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string, viewerID uint) (*models.Post, error) {
	var post models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), viewerID).
		Preload("Author").
		Where("posts.slug = ?", slug).
		First(&post).Error
	if err != nil {
		return nil, wrapNotFound(err, "Post", slug)
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, filter PostFilter, viewerID uint) ([]*models.Post, error) {
	ctx, span := observability.StartRepositorySpan(ctx, "List", "posts")
	q := r.applyPostDetails(r.db.WithContext(ctx), viewerID).Preload("Author")
	if filter.AuthorID != 0 {
		q = q.Where("posts.author_id = ?", filter.AuthorID)
	}
	if filter.PublishedOnly {
		q = q.Where("posts.published = ?", true)
	}

	var posts []*models.Post
	err := q.Order("posts.created_at DESC").
		Order("posts.id DESC").
		Limit(normalizeLimit(filter.Limit, 20, 100)).
		Offset(filter.Offset).
		Find(&posts).Error
	if err != nil {
		span.End(err)
		return nil, models.NewInternalError(err)
	}
	span.AddAttributes(attribute.Int("db.rows", len(posts)))
	span.End(nil)
	return posts, nil
}

// applyPostDetails adds subqueries to fetch the comment count and the
// viewer's like state in a single query.
func (r *postRepository) applyPostDetails(db *gorm.DB, viewerID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comments_count"

	if viewerID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) AS liked", viewerID)
	}
	return db.Select(selectQuery + ", false AS liked")
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).
		Model(post).
		Select("title", "excerpt", "content", "published", "updated_at").
		Updates(post).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}

func (r *postRepository) DeleteOwned(ctx context.Context, authorID uint, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Where("id IN ? AND author_id = ?", ids, authorID).
		Delete(&models.Post{})
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	return result.RowsAffected, nil
}

// AdjustLikeCount adds delta to like_count. Decrements never take the
// counter below zero; the returned row count is 0 when the guard blocked
// the update or the post is gone.
func (r *postRepository) AdjustLikeCount(ctx context.Context, id uint, delta int) (int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id)
	if delta < 0 {
		q = q.Where("like_count >= ?", -delta)
	}
	result := q.UpdateColumn("like_count", gorm.Expr("like_count + ?", delta))
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	return result.RowsAffected, nil
}

func (r *postRepository) GetLikeCount(ctx context.Context, id uint) (int, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Select("like_count").First(&post, id).Error; err != nil {
		return 0, wrapNotFound(err, "Post", id)
	}
	return post.LikeCount, nil
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("author_id = ?", authorID).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *postRepository) SumLikesByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("author_id = ?", authorID).
		Select("COALESCE(SUM(like_count), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return total, nil
}
