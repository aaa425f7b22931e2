package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"inkspace/internal/models"
	"inkspace/internal/repository"

	"github.com/google/uuid"
)

const maxPostLen = 50000

type PostService struct {
	store repository.Store
	now   func() time.Time
}

type CreatePostInput struct {
	Title     string
	Content   string
	Excerpt   string
	Slug      string
	Published *bool
}

func NewPostService(store repository.Store) *PostService {
	return &PostService{store: store, now: time.Now}
}

// CreatePost publishes a post by caller. Without a title one is derived
// from content; without a slug one is generated. Posts are published
// unless Published is explicitly false.
func (s *PostService) CreatePost(ctx context.Context, caller *models.User, in CreatePostInput) (*models.Post, error) {
	if caller == nil {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if utf8.RuneCountInString(in.Content) > maxPostLen {
		return nil, models.NewValidationError("Post too long (max 50000 characters)")
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = models.DeriveTitle(in.Content)
	}
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = s.generateSlug()
	}
	published := true
	if in.Published != nil {
		published = *in.Published
	}

	post := &models.Post{
		AuthorID:  caller.ID,
		Title:     title,
		Excerpt:   strings.TrimSpace(in.Excerpt),
		Content:   in.Content,
		Slug:      slug,
		Published: published,
	}
	if err := s.store.Posts().Create(ctx, post); err != nil {
		return nil, err
	}
	post.Author = *caller
	return post, nil
}

// generateSlug returns post-<unix-millis>-<8 hex>.
func (s *PostService) generateSlug() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("post-%d-%s", s.now().UnixMilli(), suffix)
}

// UpdatePost replaces the content of caller's post and re-derives its title.
func (s *PostService) UpdatePost(ctx context.Context, caller *models.User, postID uint, content string) (*models.Post, error) {
	if caller == nil {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if utf8.RuneCountInString(content) > maxPostLen {
		return nil, models.NewValidationError("Post too long (max 50000 characters)")
	}

	post, err := s.store.Posts().GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != caller.ID {
		return nil, models.NewForbiddenError("You can only edit your own posts")
	}

	post.Content = content
	post.Title = models.DeriveTitle(content)
	if err := s.store.Posts().Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes caller's post together with its likes, comments and
// notifications.
func (s *PostService) DeletePost(ctx context.Context, caller *models.User, postID uint) error {
	if caller == nil {
		return models.NewUnauthorizedError("Authentication required")
	}
	post, err := s.store.Posts().GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != caller.ID {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	return s.store.Posts().Delete(ctx, postID)
}

// BatchDeletePosts deletes those of ids that caller authored and returns
// how many were removed. Ids owned by others are skipped silently.
func (s *PostService) BatchDeletePosts(ctx context.Context, caller *models.User, ids []uint) (int64, error) {
	if caller == nil {
		return 0, models.NewUnauthorizedError("Authentication required")
	}
	if len(ids) == 0 {
		return 0, models.NewValidationError("No post ids given")
	}
	return s.store.Posts().DeleteOwned(ctx, caller.ID, ids)
}

// ListPublished returns published posts for the public blog index.
func (s *PostService) ListPublished(ctx context.Context, viewer *models.User, limit, offset int) ([]FeedItem, error) {
	posts, err := s.store.Posts().List(ctx, repository.PostFilter{
		PublishedOnly: true,
		Limit:         clampLimit(limit),
		Offset:        max(offset, 0),
	}, viewerID(viewer))
	if err != nil {
		return nil, err
	}
	return toFeedItems(posts), nil
}

// GetBySlug returns a published post. Drafts are visible to their author only.
func (s *PostService) GetBySlug(ctx context.Context, viewer *models.User, slug string) (*FeedItem, error) {
	post, err := s.store.Posts().GetBySlug(ctx, slug, viewerID(viewer))
	if err != nil {
		return nil, err
	}
	if !post.Published && (viewer == nil || viewer.ID != post.AuthorID) {
		return nil, models.NewNotFoundError("Post", slug)
	}
	item := toFeedItem(post)
	return &item, nil
}
