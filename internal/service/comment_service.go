package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"inkspace/internal/models"
	"inkspace/internal/repository"
)

const maxCommentLen = 10000

// CommentSource tells which surface a comment was written on.
type CommentSource string

const (
	// SourceSpace comments are visible immediately.
	SourceSpace CommentSource = "space"
	// SourceBlog comments wait for the post author's approval.
	SourceBlog CommentSource = "blog"
)

// CommentNotifier is told about new comments after they are stored.
type CommentNotifier interface {
	NotifyComment(ctx context.Context, actorID uint, post *models.Post, comment *models.Comment)
}

type CommentService struct {
	store    repository.Store
	notifier CommentNotifier
}

type CreateCommentInput struct {
	PostID   uint
	Content  string
	Nickname string
	Source   CommentSource
}

// NewCommentService builds the service. notifier may be nil.
func NewCommentService(store repository.Store, notifier CommentNotifier) *CommentService {
	return &CommentService{store: store, notifier: notifier}
}

// CreateComment stores a comment by caller, or by a guest when caller is nil.
func (s *CommentService) CreateComment(ctx context.Context, caller *models.User, in CreateCommentInput) (*models.Comment, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if utf8.RuneCountInString(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	source := in.Source
	if source == "" {
		source = SourceSpace
	}
	if source != SourceSpace && source != SourceBlog {
		return nil, models.NewValidationError("Unknown comment source")
	}

	post, err := s.store.Posts().GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if source == SourceBlog && !post.Published {
		return nil, models.NewNotFoundError("Post", in.PostID)
	}

	comment := &models.Comment{
		PostID:     post.ID,
		Content:    in.Content,
		IsApproved: source == SourceSpace,
	}

	nickname := strings.TrimSpace(in.Nickname)
	if caller != nil {
		comment.SetAuthor(models.RegisteredAuthor(caller.ID))
		comment.Nickname = caller.DisplayName()
	} else {
		if nickname == "" {
			if source == SourceBlog {
				return nil, models.NewValidationError("Nickname is required")
			}
			nickname = models.GuestNickname
		}
		comment.SetAuthor(models.GuestAuthor(nickname))
	}

	if err := s.store.Comments().Create(ctx, comment); err != nil {
		return nil, err
	}

	if s.notifier != nil && caller != nil {
		s.notifier.NotifyComment(ctx, caller.ID, post, comment)
	}
	return s.store.Comments().GetByID(ctx, comment.ID)
}

// ListComments returns the post's comments newest first. Comments awaiting
// moderation are only visible to the post author, and only when approvedOnly
// is false.
func (s *CommentService) ListComments(ctx context.Context, viewer *models.User, postID uint, approvedOnly bool) ([]*models.Comment, error) {
	post, err := s.store.Posts().GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if viewer == nil || viewer.ID != post.AuthorID {
		approvedOnly = true
	}
	return s.store.Comments().ListByPost(ctx, postID, approvedOnly)
}

// DeleteComment removes a comment. The post author may delete any comment
// on their post; anyone else only their own.
func (s *CommentService) DeleteComment(ctx context.Context, caller *models.User, commentID uint) error {
	if caller == nil {
		return models.NewUnauthorizedError("Authentication required")
	}
	comment, err := s.store.Comments().GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	moderator := comment.Post != nil && comment.Post.AuthorID == caller.ID
	if !moderator && !comment.Author().Matches(caller) {
		return models.NewForbiddenError("You can only delete your own comments")
	}
	return s.store.Comments().Delete(ctx, commentID)
}

// ApproveComment publishes a pending comment. Only the post author may do this.
func (s *CommentService) ApproveComment(ctx context.Context, caller *models.User, commentID uint) (*models.Comment, error) {
	if caller == nil {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	comment, err := s.store.Comments().GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.Post == nil || comment.Post.AuthorID != caller.ID {
		return nil, models.NewForbiddenError("Only the post author can approve comments")
	}
	if err := s.store.Comments().Approve(ctx, commentID); err != nil {
		return nil, err
	}
	comment.IsApproved = true
	return comment, nil
}
