package service

import (
	"context"
	"log/slog"

	"inkspace/internal/middleware"
	"inkspace/internal/models"
	"inkspace/internal/observability"
	"inkspace/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// FollowNotifier is told about new follow edges after they commit.
type FollowNotifier interface {
	NotifyFollow(ctx context.Context, actorID, targetID uint)
}

// EngagementService owns likes and follows and keeps post.like_count equal
// to the number of like rows.
type EngagementService struct {
	store    repository.Store
	notifier FollowNotifier
}

// NewEngagementService builds the service. notifier may be nil.
func NewEngagementService(store repository.Store, notifier FollowNotifier) *EngagementService {
	return &EngagementService{store: store, notifier: notifier}
}

// ToggleLike likes the post for caller, or removes the like when it
// already exists. The like row and the counter change in one transaction
// under a lock on the post row; if anything fails the transaction rolls
// back and the caller gets a CONFLICT error to retry.
func (s *EngagementService) ToggleLike(ctx context.Context, caller *models.User, postID uint) (*LikeResult, error) {
	if caller == nil {
		return nil, models.NewUnauthorizedError("Authentication required")
	}

	ctx, span := observability.StartServiceSpan(ctx, "engagement", "ToggleLike",
		attribute.Int64("post.id", int64(postID)),
		attribute.Int64("user.id", int64(caller.ID)),
	)

	var result LikeResult
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.Posts().GetByIDForUpdate(ctx, postID); err != nil {
			return err
		}

		liked, err := tx.Likes().Exists(ctx, postID, caller.ID)
		if err != nil {
			return err
		}

		if liked {
			removed, err := tx.Likes().Delete(ctx, postID, caller.ID)
			if err != nil {
				return err
			}
			if removed == 0 {
				return models.NewConflictError("like was removed concurrently", nil)
			}
			updated, err := tx.Posts().AdjustLikeCount(ctx, postID, -1)
			if err != nil {
				return err
			}
			if updated == 0 {
				return models.NewConflictError("like counter is already zero", nil)
			}
		} else {
			inserted, err := tx.Likes().Insert(ctx, postID, caller.ID)
			if err != nil {
				return err
			}
			if !inserted {
				return models.NewConflictError("like was added concurrently", nil)
			}
			if _, err := tx.Posts().AdjustLikeCount(ctx, postID, 1); err != nil {
				return err
			}
		}

		count, err := tx.Posts().GetLikeCount(ctx, postID)
		if err != nil {
			return err
		}
		result = LikeResult{Liked: !liked, LikeCount: count}
		return nil
	})
	if err != nil {
		err = s.conflictOrPassThrough(ctx, "toggle_like", err)
		span.End(err)
		return nil, err
	}

	outcome := "unliked"
	if result.Liked {
		outcome = "liked"
	}
	observability.LikeToggles.WithLabelValues(outcome).Inc()
	span.End(nil)
	return &result, nil
}

// ToggleFollow follows targetID for caller, or unfollows when the edge
// exists. A new follow notifies the target after commit.
func (s *EngagementService) ToggleFollow(ctx context.Context, caller *models.User, targetID uint) (*FollowResult, error) {
	if caller == nil {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	if caller.ID == targetID {
		return nil, models.NewValidationError("You cannot follow yourself")
	}

	ctx, span := observability.StartServiceSpan(ctx, "engagement", "ToggleFollow",
		attribute.Int64("target.id", int64(targetID)),
		attribute.Int64("user.id", int64(caller.ID)),
	)

	exists, err := s.store.Users().Exists(ctx, targetID)
	if err != nil {
		span.End(err)
		return nil, err
	}
	if !exists {
		err = models.NewNotFoundError("User", targetID)
		span.End(err)
		return nil, err
	}

	var following bool
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		already, err := tx.Follows().Exists(ctx, caller.ID, targetID)
		if err != nil {
			return err
		}
		if already {
			if _, err := tx.Follows().Delete(ctx, caller.ID, targetID); err != nil {
				return err
			}
			following = false
			return nil
		}

		inserted, err := tx.Follows().Insert(ctx, caller.ID, targetID)
		if err != nil {
			return err
		}
		if !inserted {
			return models.NewConflictError("follow was added concurrently", nil)
		}
		following = true
		return nil
	})
	if err != nil {
		err = s.conflictOrPassThrough(ctx, "toggle_follow", err)
		span.End(err)
		return nil, err
	}

	outcome := "unfollowed"
	if following {
		outcome = "followed"
		if s.notifier != nil {
			s.notifier.NotifyFollow(ctx, caller.ID, targetID)
		}
	}
	observability.FollowToggles.WithLabelValues(outcome).Inc()
	span.End(nil)
	return &FollowResult{Following: following}, nil
}

// IsFollowing reports whether followerID follows targetID.
func (s *EngagementService) IsFollowing(ctx context.Context, followerID, targetID uint) (bool, error) {
	if followerID == 0 || targetID == 0 || followerID == targetID {
		return false, nil
	}
	return s.store.Follows().Exists(ctx, followerID, targetID)
}

// ListFollowing returns who userID follows, newest edge first.
func (s *EngagementService) ListFollowing(ctx context.Context, userID uint) ([]models.UserSummary, error) {
	if _, err := s.store.Users().GetByID(ctx, userID); err != nil {
		return nil, err
	}
	users, err := s.store.Follows().ListFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	return summarizeAll(users), nil
}

// ListFollowers returns who follows userID, newest edge first.
func (s *EngagementService) ListFollowers(ctx context.Context, userID uint) ([]models.UserSummary, error) {
	if _, err := s.store.Users().GetByID(ctx, userID); err != nil {
		return nil, err
	}
	users, err := s.store.Follows().ListFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	return summarizeAll(users), nil
}

// conflictOrPassThrough keeps NOT_FOUND and CONFLICT errors and turns any
// other store failure inside a toggle into a retryable CONFLICT.
func (s *EngagementService) conflictOrPassThrough(ctx context.Context, op string, err error) error {
	if models.IsCode(err, models.CodeNotFound) {
		return err
	}
	observability.EngagementConflicts.WithLabelValues(op).Inc()
	if models.IsCode(err, models.CodeConflict) {
		return err
	}
	middleware.Logger.WarnContext(ctx, "engagement transaction aborted",
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
	return models.NewConflictError("Operation could not be completed, please retry", err)
}
