package service

import (
	"context"

	"inkspace/internal/models"
	"inkspace/internal/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// FeedQuery selects a page of the feed, optionally for one author.
type FeedQuery struct {
	Username string
	Limit    int
	Offset   int
}

// FeedService serves profiles, profile stats and post feeds.
type FeedService struct {
	store repository.Store
}

func NewFeedService(store repository.Store) *FeedService {
	return &FeedService{store: store}
}

// GetProfile resolves username and returns the user with their stats and,
// for a signed-in viewer other than the user, whether the viewer follows them.
func (s *FeedService) GetProfile(ctx context.Context, viewer *models.User, username string) (*Profile, error) {
	user, err := s.store.Users().GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	stats, err := s.GetProfileStats(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	profile := &Profile{User: *user, Stats: *stats}
	if viewer != nil {
		profile.IsSelf = viewer.ID == user.ID
		if !profile.IsSelf {
			following, err := s.store.Follows().Exists(ctx, viewer.ID, user.ID)
			if err != nil {
				return nil, err
			}
			profile.IsFollowing = following
		}
	}
	return profile, nil
}

// GetProfileStats returns post, like, follower and following totals.
func (s *FeedService) GetProfileStats(ctx context.Context, userID uint) (*ProfileStats, error) {
	var stats ProfileStats
	var err error

	if stats.PostCount, err = s.store.Posts().CountByAuthor(ctx, userID); err != nil {
		return nil, err
	}
	if stats.LikeTotal, err = s.store.Posts().SumLikesByAuthor(ctx, userID); err != nil {
		return nil, err
	}
	if stats.FollowerCount, err = s.store.Follows().CountFollowers(ctx, userID); err != nil {
		return nil, err
	}
	if stats.FollowingCount, err = s.store.Follows().CountFollowing(ctx, userID); err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetFeed returns posts newest first with comment counts and, for a
// signed-in viewer, whether the viewer liked each one.
func (s *FeedService) GetFeed(ctx context.Context, viewer *models.User, q FeedQuery) ([]FeedItem, error) {
	filter := repository.PostFilter{
		Limit:  clampLimit(q.Limit),
		Offset: max(q.Offset, 0),
	}
	if q.Username != "" {
		author, err := s.store.Users().GetByUsername(ctx, q.Username)
		if err != nil {
			return nil, err
		}
		filter.AuthorID = author.ID
	}

	posts, err := s.store.Posts().List(ctx, filter, viewerID(viewer))
	if err != nil {
		return nil, err
	}
	return toFeedItems(posts), nil
}

func viewerID(u *models.User) uint {
	if u == nil {
		return 0
	}
	return u.ID
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	return min(limit, maxPageSize)
}
