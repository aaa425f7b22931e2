package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"inkspace/internal/models"
	"inkspace/internal/observability"
	"inkspace/internal/repository"
)

const (
	// SearchHistoryLimit caps how many recent queries are returned.
	SearchHistoryLimit = 5
	maxQueryLen        = 255
)

// UserSearchResult is the outcome of an exact username lookup.
type UserSearchResult struct {
	Found bool                `json:"found"`
	User  *models.UserSummary `json:"user,omitempty"`
}

// SearchService records and serves each user's recent searches.
type SearchService struct {
	store     repository.Store
	retention time.Duration
	now       func() time.Time
}

// NewSearchService builds the service. retention <= 0 falls back to
// DefaultRetention.
func NewSearchService(store repository.Store, retention time.Duration) *SearchService {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &SearchService{
		store:     store,
		retention: retention,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Record remembers query for caller. Anonymous searches are not recorded.
func (s *SearchService) Record(ctx context.Context, caller *models.User, query string) error {
	if caller == nil {
		return nil
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return models.NewValidationError("Query is required")
	}
	if utf8.RuneCountInString(query) > maxQueryLen {
		return models.NewValidationError("Query too long")
	}
	return s.store.Searches().Upsert(ctx, caller.ID, query, s.now())
}

// ListRecent returns caller's newest queries inside the retention window.
func (s *SearchService) ListRecent(ctx context.Context, caller *models.User) ([]*models.SearchHistory, error) {
	if caller == nil {
		return []*models.SearchHistory{}, nil
	}
	return s.store.Searches().ListRecent(ctx, caller.ID, s.now().Add(-s.retention), SearchHistoryLimit)
}

// Delete removes one of caller's entries. Entries of other users look
// exactly like missing ones.
func (s *SearchService) Delete(ctx context.Context, caller *models.User, id uint) error {
	if caller == nil {
		return models.NewUnauthorizedError("Authentication required")
	}
	n, err := s.store.Searches().DeleteOwned(ctx, id, caller.ID)
	if err != nil {
		return err
	}
	if n == 0 {
		return models.NewNotFoundError("Search history entry", id)
	}
	return nil
}

// Prune deletes entries older than the retention window relative to now.
func (s *SearchService) Prune(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.store.Searches().DeleteOlderThan(ctx, now.UTC().Add(-s.retention))
	if err != nil {
		return 0, err
	}
	observability.PrunedRows.WithLabelValues("search_histories").Add(float64(n))
	return n, nil
}

// SearchUsers looks up a user by exact username and records the query
// for a signed-in caller.
func (s *SearchService) SearchUsers(ctx context.Context, caller *models.User, query string) (*UserSearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.NewValidationError("Query is required")
	}
	if err := s.Record(ctx, caller, query); err != nil {
		return nil, err
	}

	user, err := s.store.Users().GetByUsername(ctx, query)
	if models.IsCode(err, models.CodeNotFound) {
		return &UserSearchResult{Found: false}, nil
	}
	if err != nil {
		return nil, err
	}
	return &UserSearchResult{Found: true, User: summarize(user)}, nil
}
