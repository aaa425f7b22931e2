package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"inkspace/internal/models"
	"inkspace/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchService_RecordAndList(t *testing.T) {
	db, store := newTestStore(t)
	svc := NewSearchService(store, 72*time.Hour)
	ctx := context.Background()

	clock := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }
	user := testutil.CreateUser(t, db)

	for i := 0; i < 7; i++ {
		clock = clock.Add(time.Minute)
		require.NoError(t, svc.Record(ctx, user, fmt.Sprintf("query-%d", i)))
	}
	clock = clock.Add(time.Minute)
	require.NoError(t, svc.Record(ctx, user, "query-0"))

	recent, err := svc.ListRecent(ctx, user)
	require.NoError(t, err)
	require.Len(t, recent, SearchHistoryLimit)
	assert.Equal(t, "query-0", recent[0].Query, "repeating a query moves it to the front")
	assert.Equal(t, "query-6", recent[1].Query)

	var rows int64
	require.NoError(t, db.Model(&models.SearchHistory{}).Where("user_id = ?", user.ID).Count(&rows).Error)
	assert.Equal(t, int64(7), rows)
}

func TestSearchService_Rules(t *testing.T) {
	db, store := newTestStore(t)
	svc := NewSearchService(store, 0)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db)
	other := testutil.CreateUser(t, db)

	require.NoError(t, svc.Record(ctx, nil, "ignored"))
	err := svc.Record(ctx, owner, "   ")
	assertCode(t, err, models.CodeValidation)

	list, err := svc.ListRecent(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, svc.Record(ctx, owner, "golang"))
	entries, err := svc.ListRecent(ctx, owner)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	err = svc.Delete(ctx, other, entries[0].ID)
	assertCode(t, err, models.CodeNotFound)
	err = svc.Delete(ctx, nil, entries[0].ID)
	assertCode(t, err, models.CodeUnauthorized)

	require.NoError(t, svc.Delete(ctx, owner, entries[0].ID))
	err = svc.Delete(ctx, owner, entries[0].ID)
	assertCode(t, err, models.CodeNotFound)
}

func TestSearchService_Prune(t *testing.T) {
	db, store := newTestStore(t)
	svc := NewSearchService(store, 72*time.Hour)
	ctx := context.Background()
	user := testutil.CreateUser(t, db)

	now := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now.Add(-100 * time.Hour) }
	require.NoError(t, svc.Record(ctx, user, "stale"))
	svc.now = func() time.Time { return now }
	require.NoError(t, svc.Record(ctx, user, "fresh"))

	recent, err := svc.ListRecent(ctx, user)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "fresh", recent[0].Query)

	n, err := svc.Prune(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = svc.Prune(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSearchService_SearchUsers(t *testing.T) {
	db, store := newTestStore(t)
	svc := NewSearchService(store, 0)
	ctx := context.Background()

	caller := testutil.CreateUser(t, db)
	target := testutil.CreateUser(t, db)

	res, err := svc.SearchUsers(ctx, caller, target.Username)
	require.NoError(t, err)
	assert.True(t, res.Found)
	require.NotNil(t, res.User)
	assert.Equal(t, target.ID, res.User.ID)

	res, err = svc.SearchUsers(ctx, nil, "no-such-user")
	require.NoError(t, err)
	assert.False(t, res.Found)

	_, err = svc.SearchUsers(ctx, caller, "")
	assertCode(t, err, models.CodeValidation)

	recent, err := svc.ListRecent(ctx, caller)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, target.Username, recent[0].Query)
}

func TestSearchService_RecordLimitCountsCharacters(t *testing.T) {
	db, store := newTestStore(t)
	svc := NewSearchService(store, 0)
	ctx := context.Background()
	user := testutil.CreateUser(t, db)

	cjk := strings.Repeat("搜", 100)
	require.Greater(t, len(cjk), maxQueryLen)
	require.NoError(t, svc.Record(ctx, user, cjk))

	recent, err := svc.ListRecent(ctx, user)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, cjk, recent[0].Query)

	err = svc.Record(ctx, user, strings.Repeat("搜", maxQueryLen+1))
	assertCode(t, err, models.CodeValidation)
}
