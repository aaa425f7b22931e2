package database

import (
	"context"
	"testing"

	modelspkg "inkspace/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersistentModels_IncludesEngagementTables(t *testing.T) {
	var hasLike, hasNotification, hasSearch bool
	for _, model := range PersistentModels() {
		switch model.(type) {
		case *modelspkg.Like:
			hasLike = true
		case *modelspkg.Notification:
			hasNotification = true
		case *modelspkg.SearchHistory:
			hasSearch = true
		}
	}
	require.True(t, hasLike, "PersistentModels should include Like")
	require.True(t, hasNotification, "PersistentModels should include Notification")
	require.True(t, hasSearch, "PersistentModels should include SearchHistory")
}

func TestTableStats_AndLikeCounterDrift(t *testing.T) {
	ctx := context.Background()
	db, err := Connect(sqliteConfig(t))
	require.NoError(t, err)

	user := &modelspkg.User{Username: "drift_author"}
	require.NoError(t, db.Create(user).Error)
	post := &modelspkg.Post{AuthorID: user.ID, Title: "t", Content: "c", Slug: "drift-post", Published: true}
	require.NoError(t, db.Omit("Author").Create(post).Error)
	require.NoError(t, db.Create(&modelspkg.Like{PostID: post.ID, UserID: user.ID}).Error)

	stats, err := TableStats(ctx, db)
	require.NoError(t, err)
	byTable := map[string]TableStat{}
	for _, st := range stats {
		byTable[st.Table] = st
	}
	require.Len(t, byTable, len(PersistentModels()))
	assert.Equal(t, int64(1), byTable["posts"].Rows)
	assert.Equal(t, int64(1), byTable["likes"].Rows)
	assert.True(t, byTable["search_histories"].Exists)
	assert.Zero(t, byTable["search_histories"].Rows)

	drift, err := LikeCounterDrift(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), drift)

	require.NoError(t, db.Model(post).UpdateColumn("like_count", 1).Error)
	drift, err = LikeCounterDrift(ctx, db)
	require.NoError(t, err)
	assert.Zero(t, drift)
}
