package seed

import (
	"context"
	"testing"

	"inkspace/internal/models"
	"inkspace/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed_CountersMatchRows(t *testing.T) {
	db := testutil.NewSQLiteDB(t)

	stats, err := NewSeeder(db, Options{NumUsers: 6, NumPosts: 8, Seed: 42}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, stats.Users)
	assert.Equal(t, 8, stats.Posts)

	var posts []models.Post
	require.NoError(t, db.Find(&posts).Error)
	require.Len(t, posts, 8)
	for _, p := range posts {
		var likes int64
		require.NoError(t, db.Model(&models.Like{}).Where("post_id = ?", p.ID).Count(&likes).Error)
		assert.Equal(t, int(likes), p.LikeCount, "post %d", p.ID)
	}

	var likeRows, followRows int64
	require.NoError(t, db.Model(&models.Like{}).Count(&likeRows).Error)
	require.NoError(t, db.Model(&models.Follow{}).Count(&followRows).Error)
	assert.Equal(t, int64(stats.Likes), likeRows)
	assert.Equal(t, int64(stats.Follows), followRows)
}

func TestSeed_Clean(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()

	_, err := NewSeeder(db, Options{NumUsers: 3, NumPosts: 2, Seed: 7}).Run(ctx)
	require.NoError(t, err)

	stats, err := NewSeeder(db, Options{NumUsers: 2, ShouldClean: true, Seed: 8}).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Users)

	var users, posts int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	assert.Equal(t, int64(2), users)
	assert.Zero(t, posts)
}
