package bootstrap

import (
	"context"
	"testing"

	"inkspace/internal/models"
	"inkspace/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDemo_OnlyWhenEmpty(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()

	require.NoError(t, SeedDemo(ctx, db, Options{DemoUsers: 3, DemoPosts: 4}))

	var users, posts int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	assert.Equal(t, int64(3), users)
	assert.Equal(t, int64(4), posts)

	require.NoError(t, SeedDemo(ctx, db, Options{DemoUsers: 5, DemoPosts: 5}))
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(3), users)
}
