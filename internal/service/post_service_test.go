package service

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"inkspace/internal/models"
	"inkspace/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService_CreatePost(t *testing.T) {
	db, store := newTestStore(t)
	svc := NewPostService(store)
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	ctx := context.Background()
	author := testutil.CreateUser(t, db)

	t.Run("derives title and slug", func(t *testing.T) {
		content := strings.Repeat("墨", 60)
		post, err := svc.CreatePost(ctx, author, CreatePostInput{Content: content})
		require.NoError(t, err)
		assert.Equal(t, strings.Repeat("墨", 50)+"...", post.Title)
		assert.Regexp(t, regexp.MustCompile(`^post-1700000000000-[0-9a-f]{8}$`), post.Slug)
		assert.True(t, post.Published)
		assert.Zero(t, post.LikeCount)
	})

	t.Run("explicit fields", func(t *testing.T) {
		draft := false
		post, err := svc.CreatePost(ctx, author, CreatePostInput{
			Title: "Hello", Content: "body", Slug: "hello-world", Excerpt: "hi", Published: &draft,
		})
		require.NoError(t, err)
		assert.Equal(t, "Hello", post.Title)
		assert.Equal(t, "hello-world", post.Slug)
		assert.False(t, post.Published)
	})

	t.Run("duplicate slug conflicts", func(t *testing.T) {
		_, err := svc.CreatePost(ctx, author, CreatePostInput{Content: "again", Slug: "hello-world"})
		assertCode(t, err, models.CodeConflict)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := svc.CreatePost(ctx, author, CreatePostInput{Content: " "})
		assertCode(t, err, models.CodeValidation)
		_, err = svc.CreatePost(ctx, author, CreatePostInput{Content: strings.Repeat("x", 50001)})
		assertCode(t, err, models.CodeValidation)
		_, err = svc.CreatePost(ctx, nil, CreatePostInput{Content: "x"})
		assertCode(t, err, models.CodeUnauthorized)
	})
}

func TestPostService_UpdateAndDelete(t *testing.T) {
	db, store := newTestStore(t)
	svc := NewPostService(store)
	ctx := context.Background()

	author := testutil.CreateUser(t, db)
	other := testutil.CreateUser(t, db)
	post := testutil.CreatePost(t, db, author)

	_, err := svc.UpdatePost(ctx, other, post.ID, "hijack")
	assertCode(t, err, models.CodeForbidden)

	updated, err := svc.UpdatePost(ctx, author, post.ID, "fresh words")
	require.NoError(t, err)
	assert.Equal(t, "fresh words", updated.Title)

	err = svc.DeletePost(ctx, other, post.ID)
	assertCode(t, err, models.CodeForbidden)

	fan := testutil.CreateUser(t, db)
	_, err = NewEngagementService(store, nil).ToggleLike(ctx, fan, post.ID)
	require.NoError(t, err)
	notifier := NewNotificationService(store, nil, 0)
	_, err = NewCommentService(store, notifier).CreateComment(ctx, fan, CreateCommentInput{PostID: post.ID, Content: "nice"})
	require.NoError(t, err)

	countFor := func(model any) int64 {
		var n int64
		require.NoError(t, db.Model(model).Where("post_id = ?", post.ID).Count(&n).Error)
		return n
	}
	require.Equal(t, int64(1), countFor(&models.Comment{}))
	require.Equal(t, int64(1), countFor(&models.Notification{}))

	require.NoError(t, svc.DeletePost(ctx, author, post.ID))
	_, err = store.Posts().GetByID(ctx, post.ID)
	assertCode(t, err, models.CodeNotFound)

	assert.Zero(t, countFor(&models.Like{}), "likes cascade with the post")
	assert.Zero(t, countFor(&models.Comment{}), "comments cascade with the post")
	assert.Zero(t, countFor(&models.Notification{}), "notifications cascade with the post")
}

func TestPostService_BatchDeleteSkipsForeignPosts(t *testing.T) {
	db, store := newTestStore(t)
	svc := NewPostService(store)
	ctx := context.Background()

	author := testutil.CreateUser(t, db)
	other := testutil.CreateUser(t, db)
	mine1 := testutil.CreatePost(t, db, author)
	mine2 := testutil.CreatePost(t, db, author)
	theirs := testutil.CreatePost(t, db, other)

	n, err := svc.BatchDeletePosts(ctx, author, []uint{mine1.ID, mine2.ID, theirs.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = store.Posts().GetByID(ctx, theirs.ID)
	require.NoError(t, err)

	_, err = svc.BatchDeletePosts(ctx, author, nil)
	assertCode(t, err, models.CodeValidation)
}

func TestPostService_BlogVisibility(t *testing.T) {
	db, store := newTestStore(t)
	svc := NewPostService(store)
	ctx := context.Background()

	author := testutil.CreateUser(t, db)
	reader := testutil.CreateUser(t, db)
	public := testutil.CreatePost(t, db, author)
	draft := testutil.CreatePost(t, db, author, func(p *models.Post) { p.Published = false })

	items, err := svc.ListPublished(ctx, nil, 0, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, public.ID, items[0].ID)
	require.NotNil(t, items[0].Author)
	assert.Equal(t, author.Username, items[0].Author.Username)

	_, err = svc.GetBySlug(ctx, reader, draft.Slug)
	assertCode(t, err, models.CodeNotFound)
	_, err = svc.GetBySlug(ctx, nil, draft.Slug)
	assertCode(t, err, models.CodeNotFound)

	own, err := svc.GetBySlug(ctx, author, draft.Slug)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, own.ID)
}
