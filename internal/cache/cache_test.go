package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

func withMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)

	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() {
		_ = client.Close()
		client = nil
		mr.Close()
	})
	return mr
}

func TestAside_LoadsOnceThenServesFromCache(t *testing.T) {
	mr := withMiniredis(t)
	ctx := context.Background()

	loads := 0
	load := func(dest *cachedUser) func() error {
		return func() error {
			loads++
			*dest = cachedUser{ID: 7, Username: "ada"}
			return nil
		}
	}

	var first cachedUser
	require.NoError(t, Aside(ctx, UserKey(7), &first, UserTTL, load(&first)))
	var second cachedUser
	require.NoError(t, Aside(ctx, UserKey(7), &second, UserTTL, load(&second)))

	assert.Equal(t, 1, loads)
	assert.Equal(t, "ada", second.Username)
	assert.True(t, mr.Exists("user:7"))

	mr.FastForward(UserTTL + time.Second)
	assert.False(t, mr.Exists("user:7"))
}

func TestAside_LoadErrorIsNotCached(t *testing.T) {
	mr := withMiniredis(t)

	var u cachedUser
	err := Aside(context.Background(), UserKey(1), &u, UserTTL, func() error {
		return errors.New("not found")
	})
	assert.Error(t, err)
	assert.False(t, mr.Exists("user:1"))
}

func TestAside_NoClientCallsLoad(t *testing.T) {
	client = nil
	called := false
	var u cachedUser
	require.NoError(t, Aside(context.Background(), UserKey(2), &u, UserTTL, func() error {
		called = true
		return nil
	}))
	assert.True(t, called)
}

func TestInvalidateUser(t *testing.T) {
	mr := withMiniredis(t)
	require.NoError(t, mr.Set(UserKey(3), "{}"))
	require.NoError(t, mr.Set(UsernameKey("bob"), "{}"))

	InvalidateUser(context.Background(), 3, "bob")

	assert.False(t, mr.Exists("user:3"))
	assert.False(t, mr.Exists("user:name:bob"))
}
