package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"inkspace/internal/middleware"

	"github.com/redis/go-redis/v9"
)

const (
	UserKeyPrefix     = "user:%d"
	UsernameKeyPrefix = "user:name:%s"
)

const (
	UserTTL = 5 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func UsernameKey(username string) string {
	return fmt.Sprintf(UsernameKeyPrefix, username)
}

// Aside loads key into dest, calling load on a miss and storing the
// populated dest for ttl. Cache failures degrade to calling load.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, load func() error) error {
	if client == nil {
		return load()
	}

	raw, err := client.Get(ctx, key).Bytes()
	if err == nil {
		if jsonErr := json.Unmarshal(raw, dest); jsonErr == nil {
			return nil
		}
	} else if !errors.Is(err, redis.Nil) {
		middleware.Logger.WarnContext(ctx, "cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	if err := load(); err != nil {
		return err
	}

	payload, err := json.Marshal(dest)
	if err != nil {
		return nil
	}
	if err := client.Set(ctx, key, payload, ttl).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return nil
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

func InvalidateUser(ctx context.Context, userID uint, username string) {
	keys := []string{UserKey(userID)}
	if username != "" {
		keys = append(keys, UsernameKey(username))
	}
	Invalidate(ctx, keys...)
}
