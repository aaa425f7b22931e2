// Package bootstrap wires the process-wide runtime shared by the commands.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"inkspace/internal/cache"
	"inkspace/internal/config"
	"inkspace/internal/database"
	"inkspace/internal/middleware"
	"inkspace/internal/models"
	"inkspace/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedDemo  bool
	DemoUsers int
	DemoPosts int
}

// InitRuntime connects to DB and Redis and optionally seeds demo content.
// The Redis client is nil when Redis is unreachable.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedDemo && !cfg.IsProduction() {
		if err := SeedDemo(context.Background(), db, opts); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return db, r, nil
}

// SeedDemo fills db with demo content unless it already has users.
func SeedDemo(ctx context.Context, db *gorm.DB, opts Options) error {
	var users int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&users).Error; err != nil {
		return err
	}
	if users > 0 {
		middleware.Logger.Info("Skipping demo seed, database is not empty", slog.Int64("users", users))
		return nil
	}

	if opts.DemoUsers <= 0 {
		opts.DemoUsers = 12
	}
	if opts.DemoPosts <= 0 {
		opts.DemoPosts = 40
	}
	_, err := seed.NewSeeder(db, seed.Options{
		NumUsers: opts.DemoUsers,
		NumPosts: opts.DemoPosts,
	}).Run(ctx)
	return err
}
