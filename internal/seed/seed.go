// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"inkspace/internal/middleware"
	"inkspace/internal/models"
	"inkspace/internal/repository"
	"inkspace/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	// MaxDays spreads post timestamps over the last MaxDays days.
	MaxDays int
	// Seed makes generated content reproducible when non-zero.
	Seed int64
}

// Stats reports what a seeding run created.
type Stats struct {
	Users    int
	Posts    int
	Comments int
	Likes    int
	Follows  int
}

// Seeder creates demo identities directly and all engagement through the
// services so counters and notifications stay consistent.
type Seeder struct {
	db         *gorm.DB
	opts       Options
	rng        *rand.Rand
	faker      *gofakeit.Faker
	store      repository.Store
	engagement *service.EngagementService
	comments   *service.CommentService
}

// NewSeeder builds a seeder bound to db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 30
	}

	store := repository.NewStore(db)
	notifier := service.NewNotificationService(store, nil, 0)
	return &Seeder{
		db:    db,
		opts:  opts,
		rng:   rand.New(rand.NewSource(seed)), //nolint:gosec // demo data
		faker: gofakeit.New(seed),
		store: store,
		// Seeded likes and follows notify like real ones do.
		engagement: service.NewEngagementService(store, notifier),
		comments:   service.NewCommentService(store, notifier),
	}
}

// Run executes the seeding plan.
func (s *Seeder) Run(ctx context.Context) (*Stats, error) {
	log := middleware.Logger
	log.Info("Starting database seeding",
		slog.Int("users", s.opts.NumUsers),
		slog.Int("posts", s.opts.NumPosts),
	)

	if s.opts.ShouldClean {
		if err := s.clear(ctx); err != nil {
			return nil, fmt.Errorf("failed to clear data: %w", err)
		}
	}

	stats := &Stats{}
	users, err := s.createUsers(ctx, s.opts.NumUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to create users: %w", err)
	}
	stats.Users = len(users)
	if len(users) == 0 {
		return stats, nil
	}

	posts, err := s.createPosts(ctx, users, s.opts.NumPosts)
	if err != nil {
		return nil, fmt.Errorf("failed to create posts: %w", err)
	}
	stats.Posts = len(posts)

	if err := s.engage(ctx, users, posts, stats); err != nil {
		return nil, err
	}

	log.Info("Database seeding completed",
		slog.Int("users", stats.Users),
		slog.Int("posts", stats.Posts),
		slog.Int("comments", stats.Comments),
		slog.Int("likes", stats.Likes),
		slog.Int("follows", stats.Follows),
	)
	return stats, nil
}

func (s *Seeder) clear(ctx context.Context) error {
	middleware.Logger.Info("Clearing existing data")
	// Children first so the order also works without cascading FKs.
	for _, m := range []any{
		&models.SearchHistory{},
		&models.Notification{},
		&models.Like{},
		&models.Follow{},
		&models.Comment{},
		&models.Post{},
		&models.User{},
	} {
		if err := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) createUsers(ctx context.Context, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		u := &models.User{
			Username:  fmt.Sprintf("%s%d", s.faker.Username(), s.faker.Number(100, 999)),
			Nickname:  s.faker.FirstName(),
			Slogan:    s.faker.HipsterSentence(6),
			AboutMe:   s.faker.Paragraph(1, 3, 8, " "),
			AvatarURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", s.faker.UUID()),
			Location:  s.faker.City(),
		}
		if err := s.store.Users().Create(ctx, u); err != nil {
			if models.IsCode(err, models.CodeConflict) {
				continue
			}
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (s *Seeder) createPosts(ctx context.Context, users []*models.User, count int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := users[s.rng.Intn(len(users))]
		content := s.faker.Paragraph(1, 4, 12, "\n\n")
		p := &models.Post{
			AuthorID:  author.ID,
			Title:     models.DeriveTitle(content),
			Excerpt:   s.faker.Sentence(12),
			Content:   content,
			Slug:      fmt.Sprintf("post-%d-%s", time.Now().UnixMilli(), s.faker.LetterN(8)),
			Published: s.rng.Intn(10) > 0,
			CreatedAt: s.randomPast(),
		}
		if err := s.store.Posts().Create(ctx, p); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, nil
}

func (s *Seeder) engage(ctx context.Context, users []*models.User, posts []*models.Post, stats *Stats) error {
	for _, u := range users {
		for _, other := range users {
			if other.ID == u.ID || s.rng.Intn(3) != 0 {
				continue
			}
			if _, err := s.engagement.ToggleFollow(ctx, u, other.ID); err != nil {
				return fmt.Errorf("follow: %w", err)
			}
			stats.Follows++
		}
	}

	for _, p := range posts {
		for _, u := range users {
			if s.rng.Intn(2) == 0 {
				if _, err := s.engagement.ToggleLike(ctx, u, p.ID); err != nil {
					return fmt.Errorf("like: %w", err)
				}
				stats.Likes++
			}
			if s.rng.Intn(4) == 0 {
				in := service.CreateCommentInput{PostID: p.ID, Content: s.faker.Sentence(10), Source: service.SourceSpace}
				if _, err := s.comments.CreateComment(ctx, u, in); err != nil {
					return fmt.Errorf("comment: %w", err)
				}
				stats.Comments++
			}
		}
	}
	return nil
}

func (s *Seeder) randomPast() time.Time {
	back := time.Duration(s.rng.Intn(s.opts.MaxDays*24*60)) * time.Minute
	return time.Now().UTC().Add(-back)
}
