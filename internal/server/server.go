// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"log/slog"
	"time"

	"inkspace/internal/bootstrap"
	"inkspace/internal/config"
	"inkspace/internal/middleware"
	"inkspace/internal/models"
	"inkspace/internal/notifications"
	"inkspace/internal/repository"
	"inkspace/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
	verifier       *middleware.TokenVerifier
	store          repository.Store
	notifier       *notifications.Notifier
	hub            *notifications.Hub

	postService         *service.PostService
	commentService      *service.CommentService
	engagementService   *service.EngagementService
	notificationService *service.NotificationService
	feedService         *service.FeedService
	searchService       *service.SearchService
}

// NewServer connects to the database and Redis and builds the server.
func NewServer(cfg *config.Config) (*Server, error) {
	db, rdb, err := bootstrap.InitRuntime(cfg, bootstrap.Options{SeedDemo: cfg.SeedDemoData})
	if err != nil {
		return nil, err
	}
	return NewServerWithDeps(cfg, db, rdb)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil, in which case realtime delivery stays in-process.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	store := repository.NewStore(db)
	hub := notifications.NewHub()
	notifier := notifications.NewNotifier(redisClient).WithLocalDelivery(hub)

	notificationService := service.NewNotificationService(store, notifier, cfg.NotificationRetention)

	s := &Server{
		config:              cfg,
		db:                  db,
		redis:               redisClient,
		promMiddleware:      middleware.InitMetrics("inkspace-api"),
		verifier:            middleware.NewTokenVerifier(cfg),
		store:               store,
		notifier:            notifier,
		hub:                 hub,
		postService:         service.NewPostService(store),
		commentService:      service.NewCommentService(store, notificationService),
		engagementService:   service.NewEngagementService(store, notificationService),
		notificationService: notificationService,
		feedService:         service.NewFeedService(store),
		searchService:       service.NewSearchService(store, cfg.SearchRetention),
	}
	return s, nil
}

// NotificationService exposes the notification service for background jobs.
func (s *Server) NotificationService() *service.NotificationService { return s.notificationService }

// SearchService exposes the search service for background jobs.
func (s *Server) SearchService() *service.SearchService { return s.searchService }

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected responses still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	auth := middleware.AuthRequired(s.verifier)
	optional := middleware.OptionalAuth(s.verifier)

	// Blog (public)
	blog := api.Group("/blog", optional)
	blog.Get("/", s.ListPublishedPosts)
	blog.Get("/:slug", s.GetPostBySlug)

	posts := api.Group("/posts")
	posts.Get("/:id/comments", optional, s.GetComments)
	posts.Post("/:id/comments", optional, middleware.RateLimit(
		s.redis, 10, time.Minute, "create_comment"), s.CreateComment)
	posts.Post("/", auth, middleware.RateLimit(
		s.redis, 5, time.Minute, "create_post"), s.CreatePost)
	// Specific routes before generic /:id
	posts.Post("/batch-delete", auth, s.BatchDeletePosts)
	posts.Post("/:id/like", auth, middleware.RateLimit(
		s.redis, 60, time.Minute, "toggle_like"), s.ToggleLike)
	posts.Put("/:id", auth, s.UpdatePost)
	posts.Delete("/:id", auth, s.DeletePost)

	comments := api.Group("/comments", auth)
	comments.Post("/:id/approve", s.ApproveComment)
	comments.Delete("/:id", s.DeleteComment)

	users := api.Group("/users")
	users.Post("/:id/follow", auth, middleware.RateLimit(
		s.redis, 30, time.Minute, "toggle_follow"), s.ToggleFollow)
	users.Get("/:id/following", s.GetFollowing)
	users.Get("/:id/followers", s.GetFollowers)

	api.Get("/profiles/:username", optional, s.GetProfile)
	api.Get("/feed", optional, s.GetFeed)

	notes := api.Group("/notifications")
	notes.Get("/", optional, s.ListNotifications)
	notes.Post("/read", auth, s.MarkNotificationsRead)
	notes.Delete("/", auth, s.ClearNotifications)

	search := api.Group("/search")
	search.Get("/users", optional, middleware.RateLimit(
		s.redis, 30, time.Minute, "search"), s.SearchUsers)
	search.Get("/history", optional, s.ListRecentSearches)
	search.Post("/history", optional, s.RecordSearch)
	search.Delete("/history/:id", auth, s.DeleteSearchEntry)

	api.Get("/ws", auth, s.WebsocketHandler())
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports database and Redis health. Redis is optional: an
// unconfigured client reports "unavailable" without failing readiness.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := s.store.Ping(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// NewApp builds the fiber app with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "Inkspace API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	s.app = s.NewApp()

	if s.redis != nil {
		go func() {
			if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
				middleware.Logger.Error("failed to start hub wiring",
					slog.String("hub", s.hub.Name()),
					slog.String("error", err.Error()),
				)
			}
		}()
	}

	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if err := s.hub.Shutdown(ctx); err != nil {
		middleware.Logger.Error("error shutting down hub", slog.String("error", err.Error()))
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
