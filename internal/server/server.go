// Package server contains the HTTP handlers for the family timeline API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "heirloom/docs" // swagger docs
	"heirloom/internal/cache"
	"heirloom/internal/config"
	"heirloom/internal/database"
	"heirloom/internal/middleware"
	"heirloom/internal/models"
	"heirloom/internal/notifications"
	"heirloom/internal/repository"
	"heirloom/internal/service"
	"heirloom/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config          *config.Config
	db              *gorm.DB
	redis           *redis.Client
	blobs           storage.BlobStore
	app             *fiber.App
	promMiddleware  *fiberprometheus.FiberPrometheus
	notifier        *notifications.Notifier
	userService     *service.UserService
	storyService    *service.StoryService
	likeService     *service.LikeService
	commentService  *service.CommentService
	timelineService *service.TimelineService
}

// NewServer connects to the database, Redis and blob storage and wires the services.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	blobs, err := storage.New(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("blob storage init failed: %w", err)
	}

	return NewServerWithDeps(cfg, db, cache.GetClient(), blobs)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, blobs storage.BlobStore) (*Server, error) {
	if db == nil {
		return nil, errors.New("database is required")
	}
	if blobs == nil {
		return nil, errors.New("blob storage is required")
	}

	userRepo := repository.NewUserRepository(db)
	storyRepo := repository.NewStoryRepository(db)
	mediaRepo := repository.NewMediaRepository(db)
	ledger := repository.NewInteractionRepository(db)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		blobs:          blobs,
		promMiddleware: middleware.InitMetrics("heirloom-api"),
		notifier:       notifications.NewNotifier(redisClient),
	}

	media := service.NewMediaService(blobs, cfg)
	aggregator := service.NewAggregator(mediaRepo, ledger)
	server.userService = service.NewUserService(userRepo)
	server.storyService = service.NewStoryService(storyRepo, userRepo, media, server.notifier)
	server.likeService = service.NewLikeService(ledger, server.notifier)
	server.commentService = service.NewCommentService(ledger, storyRepo, userRepo, server.notifier)
	server.timelineService = service.NewTimelineService(storyRepo, aggregator)

	return server, nil
}

// NewApp builds the Fiber app with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	bodyLimitMB := s.config.BodyLimitMB
	if bodyLimitMB <= 0 {
		bodyLimitMB = 520
	}
	app := fiber.New(fiber.Config{
		AppName:      "Heirloom API",
		BodyLimit:    bodyLimitMB * 1024 * 1024,
		ErrorHandler: s.ErrorHandler,
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestSpans())

	// Context Middleware to propagate Request ID and trace ID
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New(helmet.Config{
		// Media is embedded by the web client from another origin.
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.StructuredLogger())

	// CORS must run before the limiter so error responses carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return models.RespondWithError(c, fiber.StatusTooManyRequests, &models.AppError{
				Code:    models.CodeRateLimited,
				Message: "Too many requests, please try again later.",
			})
		},
	}))
}

// Redis is optional, so every route quota is lenient when it is down.
var (
	storyQuota   = middleware.Quota{Action: "create_story", Limit: 10, Window: 10 * time.Minute}
	likeQuota    = middleware.Quota{Action: "toggle_like", Limit: 120, Window: time.Minute}
	commentQuota = middleware.Quota{Action: "create_comment", Limit: 30, Window: time.Minute}
)

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	if s.config.StorageDriver == config.StorageDriverLocal || s.config.StorageDriver == "" {
		app.Static(s.config.UploadURLPrefix, s.config.UploadDir, fiber.Static{
			MaxAge: 3600,
		})
	}

	api := app.Group("/api")
	api.Get("/swagger/*", swagger.HandlerDefault)

	auth := api.Group("/auth", s.AuthRequired())
	auth.Post("/session", s.CreateSession)
	auth.Get("/user", s.GetCurrentUser)

	stories := api.Group("/stories")
	stories.Get("/", s.OptionalAuth(), s.GetTimeline)
	stories.Post("/", s.AuthRequired(), middleware.Throttle(s.redis, storyQuota), s.CreateStory)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	stories.Post("/:id/like", s.AuthRequired(), middleware.Throttle(s.redis, likeQuota), s.ToggleLike)
	stories.Post("/:id/comment", s.AuthRequired(), middleware.Throttle(s.redis, commentQuota), s.CreateComment)
	stories.Get("/:id/comments", s.OptionalAuth(), s.GetComments)
	stories.Get("/:id", s.OptionalAuth(), s.GetStory)
}

// ErrorHandler renders errors that escaped a handler in the standard envelope.
func (s *Server) ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return models.RespondWithError(c, fe.Code, &models.AppError{
			Code:    codeForStatus(fe.Code),
			Message: fe.Message,
		})
	}

	status := mapServiceError(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
	}
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		err = models.NewInternalError(err)
	}
	return models.RespondWithError(c, status, err)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
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

	middleware.Logger.Info("server shutdown complete")
	return nil
}
