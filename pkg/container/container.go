package container

import (
	"context"
	"fmt"
	"time"

	"booknest/internal/config"
	infraCache "booknest/internal/infrastructure/cache"
	"booknest/internal/infrastructure/database"
	"booknest/internal/infrastructure/preview"
	"booknest/pkg/cache"
	"booknest/pkg/jwt"
	"booknest/pkg/logger"

	bookHandler "booknest/internal/domains/book/handler"
	bookRepo "booknest/internal/domains/book/repository"
	bookService "booknest/internal/domains/book/service"

	voteHandler "booknest/internal/domains/vote/handler"
	voteRepo "booknest/internal/domains/vote/repository"
	voteService "booknest/internal/domains/vote/service"

	commentHandler "booknest/internal/domains/comment/handler"
	commentRepo "booknest/internal/domains/comment/repository"
	commentService "booknest/internal/domains/comment/service"

	reviewHandler "booknest/internal/domains/review/handler"
	reviewRepo "booknest/internal/domains/review/repository"
	reviewService "booknest/internal/domains/review/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds every dependency of the API process.
// Initialization order: config -> infrastructure -> repositories -> services -> handlers.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================

	Config     *config.Config
	DB         *database.PostgresDB
	Redis      *infraCache.RedisCache
	Cache      cache.Cache
	JWTManager *jwt.Manager
	Previewer  *preview.Fetcher

	// ========================================
	// REPOSITORY LAYER (DATA ACCESS)
	// ========================================

	BookRepo    bookRepo.RepositoryInterface
	VoteRepo    voteRepo.Repository
	CommentRepo commentRepo.Repository
	ReviewRepo  reviewRepo.ReviewRepository

	// ========================================
	// SERVICE LAYER (BUSINESS LOGIC)
	// ========================================

	BookService    bookService.ServiceInterface
	VoteService    voteService.ServiceInterface
	CommentService commentService.ServiceInterface
	ReviewService  reviewService.ServiceInterface

	// ========================================
	// HANDLER LAYER (HTTP)
	// ========================================

	BookHandler    *bookHandler.Handler
	VoteHandler    *voteHandler.VoteHandler
	CommentHandler *commentHandler.CommentHandler
	ReviewHandler  *reviewHandler.ReviewHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

func NewContainer() (*Container, error) {
	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	c.Config = cfg

	logger.Info("🔧 Initializing DI Container...", map[string]interface{}{
		"environment": cfg.App.Environment,
	})

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	dbConfig, err := config.LoadDatabaseConfig(cfg.App.Environment)
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.HealthCheck(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database health check failed: %w", err)
	}

	c.DB = db
	logger.Info("✅ Database connected", nil)

	// ========================================
	// STEP 3: INITIALIZE REDIS
	// ========================================
	// Redis only backs the anonymous rate limit, which fails open
	c.Redis = infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := c.Redis.Connect(ctx); err != nil {
		logger.Warn("⚠️  Redis connection failed (non-critical)", map[string]interface{}{"error": err.Error()})
	}
	c.Cache = c.Redis

	// ========================================
	// STEP 4: SESSION + PREVIEW CLIENTS
	// ========================================
	c.JWTManager = jwt.NewManager(cfg.Session.Secret, cfg.Session.Issuer, cfg.Session.TTL)
	c.Previewer = preview.NewFetcher(preview.Config{
		Timeout:           cfg.Preview.Timeout,
		UserAgent:         cfg.Preview.UserAgent,
		MaxBytes:          cfg.Preview.MaxBytes,
		AllowPrivateHosts: cfg.Preview.AllowPrivateHosts,
	})

	// ========================================
	// STEP 5: DOMAINS
	// ========================================
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	logger.Info("🎉 DI Container initialized successfully", nil)
	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.BookRepo = bookRepo.NewPostgresRepository(pool)
	c.VoteRepo = voteRepo.NewPostgresRepository(pool)
	c.CommentRepo = commentRepo.NewPostgresRepository(pool)
	c.ReviewRepo = reviewRepo.NewPostgresReviewRepository(pool)
}

func (c *Container) initServices() {
	c.BookService = bookService.NewService(
		c.BookRepo,
		c.VoteRepo,
		c.ReviewRepo,
		c.CommentRepo,
		c.Previewer,
	)
	c.VoteService = voteService.NewVoteService(c.VoteRepo, c.BookRepo)
	c.CommentService = commentService.NewCommentService(c.CommentRepo, c.BookRepo)
	c.ReviewService = reviewService.NewReviewService(c.ReviewRepo, c.BookRepo)
}

func (c *Container) initHandlers() {
	c.BookHandler = bookHandler.NewHandler(c.BookService)
	c.VoteHandler = voteHandler.NewVoteHandler(c.VoteService)
	c.CommentHandler = commentHandler.NewCommentHandler(c.CommentService)
	c.ReviewHandler = reviewHandler.NewReviewHandler(c.ReviewService)
}

// ========================================
// CLEANUP
// ========================================

func (c *Container) Cleanup() {
	logger.Info("🧹 Cleaning up container resources...", nil)

	if c.DB != nil {
		c.DB.Close()
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.Error("⚠️  Failed to close Redis", err)
		}
	}
}
