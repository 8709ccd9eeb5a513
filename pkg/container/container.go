package container

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"blog-backend/internal/config"
	infraCache "blog-backend/internal/infrastructure/cache"
	"blog-backend/internal/infrastructure/database"
	"blog-backend/pkg/cache"
	"blog-backend/pkg/jwt"

	articleHandler "blog-backend/internal/domains/article/handler"
	articleRepo "blog-backend/internal/domains/article/repository"
	articleService "blog-backend/internal/domains/article/service"
	"blog-backend/internal/domains/user"
	userHandler "blog-backend/internal/domains/user/handler"
	userRepo "blog-backend/internal/domains/user/repository"
	userService "blog-backend/internal/domains/user/service"
)

// Container is the root of the dependency graph. Everything in it is a
// singleton living for the process lifetime.
type Container struct {
	// Infrastructure
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	JWTManager *jwt.Manager

	// Repositories
	UserRepo    user.Repository
	ArticleRepo articleRepo.ArticleRepository

	// Services
	UserService    user.Service
	ArticleService articleService.Service

	// Handlers
	UserHandler    *userHandler.UserHandler
	ArticleHandler *articleHandler.ArticleHandler
}

// NewContainer initializes the whole dependency graph in order:
// config, infrastructure (Postgres, Redis), repositories, services, handlers.
func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Info().Str("environment", cfg.App.Environment).Msg("Config loaded")

	// Postgres
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	log.Info().Msg("Database connected")

	// Redis
	redisCache := infraCache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if err := redisCache.Ping(ctx); err != nil {
		return nil, fmt.Errorf("redis health check failed: %w", err)
	}
	c.Cache = redisCache
	log.Info().Msg("Redis connected")

	// Shared helpers
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Repositories
	c.UserRepo = userRepo.NewPostgresRepository(db.Pool)
	c.ArticleRepo = articleRepo.NewPostgresRepository(db.Pool)

	// Services
	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager)
	c.ArticleService = articleService.NewArticleService(c.ArticleRepo, c.Cache, cfg.Cache)

	// Handlers
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.ArticleHandler = articleHandler.NewArticleHandler(c.ArticleService)

	return c, nil
}

// Cleanup releases infrastructure resources on shutdown.
func (c *Container) Cleanup() {
	if c.DB != nil {
		c.DB.Close()
	}
	if closer, ok := c.Cache.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close cache client")
		}
	}
}
