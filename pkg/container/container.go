package container

import (
	"context"
	"fmt"
	"time"

	"storyhouse-backend/internal/config"
	"storyhouse-backend/internal/infrastructure/cache"
	"storyhouse-backend/internal/infrastructure/database"
	"storyhouse-backend/internal/infrastructure/storage"
	"storyhouse-backend/pkg/logger"
	"storyhouse-backend/pkg/session"

	"storyhouse-backend/internal/domains/story"
	storyHandler "storyhouse-backend/internal/domains/story/handler"
	storyRepo "storyhouse-backend/internal/domains/story/repository"
	storyService "storyhouse-backend/internal/domains/story/service"
	"storyhouse-backend/internal/domains/user"
	userHandler "storyhouse-backend/internal/domains/user/handler"
	userRepo "storyhouse-backend/internal/domains/user/repository"
	userService "storyhouse-backend/internal/domains/user/service"
)

// Container is the root of the dependency graph. Initialization order:
// config, infrastructure, repositories, services, handlers.
type Container struct {
	Config   *config.Config
	DB       *database.PostgresDB
	Redis    *cache.RedisClient
	Sessions *session.Manager
	Backend  storage.Backend
	Uploader *storage.Uploader

	UserRepo    user.Repository
	UserService user.Service
	UserHandler *userHandler.UserHandler

	StoryRepo    story.Repository
	StoryService story.Service
	StoryHandler *storyHandler.StoryHandler
}

func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	c.Config = cfg

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c.DB, err = database.Connect(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	c.Redis = cache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := c.Redis.Connect(ctx); err != nil {
		c.DB.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}

	c.Sessions = session.NewManager(
		c.Redis.Client,
		cfg.Session.Secret,
		time.Duration(cfg.Session.TTLHours)*time.Hour,
		cfg.App.Environment == "production",
	)

	c.Backend, err = newBackend(cfg)
	if err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("storage: %w", err)
	}
	c.Uploader = storage.NewUploader(c.Backend, storage.NewImageProcessor(), cfg.Upload.MaxBytes)

	c.UserRepo = userRepo.NewPostgresRepository(c.DB.Pool)
	c.UserService = userService.NewUserService(c.UserRepo)
	c.UserHandler = userHandler.NewUserHandler(c.UserService, c.Sessions)

	c.StoryRepo = storyRepo.NewPostgresRepository(c.DB)
	c.StoryService = storyService.NewStoryService(c.StoryRepo, c.Uploader)
	c.StoryHandler = storyHandler.NewStoryHandler(c.StoryService, c.Sessions, c.Uploader, cfg.Upload.MaxBytes)

	return c, nil
}

func newBackend(cfg *config.Config) (storage.Backend, error) {
	switch cfg.Upload.Backend {
	case "minio":
		return storage.NewMinIOStorage(cfg.MinIO)
	default:
		return storage.NewDiskStorage(cfg.Upload.Dir)
	}
}

// Cleanup releases infrastructure resources on shutdown.
func (c *Container) Cleanup() {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.Warn("redis close", err)
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
