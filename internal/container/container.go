package container

import (
	"komunitas-be/internal/config"
	"komunitas-be/internal/repository"
	"komunitas-be/internal/service"
	"komunitas-be/pkg/logger"
	"komunitas-be/pkg/redis"
)

// Container wires the application dependencies together.
type Container struct {
	Config *config.Config
	Logger *logger.Logger
	Redis  *redis.Client
	API    repository.ActivityAPI

	Activities *service.ActivityService
	Lookups    *service.LookupService
	Editor     *service.EditorService
	Auth       *service.AuthService
}

// New builds the dependency graph. Redis is optional: without it the service
// runs uncached and drafts live only in process memory.
func New(cfg *config.Config, log *logger.Logger) (*Container, error) {
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, log.Logger)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize Redis client, proceeding without caching")
		} else {
			redisClient = client
			log.WithField("cache_prefix", client.KeyBuilder.GetPrefix()).Info("Redis client initialized")
		}
	} else {
		log.Info("Redis URL not configured, proceeding without caching")
	}

	api := repository.NewKegiatanAPI(cfg, log)
	lookups := service.NewLookupService(api, redisClient, log)
	activities := service.NewActivityService(api, lookups, redisClient, log)
	editor := service.NewEditorService(api, lookups, activities, redisClient, log)
	auth := service.NewAuthService(cfg, redisClient, log)

	return &Container{
		Config:     cfg,
		Logger:     log,
		Redis:      redisClient,
		API:        api,
		Activities: activities,
		Lookups:    lookups,
		Editor:     editor,
		Auth:       auth,
	}, nil
}

// HasRedis reports whether caching is available.
func (c *Container) HasRedis() bool {
	return c.Redis != nil
}
