package container

import (
	"context"
	"fmt"
	"time"

	"content-backend/internal/config"
	memcache "content-backend/internal/domains/content/cache"
	contentHandler "content-backend/internal/domains/content/handler"
	"content-backend/internal/domains/content/repository"
	"content-backend/internal/domains/content/service"
	"content-backend/internal/domains/content/snapshot"
	infraCache "content-backend/internal/infrastructure/cache"
	"content-backend/internal/infrastructure/database"
	"content-backend/internal/infrastructure/revalidate"
	"content-backend/pkg/logger"
)

// Container holds the application's dependency graph, built once per
// process in dependency order: config, infrastructure, tiers, services,
// handlers.
type Container struct {
	Config *config.Config

	// Infrastructure
	DB          *database.PostgresDB
	Redis       *infraCache.RedisClient // nil unless REDIS_ENABLED
	Snapshot    *snapshot.Store
	MemoryCache *memcache.Memory
	Revalidator revalidate.Signaler

	// Data access
	Source repository.Source

	// Services
	Resolver   service.Reader
	Reconciler service.Writer

	// Handlers
	ContentHandler *contentHandler.Handler
	AdminHandler   *contentHandler.AdminHandler
}

// NewContainer initializes the full dependency graph. Order matters: a
// failure at any step aborts startup.
func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	c.DB = db

	// An unreachable source at boot is survivable: reads come from the
	// snapshot until it recovers.
	if err := db.HealthCheck(ctx); err != nil {
		logger.Warn("container: source store unreachable at startup, serving from snapshot", err)
	}

	if cfg.Redis.Enabled {
		redis := infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Channel)
		if err := redis.Connect(ctx); err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		c.Redis = redis
	}

	c.Snapshot = snapshot.NewStore(cfg.Snapshot.Path)
	c.MemoryCache = memcache.New(cfg.Cache.TTL, nil)
	c.Revalidator = revalidate.NewClient(cfg.Revalidate.URL, cfg.Revalidate.Secret)

	c.Source = repository.NewPostgresSource(db.Pool, cfg.Database)

	c.Resolver = service.NewResolver(c.MemoryCache, c.Snapshot, c.Source)

	var publisher service.InvalidationPublisher
	if c.Redis != nil {
		publisher = c.Redis
	}
	c.Reconciler = service.NewReconciler(c.Source, c.Snapshot, c.MemoryCache, c.Revalidator, publisher, nil)

	c.ContentHandler = contentHandler.NewHandler(c.Resolver)
	c.AdminHandler = contentHandler.NewAdminHandler(c.Resolver, c.Reconciler)

	logger.Info("container: initialized", map[string]interface{}{
		"environment": cfg.App.Environment,
		"snapshot":    cfg.Snapshot.Path,
		"cache_ttl":   cfg.Cache.TTL.String(),
		"redis":       cfg.Redis.Enabled,
	})

	return c, nil
}

// StartBackground launches the optional coherence helpers: the fsnotify
// watcher on the snapshot file and the redis invalidation subscriber. Both
// run until ctx is cancelled; the system is correct with neither running.
func (c *Container) StartBackground(ctx context.Context) {
	if c.Config.Snapshot.Watch {
		go func() {
			if err := c.Snapshot.Watch(ctx, c.MemoryCache); err != nil {
				logger.Error("container: snapshot watcher stopped", err)
			}
		}()
	}

	if c.Redis != nil {
		go c.Redis.Subscribe(ctx, c.MemoryCache.Invalidate)
	}
}

// Cleanup releases infrastructure handles on shutdown.
func (c *Container) Cleanup() {
	if c.DB != nil {
		c.DB.Close()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.Error("container: closing redis", err)
		}
	}
}
