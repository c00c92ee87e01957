package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the full application configuration, populated from
// environment variables.
type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Snapshot   SnapshotConfig
	Cache      CacheConfig
	Redis      RedisConfig
	Revalidate RevalidateConfig
	Admin      AdminConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int

	// Per-call deadlines for the source connector. Reads are tight so a
	// slow source degrades to the snapshot instead of stalling a page.
	ReadTimeout  time.Duration
	QueryTimeout time.Duration
	WriteTimeout time.Duration
	SyncTimeout  time.Duration
}

type SnapshotConfig struct {
	// Path of the JSONL snapshot file. One record per line, hand-editable.
	Path string
	// Watch enables the fsnotify watcher that drops the memory cache when
	// the file changes outside this process.
	Watch bool
}

type CacheConfig struct {
	// TTL bounds how stale a cached listing may be before the snapshot is
	// re-read.
	TTL time.Duration
}

type RedisConfig struct {
	// Enabled turns on the cross-process invalidation channel. The system
	// is correct without it; sibling processes just wait out their TTL.
	Enabled  bool
	Host     string
	Password string
	DB       int
	Channel  string
}

type RevalidateConfig struct {
	// URL of the page-rendering host's revalidation endpoint. Empty
	// disables the signal.
	URL    string
	Secret string
}

type AdminConfig struct {
	APIKey string
}

// Load reads config from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Content API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "content"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxConns:     getEnvInt("DB_MAX_CONNS", 25),
			MinConns:     getEnvInt("DB_MIN_CONNS", 5),
			ReadTimeout:  getEnvDuration("DB_READ_TIMEOUT", 3*time.Second),
			QueryTimeout: getEnvDuration("DB_QUERY_TIMEOUT", 5*time.Second),
			WriteTimeout: getEnvDuration("DB_WRITE_TIMEOUT", 10*time.Second),
			SyncTimeout:  getEnvDuration("DB_SYNC_TIMEOUT", 30*time.Second),
		},
		Snapshot: SnapshotConfig{
			Path:  getEnv("SNAPSHOT_PATH", "data/content.jsonl"),
			Watch: getEnvBool("SNAPSHOT_WATCH", false),
		},
		Cache: CacheConfig{
			TTL: getEnvDuration("CACHE_TTL", 60*time.Second),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Channel:  getEnv("REDIS_INVALIDATE_CHANNEL", "content:invalidate"),
		},
		Revalidate: RevalidateConfig{
			URL:    getEnv("REVALIDATE_URL", ""),
			Secret: getEnv("REVALIDATE_SECRET", ""),
		},
		Admin: AdminConfig{
			APIKey: getEnv("ADMIN_API_KEY", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that the config is usable in the target environment.
func (c *Config) Validate() error {
	if c.App.Environment == "production" {
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if c.Admin.APIKey == "" {
			return fmt.Errorf("ADMIN_API_KEY must be set in production")
		}
		if c.Revalidate.URL != "" && c.Revalidate.Secret == "" {
			return fmt.Errorf("REVALIDATE_SECRET must be set when REVALIDATE_URL is configured")
		}
	}

	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
