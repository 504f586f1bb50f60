package config

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/spf13/viper"
)

// Runtime publishes the live config. Reloads swap the whole pointer, so
// request goroutines always read one consistent snapshot and never see a
// half-applied reload.
type Runtime struct {
	ptr atomic.Pointer[Config]
}

func NewRuntime(cfg *Config) *Runtime {
	r := &Runtime{}
	r.ptr.Store(cfg)
	return r
}

// Load returns the current snapshot. Callers must not mutate it.
func (r *Runtime) Load() *Config {
	return r.ptr.Load()
}

// Swap publishes a new snapshot.
func (r *Runtime) Swap(cfg *Config) {
	r.ptr.Store(cfg)
}

type Config struct {
	Server    ServerConfig
	Snapshot  SnapshotConfig  `mapstructure:"snapshot"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Events    EventsConfig    `mapstructure:"events"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// Set from command line flags, not from the config file.
	CatalogCheckOnly bool `mapstructure:"-"`
}

type ServerConfig struct {
	Port string
	Mode string
}

// SnapshotConfig selects the backend holding the single user snapshot.
// The whole record is written as one object, never partially updated.
type SnapshotConfig struct {
	Type       string `mapstructure:"type"` // file | sqlite | redis
	Key        string `mapstructure:"key"`
	FilePath   string `mapstructure:"file_path"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

// CatalogConfig Path empty means the embedded course catalog is used.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"` // local | minio
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
}

type EventsConfig struct {
	// UseRedis broadcasts course events through Redis pub/sub so every
	// instance sees them; otherwise events stay in-process.
	UseRedis bool   `mapstructure:"use_redis"`
	Channel  string `mapstructure:"channel"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("EDUTECH")
	viper.AutomaticEnv()

	// Snapshot
	viper.BindEnv("snapshot.type", "SNAPSHOT_TYPE")
	viper.BindEnv("snapshot.key", "SNAPSHOT_KEY")
	viper.BindEnv("snapshot.file_path", "SNAPSHOT_FILE_PATH")
	viper.BindEnv("snapshot.sqlite_path", "SNAPSHOT_SQLITE_PATH")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// JWT
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// Catalog
	viper.BindEnv("catalog.path", "CATALOG_PATH")

	// Storage
	viper.BindEnv("storage.type", "STORAGE_TYPE")
	viper.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour

	switch cfg.Snapshot.Type {
	case "file", "sqlite", "redis":
	case "":
		cfg.Snapshot.Type = "file"
	default:
		return nil, fmt.Errorf("unknown snapshot store type %q", cfg.Snapshot.Type)
	}

	if cfg.Snapshot.Key == "" {
		cfg.Snapshot.Key = "edutech_user"
	}
	if cfg.Events.Channel == "" {
		cfg.Events.Channel = "edutech_events"
	}

	// Release mode requires a real JWT secret.
	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}

	return &cfg, nil
}
