package config

import (
	"time"

	"github.com/veracitylabs/veracity/internal/engine"
)

// Config represents the main configuration structure
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Engine    engine.Config   `yaml:"engine" mapstructure:"engine"`
	Auth      AuthConfig      `yaml:"auth" mapstructure:"auth"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Logging   LoggingConfig   `yaml:"logging" mapstructure:"logging"`
	WebSocket WebSocketConfig `yaml:"websocket" mapstructure:"websocket"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	MaxBatchSize int           `yaml:"max_batch_size" mapstructure:"max_batch_size"`
	BatchWorkers int           `yaml:"batch_workers" mapstructure:"batch_workers"`
}

// AuthConfig contains API key authentication configuration
type AuthConfig struct {
	Enabled bool     `yaml:"enabled" mapstructure:"enabled"`
	Keys    []APIKey `yaml:"keys" mapstructure:"keys"`
}

// APIKey describes one credential and its hourly quota. A RateLimit of 0
// means unlimited.
type APIKey struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Name      string `yaml:"name" mapstructure:"name"`
	Tier      string `yaml:"tier" mapstructure:"tier"`
	RateLimit int    `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// CacheConfig contains result cache configuration
type CacheConfig struct {
	Backend    string        `yaml:"backend" mapstructure:"backend"` // memory, redis, or none
	RedisURL   string        `yaml:"redis_url" mapstructure:"redis_url"`
	KeyPrefix  string        `yaml:"key_prefix" mapstructure:"key_prefix"`
	DefaultTTL time.Duration `yaml:"default_ttl" mapstructure:"default_ttl"`
}

// StoreConfig contains analysis history database configuration
type StoreConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	DatabaseURL     string        `yaml:"database_url" mapstructure:"database_url"`
	MaxOpenConns    int           `yaml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // json or console
	File   struct {
		Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
		Path    string `yaml:"path" mapstructure:"path"`
	} `yaml:"file" mapstructure:"file"`
}

// WebSocketConfig contains live event stream configuration
type WebSocketConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// GetDefaults returns a configuration with sensible defaults
func GetDefaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
			MaxBatchSize: 100,
			BatchWorkers: 4,
		},
		Engine: engine.DefaultConfig(),
		Auth: AuthConfig{
			Enabled: true,
			Keys: []APIKey{
				{Key: "vs_demo_key_12345", Name: "Demo Key", Tier: "free", RateLimit: 100},
				{Key: "vs_pro_key_67890", Name: "Pro Key", Tier: "pro", RateLimit: 1000},
				{Key: "vs_enterprise_key", Name: "Enterprise Key", Tier: "enterprise", RateLimit: 0},
			},
		},
		Cache: CacheConfig{
			Backend:    "memory",
			RedisURL:   "redis://localhost:6379/0",
			KeyPrefix:  "veracity",
			DefaultTTL: time.Hour,
		},
		Store: StoreConfig{
			Enabled:         false,
			DatabaseURL:     "postgres://localhost:5432/veracity?sslmode=disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		WebSocket: WebSocketConfig{
			Enabled: true,
			Path:    "/ws",
		},
	}
}
