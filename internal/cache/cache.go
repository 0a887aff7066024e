package cache

import (
	"fmt"

	"go.uber.org/zap"
)

// New creates the result cache backend named by the configuration. The
// "none" backend disables caching entirely and returns nil.
func New(cfg *Config, logger *zap.Logger) (ResultCache, error) {
	switch cfg.Backend {
	case "redis":
		return newRedisCache(cfg, logger)
	case "memory":
		return newMemoryCache(cfg, logger), nil
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", cfg.Backend)
	}
}
