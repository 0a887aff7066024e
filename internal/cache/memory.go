package cache

import (
	"context"
	"sync/atomic"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/veracitylabs/veracity/internal/engine"
)

// memoryCache is an in-process result cache for single-node deployments
// where Redis is not configured.
type memoryCache struct {
	store  *gocache.Cache
	logger *zap.Logger
	hits   int64
	misses int64
}

func newMemoryCache(cfg *Config, logger *zap.Logger) *memoryCache {
	ttl := cfg.DefaultTTL
	cleanup := 2 * ttl
	if ttl <= 0 {
		ttl = gocache.NoExpiration
		cleanup = 0
	}

	logger.Info("Memory result cache initialized",
		zap.Duration("default_ttl", cfg.DefaultTTL))

	return &memoryCache{
		store:  gocache.New(ttl, cleanup),
		logger: logger,
	}
}

func (m *memoryCache) Get(_ context.Context, textHash string) (*engine.Result, bool) {
	entry, found := m.store.Get(textHash)
	if !found {
		atomic.AddInt64(&m.misses, 1)
		return nil, false
	}

	result, ok := entry.(*engine.Result)
	if !ok {
		atomic.AddInt64(&m.misses, 1)
		return nil, false
	}

	atomic.AddInt64(&m.hits, 1)
	m.logger.Debug("Cache hit", zap.String("text_hash", textHash))
	return result, true
}

func (m *memoryCache) Set(_ context.Context, textHash string, result *engine.Result) error {
	m.store.SetDefault(textHash, result)
	return nil
}

func (m *memoryCache) Stats(_ context.Context) (*Stats, error) {
	stats := &Stats{
		Hits:    atomic.LoadInt64(&m.hits),
		Misses:  atomic.LoadInt64(&m.misses),
		Entries: int64(m.store.ItemCount()),
	}
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total) * 100
	}
	return stats, nil
}

func (m *memoryCache) Close() error {
	m.store.Flush()
	return nil
}
