package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/veracitylabs/veracity/internal/engine"
)

// Config contains result cache configuration
type Config struct {
	Backend    string        `yaml:"backend" mapstructure:"backend"`
	RedisURL   string        `yaml:"redis_url" mapstructure:"redis_url"`
	KeyPrefix  string        `yaml:"key_prefix" mapstructure:"key_prefix"`
	DefaultTTL time.Duration `yaml:"default_ttl" mapstructure:"default_ttl"`
}

// Stats tracks cache performance
type Stats struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
	Entries int64   `json:"entries"`
}

// ResultCache stores completed analysis results keyed by content hash. The
// engine itself never touches the cache; callers hash the original text and
// look results up before invoking it.
type ResultCache interface {
	Get(ctx context.Context, textHash string) (*engine.Result, bool)
	Set(ctx context.Context, textHash string, result *engine.Result) error
	Stats(ctx context.Context) (*Stats, error)
	Close() error
}

// Key computes the content hash for a text: hex-encoded SHA-256 of the raw
// bytes, before any normalization.
func Key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
