package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/veracitylabs/veracity/internal/engine"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := newMemoryCache(&Config{DefaultTTL: time.Minute}, zap.NewNop())
	ctx := context.Background()

	hash := Key("some text")
	result := &engine.Result{Version: engine.Version, Score: 42, Risk: engine.RiskMedium}

	_, found := c.Get(ctx, hash)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, hash, result))

	got, found := c.Get(ctx, hash)
	require.True(t, found)
	assert.Equal(t, 42, got.Score)
	assert.Equal(t, engine.RiskMedium, got.Risk)

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Entries)
	assert.InDelta(t, 50.0, stats.HitRate, 0.01)
}

func TestKeyIsStableAndContentSensitive(t *testing.T) {
	assert.Equal(t, Key("abc"), Key("abc"))
	assert.NotEqual(t, Key("abc"), Key("abd"))
	assert.Len(t, Key(""), 64)
}

func TestNewFactory(t *testing.T) {
	c, err := New(&Config{Backend: "memory", DefaultTTL: time.Minute}, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, c)
	require.NoError(t, c.Close())

	c, err = New(&Config{Backend: "none"}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = New(&Config{Backend: "memcached"}, zap.NewNop())
	assert.Error(t, err)
}
