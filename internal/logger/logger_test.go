package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "noisy", Format: "json"})
	assert.Error(t, err)
}

func TestNewBuildsConsoleAndJSONLoggers(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		log, err := New(Config{Level: "info", Format: format})
		require.NoError(t, err, format)
		require.NotNil(t, log, format)
	}
}

func TestScopedLoggersCarryFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := &Logger{Logger: zap.New(core)}

	log.WithRequestID("req_1").Info("request completed")
	log.WithComponent("cache").Info("cache ready")
	log.WithComponent("server").WithRequestID("req_2").Info("scoped twice")

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "req_1", entries[0].ContextMap()["request_id"])
	assert.Equal(t, "cache", entries[1].ContextMap()["component"])
	assert.Equal(t, "server", entries[2].ContextMap()["component"])
	assert.Equal(t, "req_2", entries[2].ContextMap()["request_id"])
}
