package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(env(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"PORT":           "9090",
		"STORAGE_TYPE":   "Redis",
		"REDIS_URL":      "redis://localhost:6379/0",
		"SESSION_TTL":    "2h",
		"REVEAL_DELAY":   "1s",
		"COOLDOWN_DELAY": "1500ms",
		"LOG_LEVEL":      "debug",
	}))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, StorageRedis, cfg.StorageType)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, time.Second, cfg.RevealDelay)
	assert.Equal(t, 1500*time.Millisecond, cfg.CooldownDelay)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestFromEnvRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"non-numeric port", map[string]string{"PORT": "http"}},
		{"port out of range", map[string]string{"PORT": "70000"}},
		{"unknown storage", map[string]string{"STORAGE_TYPE": "postgres"}},
		{"redis without url", map[string]string{"STORAGE_TYPE": "redis"}},
		{"bad duration", map[string]string{"REVEAL_DELAY": "soon"}},
		{"zero duration", map[string]string{"COOLDOWN_DELAY": "0s"}},
		{"bad log level", map[string]string{"LOG_LEVEL": "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(env(tt.vars))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoadReadsProcessEnvironment(t *testing.T) {
	t.Setenv("PORT", "8181")
	t.Setenv("STORAGE_TYPE", "memory")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8181, cfg.Port)
}
