package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends accepted in STORAGE_TYPE
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the server configuration read from the environment
type Config struct {
	Port          int
	StorageType   string
	RedisURL      string
	SessionTTL    time.Duration
	RevealDelay   time.Duration
	CooldownDelay time.Duration
	LogLevel      slog.Level
}

// Default returns the configuration used when no variables are set
func Default() Config {
	return Config{
		Port:          8080,
		StorageType:   StorageMemory,
		SessionTTL:    24 * time.Hour,
		RevealDelay:   3 * time.Second,
		CooldownDelay: 5 * time.Second,
		LogLevel:      slog.LevelInfo,
	}
}

// Load reads a .env file if one exists, then the process environment.
// Variables already set in the environment win over the .env file.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from the given lookup function
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return cfg, fmt.Errorf("%w: PORT %q", ErrInvalidConfig, v)
		}
		cfg.Port = port
	}

	if v, ok := lookup("STORAGE_TYPE"); ok && v != "" {
		switch strings.ToLower(v) {
		case StorageMemory:
			cfg.StorageType = StorageMemory
		case StorageRedis:
			cfg.StorageType = StorageRedis
		default:
			return cfg, fmt.Errorf("%w: STORAGE_TYPE %q", ErrInvalidConfig, v)
		}
	}

	cfg.RedisURL, _ = lookup("REDIS_URL")
	if cfg.StorageType == StorageRedis && cfg.RedisURL == "" {
		return cfg, fmt.Errorf("%w: REDIS_URL required when STORAGE_TYPE=redis", ErrInvalidConfig)
	}

	durations := []struct {
		name string
		dst  *time.Duration
	}{
		{"SESSION_TTL", &cfg.SessionTTL},
		{"REVEAL_DELAY", &cfg.RevealDelay},
		{"COOLDOWN_DELAY", &cfg.CooldownDelay},
	}
	for _, d := range durations {
		v, ok := lookup(d.name)
		if !ok || v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil || parsed <= 0 {
			return cfg, fmt.Errorf("%w: %s %q", ErrInvalidConfig, d.name, v)
		}
		*d.dst = parsed
	}

	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return cfg, fmt.Errorf("%w: LOG_LEVEL %q", ErrInvalidConfig, v)
		}
	}

	return cfg, nil
}

// Addr returns the listen address for the configured port
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
