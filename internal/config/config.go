// Package config loads paylist settings from YAML.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/aretw0/paylist/pkg/adapters/websocket"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given.
const DefaultPath = "paylist.yaml"

// Config is the on-disk configuration. Zero fields take defaults.
type Config struct {
	Endpoint          string      `yaml:"endpoint"`
	AppID             string      `yaml:"app_id"`
	Language          string      `yaml:"language"`
	LogLevel          string      `yaml:"log_level"`
	CorrelateRequests bool        `yaml:"correlate_requests"`
	RateLimit         RateLimit   `yaml:"rate_limit"`
	Server            Server      `yaml:"server"`
	Redis             RedisConfig `yaml:"redis"`
}

// RateLimit paces frames sent to the upstream.
type RateLimit struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// Server configures `paylist serve`.
type Server struct {
	Addr string `yaml:"addr"`
}

// RedisConfig enables the redis store when Addr is set.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Endpoint: websocket.DefaultEndpoint,
		AppID:    websocket.DefaultAppID,
		Language: "EN",
		LogLevel: "info",
		RateLimit: RateLimit{
			RPS:   5,
			Burst: 5,
		},
		Server: Server{Addr: ":8080"},
		Redis:  RedisConfig{TTL: 30 * time.Minute},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that cannot be corrected silently.
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint must not be empty")
	}
	if !strings.HasPrefix(c.Endpoint, "ws://") && !strings.HasPrefix(c.Endpoint, "wss://") {
		return fmt.Errorf("endpoint %q must use ws:// or wss://", c.Endpoint)
	}
	if c.RateLimit.RPS < 0 {
		return fmt.Errorf("rate_limit.rps must not be negative")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Level returns the configured slog level.
func (c Config) Level() slog.Level {
	level, _ := ParseLevel(c.LogLevel)
	return level
}

// ParseLevel maps debug/info/warn/error to a slog level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log_level %q", s)
	}
	return level, nil
}
