package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all service configuration.
type Config struct {
	Server    ServerConfig
	PiP       PiPConfig
	Driver    DriverConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8600"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// PiPConfig tunes the session state machine's cooperative retries.
//
// Attach retries wait for the anchor view to acquire a window; start retries
// wait for the platform's start-possible predicate. Both are bounded: on
// exhaustion the attempt is reported and abandoned, never spun forever.
type PiPConfig struct {
	AnchorRetryInterval time.Duration `envconfig:"PIP_ANCHOR_RETRY_INTERVAL" default:"50ms"`
	AnchorRetryMax      int           `envconfig:"PIP_ANCHOR_RETRY_MAX" default:"100"`
	StartRetryInterval  time.Duration `envconfig:"PIP_START_RETRY_INTERVAL" default:"500ms"`
	StartRetryMax       int           `envconfig:"PIP_START_RETRY_MAX" default:"20"`
	PreferredWidth      int           `envconfig:"PIP_PREFERRED_WIDTH" default:"0"`
	PreferredHeight     int           `envconfig:"PIP_PREFERRED_HEIGHT" default:"0"`
}

// DriverConfig selects and tunes the platform PiP driver.
type DriverConfig struct {
	Name         string        `envconfig:"PIP_DRIVER" default:"sim"`
	StartLatency time.Duration `envconfig:"PIP_DRIVER_START_LATENCY" default:"10ms"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// ContentPreset declares content the service registers at startup so hosts
// can reference it by ID without a registration round-trip.
type ContentPreset struct {
	ID        string                 `yaml:"id"`
	Blueprint map[string]interface{} `yaml:"blueprint"`
}

// Presets holds startup declarations loaded from a YAML file.
type Presets struct {
	Content []ContentPreset `yaml:"content"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// LoadPresets reads startup content declarations from a YAML file.
func LoadPresets(path string) (*Presets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets: %w", err)
	}

	var p Presets
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse presets: %w", err)
	}
	return &p, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8600",
			Host: "0.0.0.0",
		},
		PiP: PiPConfig{
			AnchorRetryInterval: 50 * time.Millisecond,
			AnchorRetryMax:      100,
			StartRetryInterval:  500 * time.Millisecond,
			StartRetryMax:       20,
		},
		Driver: DriverConfig{
			Name:         "sim",
			StartLatency: 10 * time.Millisecond,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
