package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime configuration.
type Config struct {
	Runtime  RuntimeConfig
	Logging  LogConfig
	Debug    DebugConfig
	Display  DisplayConfig
	Manifest ManifestConfig
}

// RuntimeConfig holds application actor tuning.
type RuntimeConfig struct {
	LongPressThreshold time.Duration `envconfig:"LONG_PRESS_THRESHOLD" default:"1s"`
	LongPressPoll      time.Duration `envconfig:"LONG_PRESS_POLL" default:"200ms"`
	IndicatorTimeout   time.Duration `envconfig:"INDICATOR_TIMEOUT" default:"1500ms"`
	DefaultWindow      string        `envconfig:"DEFAULT_WINDOW" default:"MainWindow"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// DebugConfig holds the debug HTTP server configuration.
type DebugConfig struct {
	Address           string   `envconfig:"DEBUG_ADDR" default:"127.0.0.1:9090"`
	Enabled           bool     `envconfig:"DEBUG_ENABLED" default:"true"`
	CORSOrigins       []string `envconfig:"DEBUG_CORS_ORIGINS" default:"http://localhost:3000"`
	RequestsPerSecond int      `envconfig:"DEBUG_RPS" default:"20"`
	Burst             int      `envconfig:"DEBUG_BURST" default:"40"`
}

// DisplayConfig holds the e-ink refresh budget.
type DisplayConfig struct {
	FramesPerSecond float64 `envconfig:"DISPLAY_FPS" default:"4"`
	Burst           int     `envconfig:"DISPLAY_BURST" default:"2"`
}

// ManifestConfig locates the application manifest.
type ManifestConfig struct {
	Path string `envconfig:"MANIFEST_PATH" default:"apps.toml"`
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

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Runtime: RuntimeConfig{
			LongPressThreshold: time.Second,
			LongPressPoll:      200 * time.Millisecond,
			IndicatorTimeout:   1500 * time.Millisecond,
			DefaultWindow:      "MainWindow",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		Debug: DebugConfig{
			Address:           "127.0.0.1:9090",
			Enabled:           true,
			CORSOrigins:       []string{"http://localhost:3000"},
			RequestsPerSecond: 20,
			Burst:             40,
		},
		Display: DisplayConfig{
			FramesPerSecond: 4,
			Burst:           2,
		},
		Manifest: ManifestConfig{
			Path: "apps.toml",
		},
	}
}
