// Package config loads the application settings from the config file, the
// first-run prompt and command-line flags
package config

import (
	"fmt"
	"io"
	"os"
	"time"
)

type (
	// Config holds all configuration settings
	Config struct {
		Reminders ReminderConfig
		Tracking  TrackingConfig
		Context   ContextConfig
		Storage   StorageConfig
		Export    ExportConfig
		Stats     StatsConfig
		Display   DisplayConfig
		System    SystemConfig
	}

	// ReminderConfig holds hydration and break reminder settings
	ReminderConfig struct {
		Sound     string
		Cmd       string
		Hydration time.Duration
		Break     time.Duration
		Tick      time.Duration
		Notify    bool
	}

	// TrackingConfig holds posture capture and aggregation settings
	TrackingConfig struct {
		SourceCmd       string
		WindowSize      int
		FlushInterval   time.Duration
		MotionWindow    int
		MotionThreshold float64
	}

	// ContextConfig holds foreground application detection settings
	ContextConfig struct {
		Cmd      string
		Fallback string
		CacheTTL time.Duration
	}

	// StorageConfig holds database settings
	StorageConfig struct {
		Driver string
	}

	// ExportConfig holds periodic export settings
	ExportConfig struct {
		Format string
		Dir    string
		Every  time.Duration
	}

	// StatsConfig holds stats server settings
	StatsConfig struct {
		Port uint
	}

	// DisplayConfig holds display-related settings
	DisplayConfig struct {
		DarkTheme bool
	}

	// SystemConfig holds system-related settings
	SystemConfig struct {
		ConfigPath string
		DBPath     string
	}

	// Option is a function that modifies Config
	Option func(*Config) error
)

const Version = "v0.3.0"

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatJSON = "json"
)

var (
	Stdin  io.Reader = os.Stdin
	Stdout io.Writer = os.Stdout
)

// New creates a new Config with default values, applies options and
// validates the result.
func New(opts ...Option) (*Config, error) {
	cfg := Default()

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, errConfigOption.Wrap(err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errConfigValidation.Wrap(err)
	}

	return cfg, nil
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Reminders: ReminderConfig{
			Hydration: 15 * time.Minute,
			Break:     30 * time.Minute,
			Tick:      time.Second,
			Notify:    true,
		},
		Tracking: TrackingConfig{
			WindowSize:      30,
			FlushInterval:   30 * time.Second,
			MotionWindow:    30,
			MotionThreshold: 50,
		},
		Context: ContextConfig{
			CacheTTL: time.Second,
		},
		Storage: StorageConfig{
			Driver: "bolt",
		},
		Export: ExportConfig{
			Format: FormatCSV,
		},
		Stats: StatsConfig{
			Port: 1111,
		},
		Display: DisplayConfig{
			DarkTheme: true,
		},
	}
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"hydration=%s break=%s window=%d flush=%s driver=%s",
		c.Reminders.Hydration,
		c.Reminders.Break,
		c.Tracking.WindowSize,
		c.Tracking.FlushInterval,
		c.Storage.Driver,
	)
}
