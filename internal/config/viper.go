package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// viperKeys defines the mapping between config keys and their Viper counterparts.
const (
	keyHydrationInterval = "reminders.hydration_interval"
	keyBreakInterval     = "reminders.break_interval"
	keyReminderTick      = "reminders.tick"
	keyNotify            = "reminders.notify"
	keySound             = "reminders.sound"
	keyReminderCmd       = "reminders.cmd"
	keyWindowSize        = "tracking.window_size"
	keyFlushInterval     = "tracking.flush_interval"
	keyMotionThreshold   = "tracking.motion_threshold"
	keyMotionWindow      = "tracking.motion_window"
	keySourceCmd         = "tracking.source_cmd"
	keyContextCmd        = "context.cmd"
	keyContextFallback   = "context.fallback"
	keyContextCacheTTL   = "context.cache_ttl"
	keyStorageDriver     = "storage.driver"
	keyExportEvery       = "export.every"
	keyExportFormat      = "export.format"
	keyExportDir         = "export.dir"
	keyStatsPort         = "stats.port"
	keyDarkTheme         = "display.dark_theme"
)

// WithViperConfig returns an Option that loads configuration from the YAML
// file at configPath. The file is created with the current settings if it
// does not exist.
func WithViperConfig(configPath string) Option {
	return func(c *Config) error {
		v := viper.New()

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		setupViper(v, c)

		c.System.ConfigPath = configPath

		err := v.ReadInConfig()
		if err == nil {
			return loadViperConfig(v, c)
		}

		var notFound viper.ConfigFileNotFoundError

		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return errReadConfig.Wrap(err)
		}

		if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
			return errWriteConfig.Wrap(err)
		}

		if err := v.WriteConfigAs(configPath); err != nil {
			return errWriteConfig.Wrap(err)
		}

		return loadViperConfig(v, c)
	}
}

// setupViper uses the current settings as defaults so that values chosen in
// the first-run prompt end up in the written file.
func setupViper(v *viper.Viper, c *Config) {
	v.SetDefault(keyHydrationInterval, c.Reminders.Hydration.String())
	v.SetDefault(keyBreakInterval, c.Reminders.Break.String())
	v.SetDefault(keyReminderTick, c.Reminders.Tick.String())
	v.SetDefault(keyNotify, c.Reminders.Notify)
	v.SetDefault(keySound, c.Reminders.Sound)
	v.SetDefault(keyReminderCmd, c.Reminders.Cmd)
	v.SetDefault(keyWindowSize, c.Tracking.WindowSize)
	v.SetDefault(keyFlushInterval, c.Tracking.FlushInterval.String())
	v.SetDefault(keyMotionThreshold, c.Tracking.MotionThreshold)
	v.SetDefault(keyMotionWindow, c.Tracking.MotionWindow)
	v.SetDefault(keySourceCmd, c.Tracking.SourceCmd)
	v.SetDefault(keyContextCmd, c.Context.Cmd)
	v.SetDefault(keyContextFallback, c.Context.Fallback)
	v.SetDefault(keyContextCacheTTL, c.Context.CacheTTL.String())
	v.SetDefault(keyStorageDriver, c.Storage.Driver)
	v.SetDefault(keyExportEvery, c.Export.Every.String())
	v.SetDefault(keyExportFormat, c.Export.Format)
	v.SetDefault(keyExportDir, c.Export.Dir)
	v.SetDefault(keyStatsPort, c.Stats.Port)
	v.SetDefault(keyDarkTheme, c.Display.DarkTheme)
}

// loadViperConfig loads configuration from Viper into the Config struct.
func loadViperConfig(v *viper.Viper, c *Config) error {
	if err := loadDurations(v, c); err != nil {
		return err
	}

	c.Reminders.Notify = v.GetBool(keyNotify)
	c.Reminders.Sound = v.GetString(keySound)
	c.Reminders.Cmd = v.GetString(keyReminderCmd)
	c.Tracking.WindowSize = v.GetInt(keyWindowSize)
	c.Tracking.MotionThreshold = v.GetFloat64(keyMotionThreshold)
	c.Tracking.MotionWindow = v.GetInt(keyMotionWindow)
	c.Tracking.SourceCmd = v.GetString(keySourceCmd)
	c.Context.Cmd = v.GetString(keyContextCmd)
	c.Context.Fallback = v.GetString(keyContextFallback)
	c.Storage.Driver = v.GetString(keyStorageDriver)
	c.Export.Format = v.GetString(keyExportFormat)
	c.Export.Dir = v.GetString(keyExportDir)
	c.Stats.Port = v.GetUint(keyStatsPort)
	c.Display.DarkTheme = v.GetBool(keyDarkTheme)

	return nil
}

// loadDurations handles parsing duration strings from Viper.
func loadDurations(v *viper.Viper, c *Config) error {
	durations := []struct {
		dst *time.Duration
		key string
	}{
		{&c.Reminders.Hydration, keyHydrationInterval},
		{&c.Reminders.Break, keyBreakInterval},
		{&c.Reminders.Tick, keyReminderTick},
		{&c.Tracking.FlushInterval, keyFlushInterval},
		{&c.Context.CacheTTL, keyContextCacheTTL},
		{&c.Export.Every, keyExportEvery},
	}

	for _, d := range durations {
		dur, err := parseDuration(v.GetString(d.key))
		if err != nil {
			return errParseDuration.Fmt(d.key, v.GetString(d.key)).Wrap(err)
		}

		*d.dst = dur
	}

	return nil
}

// parseDuration parses duration strings. A bare number is taken to be in
// minutes.
func parseDuration(s string) (time.Duration, error) {
	// Try parsing as duration string first
	dur, err := time.ParseDuration(s)
	if err == nil {
		return dur, nil
	}

	// Try parsing as minutes in case duration unit is absent
	mins, err := time.ParseDuration(s + "m")
	if err != nil {
		return 0, fmt.Errorf("invalid duration format: %s", s)
	}

	return mins, nil
}

// SaveIntervals updates the reminder intervals in the config file.
func SaveIntervals(configPath string, hydration, brk time.Duration) error {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	err := v.ReadInConfig()
	if err != nil {
		return errReadConfig.Wrap(err)
	}

	v.Set(keyHydrationInterval, hydration.String())
	v.Set(keyBreakInterval, brk.String())

	err = v.WriteConfig()
	if err != nil {
		return errWriteConfig.Wrap(err)
	}

	return nil
}
