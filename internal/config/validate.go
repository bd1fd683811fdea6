package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

var (
	// Minimum and maximum duration constraints.
	minInterval = 1 * time.Second
	maxInterval = 720 * time.Minute // 12 hours

	minWindowSize = 1
	maxWindowSize = 600

	drivers       = []string{"bolt", "sqlite"}
	exportFormats = []string{FormatCSV, FormatXLSX, FormatJSON}
	soundExts     = []string{".mp3", ".ogg", ".flac", ".wav"}
)

// Validate performs validation checks on the Config struct and its fields.
func (c *Config) Validate() error {
	intervals := []struct {
		name string
		val  time.Duration
	}{
		{"hydration interval", c.Reminders.Hydration},
		{"break interval", c.Reminders.Break},
		{"reminder tick", c.Reminders.Tick},
		{"flush interval", c.Tracking.FlushInterval},
	}

	for _, iv := range intervals {
		if iv.val < minInterval || iv.val > maxInterval {
			return errInvalidDuration.Fmt(iv.name, minInterval, maxInterval)
		}
	}

	if c.Tracking.WindowSize < minWindowSize ||
		c.Tracking.WindowSize > maxWindowSize {
		return errInvalidWindowSize.Fmt(minWindowSize, maxWindowSize)
	}

	if c.Tracking.MotionThreshold <= 0 || c.Tracking.MotionWindow < 1 {
		return errInvalidMotion
	}

	if !slices.Contains(drivers, c.Storage.Driver) {
		return errUnknownDriver.Fmt(c.Storage.Driver)
	}

	if !slices.Contains(exportFormats, c.Export.Format) {
		return errUnknownFormat.Fmt(c.Export.Format)
	}

	if c.Export.Every < 0 || c.Context.CacheTTL < 0 {
		return errInvalidDuration.Fmt("export and cache intervals", 0, maxInterval)
	}

	if c.Stats.Port == 0 || c.Stats.Port > 65535 {
		return errInvalidPort
	}

	if c.Reminders.Sound != "" {
		if err := validateSound(c.Reminders.Sound); err != nil {
			return err
		}
	}

	return nil
}

// validateSound checks that a custom alert sound exists and can be decoded.
func validateSound(sound string) error {
	ext := strings.ToLower(filepath.Ext(sound))

	if !slices.Contains(soundExts, ext) {
		return errInvalidSoundFormat.Fmt(sound)
	}

	_, err := os.Stat(sound)
	if errors.Is(err, os.ErrNotExist) {
		return errSoundNotFound.Fmt(sound)
	}

	return nil
}
