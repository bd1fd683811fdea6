package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestNewDefaults(t *testing.T) {
	cfg, err := New()
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("default config mismatch (-want +got):\n%s", diff)
	}
}

func TestViperConfigCreatesFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "upright", "config.yml")

	cfg, err := New(WithViperConfig(configPath))
	if err != nil {
		t.Fatal(err)
	}

	if _, err = os.Stat(configPath); err != nil {
		t.Fatalf("expected config file to be written: %v", err)
	}

	want := Default()
	want.System.ConfigPath = configPath

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}

	// reading the written file back yields the same settings
	again, err := New(WithViperConfig(configPath))
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(cfg, again); diff != "" {
		t.Fatalf("reloaded config mismatch (-want +got):\n%s", diff)
	}
}

func TestViperConfigValues(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yml")

	yml := `reminders:
  hydration_interval: 20
  break_interval: 45m
  notify: false
tracking:
  window_size: 60
  flush_interval: 1m
storage:
  driver: sqlite
export:
  format: xlsx
  every: 1h
`

	err := os.WriteFile(configPath, []byte(yml), 0o600)
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := New(WithViperConfig(configPath))
	if err != nil {
		t.Fatal(err)
	}

	want := Default()
	want.System.ConfigPath = configPath
	want.Reminders.Hydration = 20 * time.Minute
	want.Reminders.Break = 45 * time.Minute
	want.Reminders.Notify = false
	want.Tracking.WindowSize = 60
	want.Tracking.FlushInterval = time.Minute
	want.Storage.Driver = "sqlite"
	want.Export.Format = FormatXLSX
	want.Export.Every = time.Hour

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestViperConfigInvalidDuration(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yml")

	err := os.WriteFile(
		configPath,
		[]byte("reminders:\n  break_interval: soon\n"),
		0o600,
	)
	if err != nil {
		t.Fatal(err)
	}

	_, err = New(WithViperConfig(configPath))

	want := errParseDuration.Fmt(keyBreakInterval, "soon")
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
}

func TestSaveIntervals(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yml")

	_, err := New(WithViperConfig(configPath))
	if err != nil {
		t.Fatal(err)
	}

	err = SaveIntervals(configPath, 10*time.Minute, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := New(WithViperConfig(configPath))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Reminders.Hydration != 10*time.Minute ||
		cfg.Reminders.Break != time.Hour {
		t.Fatalf(
			"expected saved intervals 10m and 1h, got %s and %s",
			cfg.Reminders.Hydration,
			cfg.Reminders.Break,
		)
	}
}

func TestApplyCLIOptions(t *testing.T) {
	cfg := Default()
	cfg.Reminders.Sound = "chime.wav"

	err := applyCLIOptions(cfg, CLIOptions{
		Hydration:     "5",
		FlushInterval: "10s",
		Sound:         "off",
		Driver:        "sqlite",
		WindowSize:    90,
		DisableNotify: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	want := Default()
	want.Reminders.Hydration = 5 * time.Minute
	want.Reminders.Notify = false
	want.Tracking.FlushInterval = 10 * time.Second
	want.Tracking.WindowSize = 90
	want.Storage.Driver = "sqlite"

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}

	err = applyCLIOptions(cfg, CLIOptions{Break: "later"})
	if !errors.Is(err, errInvalidCLIDuration.Fmt("break")) {
		t.Fatalf("expected invalid break duration error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(c *Config)
		err    error
	}{
		{
			name:   "hydration interval too short",
			modify: func(c *Config) { c.Reminders.Hydration = 0 },
			err:    errInvalidDuration.Fmt("hydration interval", minInterval, maxInterval),
		},
		{
			name:   "break interval too long",
			modify: func(c *Config) { c.Reminders.Break = 13 * time.Hour },
			err:    errInvalidDuration.Fmt("break interval", minInterval, maxInterval),
		},
		{
			name:   "empty window",
			modify: func(c *Config) { c.Tracking.WindowSize = 0 },
			err:    errInvalidWindowSize.Fmt(minWindowSize, maxWindowSize),
		},
		{
			name:   "negative motion threshold",
			modify: func(c *Config) { c.Tracking.MotionThreshold = -1 },
			err:    errInvalidMotion,
		},
		{
			name:   "unknown driver",
			modify: func(c *Config) { c.Storage.Driver = "postgres" },
			err:    errUnknownDriver.Fmt("postgres"),
		},
		{
			name:   "unknown export format",
			modify: func(c *Config) { c.Export.Format = "pdf" },
			err:    errUnknownFormat.Fmt("pdf"),
		},
		{
			name:   "zero port",
			modify: func(c *Config) { c.Stats.Port = 0 },
			err:    errInvalidPort,
		},
		{
			name:   "unsupported sound",
			modify: func(c *Config) { c.Reminders.Sound = "alert.aiff" },
			err:    errInvalidSoundFormat.Fmt("alert.aiff"),
		},
		{
			name: "missing sound",
			modify: func(c *Config) {
				c.Reminders.Sound = filepath.Join(t.TempDir(), "alert.wav")
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.modify(cfg)

			err := cfg.Validate()

			want := tc.err
			if want == nil {
				want = errSoundNotFound.Fmt(cfg.Reminders.Sound)
			}

			if !errors.Is(err, want) {
				t.Fatalf("expected %v, got %v", want, err)
			}
		})
	}
}
