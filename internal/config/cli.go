package config

import (
	"time"

	"github.com/urfave/cli/v2"
)

// CLIOptions represents command-line configuration options.
type CLIOptions struct {
	Hydration     string
	Break         string
	FlushInterval string
	Sound         string
	ReminderCmd   string
	SourceCmd     string
	ContextCmd    string
	Driver        string
	WindowSize    uint
	DisableNotify bool
}

// WithCLIConfig returns an Option that loads configuration from CLI flags.
func WithCLIConfig(ctx *cli.Context) Option {
	return func(c *Config) error {
		opts := CLIOptions{
			Hydration:     ctx.String("hydration"),
			Break:         ctx.String("break"),
			FlushInterval: ctx.String("flush-interval"),
			WindowSize:    ctx.Uint("window-size"),
			Sound:         ctx.String("sound"),
			ReminderCmd:   ctx.String("reminder-cmd"),
			SourceCmd:     ctx.String("source-cmd"),
			ContextCmd:    ctx.String("context-cmd"),
			Driver:        ctx.String("driver"),
			DisableNotify: ctx.Bool("disable-notification"),
		}

		return applyCLIOptions(c, opts)
	}
}

// applyCLIOptions applies CLI options to the config.
func applyCLIOptions(c *Config, opts CLIOptions) error {
	if err := applyCLIDurations(c, opts); err != nil {
		return err
	}

	if opts.WindowSize > 0 {
		c.Tracking.WindowSize = int(opts.WindowSize)
	}

	if opts.DisableNotify {
		c.Reminders.Notify = false
	}

	if opts.Sound != "" {
		if opts.Sound == "off" {
			c.Reminders.Sound = ""
		} else {
			c.Reminders.Sound = opts.Sound
		}
	}

	if opts.ReminderCmd != "" {
		c.Reminders.Cmd = opts.ReminderCmd
	}

	if opts.SourceCmd != "" {
		c.Tracking.SourceCmd = opts.SourceCmd
	}

	if opts.ContextCmd != "" {
		c.Context.Cmd = opts.ContextCmd
	}

	if opts.Driver != "" {
		c.Storage.Driver = opts.Driver
	}

	return nil
}

// applyCLIDurations handles parsing and applying duration settings from CLI.
func applyCLIDurations(c *Config, opts CLIOptions) error {
	durations := []struct {
		dst  *time.Duration
		name string
		val  string
	}{
		{&c.Reminders.Hydration, "hydration", opts.Hydration},
		{&c.Reminders.Break, "break", opts.Break},
		{&c.Tracking.FlushInterval, "flush", opts.FlushInterval},
	}

	for _, d := range durations {
		if d.val == "" {
			continue
		}

		dur, err := parseDuration(d.val)
		if err != nil {
			return errInvalidCLIDuration.Fmt(d.name).Wrap(err)
		}

		*d.dst = dur
	}

	return nil
}
