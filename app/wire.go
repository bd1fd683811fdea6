package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ayoisaiah/upright/internal/apperr"
	"github.com/ayoisaiah/upright/internal/config"
	"github.com/ayoisaiah/upright/internal/foreground"
	"github.com/ayoisaiah/upright/internal/notify"
	"github.com/ayoisaiah/upright/internal/osutil"
	"github.com/ayoisaiah/upright/internal/pipeline"
	"github.com/ayoisaiah/upright/internal/posture"
	"github.com/ayoisaiah/upright/internal/reminder"
)

const (
	logMaxSizeMB  = 10
	logMaxBackups = 3
	logMaxAgeDays = 28
)

var errMonitorStdin = &apperr.Error{
	Message: "--monitor needs tracking.source_cmd (or --source-cmd) since the live view takes over stdin",
}

// newLogger returns a JSON logger that writes to a rotated log file.
func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

func logWriter(path string) (io.Writer, error) {
	err := os.MkdirAll(filepath.Dir(path), osutil.DirPermission)
	if err != nil {
		return nil, err
	}

	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackups,
		MaxAge:     logMaxAgeDays,
	}, nil
}

// withInterrupt returns a context that is cancelled on SIGINT or SIGTERM.
func withInterrupt(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(c)

		select {
		case <-c:
			slog.Info("interrupt received, shutting down")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

func buildSource(cfg *config.Config) posture.Source {
	if cfg.Tracking.SourceCmd != "" {
		return posture.NewCommandSource(cfg.Tracking.SourceCmd)
	}

	return posture.NewJSONSource(config.Stdin)
}

// buildProvider queries context.cmd when it is set. Otherwise every lookup
// reports the context.fallback name, which is empty unless configured.
func buildProvider(cfg *config.Config) (foreground.Provider, error) {
	var p foreground.Provider = foreground.Static{Title: cfg.Context.Fallback}

	if cfg.Context.Cmd != "" {
		cmd, err := foreground.NewCommandProvider(cfg.Context.Cmd)
		if err != nil {
			return nil, err
		}

		p = cmd
	}

	return foreground.NewCached(p, cfg.Context.CacheTTL), nil
}

func buildNotifier(cfg *config.Config) (notify.Notifier, error) {
	var m notify.Multi

	if cfg.Reminders.Notify {
		m = append(m, &notify.Desktop{Sound: cfg.Reminders.Sound})
	}

	if cfg.Reminders.Cmd != "" {
		cmd, err := notify.NewCommand(cfg.Reminders.Cmd)
		if err != nil {
			return nil, err
		}

		m = append(m, cmd)
	}

	return &notify.Logged{Notifier: m}, nil
}

func pipelineConfig(cfg *config.Config) pipeline.Config {
	return pipeline.Config{
		WindowSize:      cfg.Tracking.WindowSize,
		FlushEvery:      cfg.Tracking.FlushInterval,
		MotionWindow:    cfg.Tracking.MotionWindow,
		MotionThreshold: cfg.Tracking.MotionThreshold,
	}
}

func reminderConfig(cfg *config.Config) reminder.Config {
	return reminder.Config{
		Hydration: cfg.Reminders.Hydration,
		Break:     cfg.Reminders.Break,
		Tick:      cfg.Reminders.Tick,
	}
}
