package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/ayoisaiah/upright/internal/config"
	"github.com/ayoisaiah/upright/internal/export"
	"github.com/ayoisaiah/upright/internal/metrics"
	"github.com/ayoisaiah/upright/internal/osutil"
	"github.com/ayoisaiah/upright/internal/pathutil"
	"github.com/ayoisaiah/upright/internal/pipeline"
	"github.com/ayoisaiah/upright/internal/reminder"
	"github.com/ayoisaiah/upright/internal/static"
	"github.com/ayoisaiah/upright/internal/ui"
	"github.com/ayoisaiah/upright/monitor"
	"github.com/ayoisaiah/upright/report"
	"github.com/ayoisaiah/upright/stats"
	"github.com/ayoisaiah/upright/store"
)

const (
	envNoColor        = "NO_COLOR"
	envUprightNoColor = "UPRIGHT_NO_COLOR"
	envDebug          = "UPRIGHT_DEBUG"
)

const (
	defaultListLimit = monitor.RecentRecords
	monitorRefresh   = time.Second
	stdoutPath       = "-"
)

// firstNonEmptyString returns its first non-empty argument, or "" if all
// arguments are empty.
func firstNonEmptyString(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}

	return ""
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}

	return fi.Mode()&os.ModeCharDevice != 0
}

// loadConfig builds the configuration for the current command. The first-run
// prompt is shown only when prompt is set and stdin is a terminal, so that
// piped samples are never read as answers.
func loadConfig(ctx *cli.Context, prompt bool) (*config.Config, error) {
	path := pathutil.ConfigFilePath()

	var opts []config.Option

	if prompt && isTerminal(os.Stdin) {
		opts = append(opts, config.WithPromptConfig(path))
	}

	opts = append(
		opts,
		config.WithViperConfig(path),
		config.WithCLIConfig(ctx),
	)

	cfg, err := config.New(opts...)
	if err != nil {
		return nil, err
	}

	cfg.System.DBPath = pathutil.DBFilePath(cfg.Storage.Driver)

	if cfg.Export.Dir == "" {
		cfg.Export.Dir = pathutil.ExportDir()
	}

	if ctx.IsSet("port") {
		cfg.Stats.Port = ctx.Uint("port")
	}

	ui.DarkTheme = cfg.Display.DarkTheme

	slog.Debug("configuration loaded", slog.String("config", cfg.String()))

	return cfg, nil
}

func openStore(cfg *config.Config) (store.DB, error) {
	return store.Open(cfg.Storage.Driver, cfg.System.DBPath)
}

// loop is a long-running part of the track command.
type loop struct {
	run func(context.Context) error
	// last stops the other loops when it returns
	last bool
}

// runLoops runs the loops until one of them fails, a loop marked last
// returns or ctx is cancelled. It returns the first error.
func runLoops(ctx context.Context, loops ...loop) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	for _, l := range loops {
		g.Go(func() error {
			if l.last {
				defer cancel()
			}

			return l.run(gctx)
		})
	}

	return g.Wait()
}

// trackAction runs the capture loop and the reminder scheduler until the
// source ends or the process is interrupted.
func trackAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx, true)
	if err != nil {
		return err
	}

	useMonitor := ctx.Bool("monitor")
	if useMonitor && cfg.Tracking.SourceCmd == "" {
		return errMonitorStdin
	}

	db, err := openStore(cfg)
	if err != nil {
		return err
	}

	defer db.Close()

	provider, err := buildProvider(cfg)
	if err != nil {
		return err
	}

	notifier, err := buildNotifier(cfg)
	if err != nil {
		return err
	}

	m := metrics.New()

	runCtx, cancel := withInterrupt(ctx.Context)
	defer cancel()

	p := pipeline.New(
		pipelineConfig(cfg),
		buildSource(cfg),
		provider,
		db,
		pipeline.WithMetrics(m),
	)

	sched := reminder.New(
		reminderConfig(cfg),
		db,
		provider,
		notifier,
		reminder.WithMetrics(m),
	)

	if cfg.Export.Every > 0 {
		exports, err := export.NewScheduler(
			export.NewExporter(db, cfg.Export.Dir, cfg.Export.Format),
			cfg.Export.Every,
		)
		if err != nil {
			return err
		}

		exports.Start()

		defer func() {
			_ = exports.Stop()
		}()
	}

	// the rest of the loops stop once the source is exhausted
	loops := []loop{
		{run: p.Run, last: true},
		{run: sched.Run},
	}

	if ctx.Bool("serve") {
		srv, err := stats.NewServer(db, m, pathutil.DataDir())
		if err != nil {
			return err
		}

		loops = append(loops, loop{
			run: func(ctx context.Context) error {
				return srv.ListenAndServe(ctx, cfg.Stats.Port)
			},
		})
	}

	if useMonitor {
		model := monitor.New(db, sched, monitorRefresh, cfg.Display.DarkTheme)

		loops = append(loops, loop{
			run: func(ctx context.Context) error {
				return monitor.Run(ctx, model)
			},
			last: true,
		})
	} else {
		pterm.Info.Printfln(
			"tracking posture (hydration every %s, break every %s). Press Ctrl+C to stop",
			cfg.Reminders.Hydration,
			cfg.Reminders.Break,
		)
	}

	return runLoops(runCtx, loops...)
}

// remindAction runs only the reminder scheduler.
func remindAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx, true)
	if err != nil {
		return err
	}

	db, err := openStore(cfg)
	if err != nil {
		return err
	}

	defer db.Close()

	provider, err := buildProvider(cfg)
	if err != nil {
		return err
	}

	notifier, err := buildNotifier(cfg)
	if err != nil {
		return err
	}

	runCtx, cancel := withInterrupt(ctx.Context)
	defer cancel()

	sched := reminder.New(reminderConfig(cfg), db, provider, notifier)

	pterm.Info.Printfln(
		"reminding you to drink water every %s and to take a break every %s",
		cfg.Reminders.Hydration,
		cfg.Reminders.Break,
	)

	return sched.Run(runCtx)
}

// statsAction prints the statistics for the requested period or serves the
// dashboard.
func statsAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx, false)
	if err != nil {
		return err
	}

	db, err := openStore(cfg)
	if err != nil {
		return err
	}

	defer db.Close()

	if ctx.Bool("serve") {
		srv, err := stats.NewServer(db, metrics.New(), pathutil.DataDir())
		if err != nil {
			return err
		}

		runCtx, cancel := withInterrupt(ctx.Context)
		defer cancel()

		return srv.ListenAndServe(runCtx, cfg.Stats.Port)
	}

	filter, err := config.Filter(ctx)
	if err != nil {
		return err
	}

	return stats.Show(config.Stdout, db, filter, ctx.Bool("json"))
}

// listAction prints the most recent records.
func listAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx, false)
	if err != nil {
		return err
	}

	db, err := openStore(cfg)
	if err != nil {
		return err
	}

	defer db.Close()

	return stats.List(config.Stdout, db, ctx.Int("limit"), ctx.Bool("json"))
}

// exportAction writes the records in the requested period to a file. The
// whole log is exported when no period is given.
func exportAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx, false)
	if err != nil {
		return err
	}

	if !ctx.IsSet("period") && !ctx.IsSet("start") && !ctx.IsSet("end") {
		err = ctx.Set("period", "all-time")
		if err != nil {
			return err
		}
	}

	filter, err := config.Filter(ctx)
	if err != nil {
		return err
	}

	format := firstNonEmptyString(ctx.String("format"), cfg.Export.Format)

	db, err := openStore(cfg)
	if err != nil {
		return err
	}

	defer db.Close()

	f := stats.StoreFilter(filter)
	output := ctx.String("output")

	if output == stdoutPath {
		recs, err := db.Records(f)
		if err != nil {
			return err
		}

		return report.Write(config.Stdout, format, recs)
	}

	e := export.NewExporter(db, cfg.Export.Dir, format)

	var n int

	if output == "" {
		output, n, err = e.ExportFiltered(f)
	} else {
		n, err = e.WriteFile(output, f)
	}

	if err != nil {
		return err
	}

	report.Exported(output, n)

	return nil
}

// pointsAction prints the points earned from reminders.
func pointsAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx, false)
	if err != nil {
		return err
	}

	db, err := openStore(cfg)
	if err != nil {
		return err
	}

	defer db.Close()

	total, err := db.Points()
	if err != nil {
		return err
	}

	if ctx.Bool("json") {
		return report.WriteJSON(config.Stdout, map[string]int{"points": total})
	}

	pterm.Fprintln(config.Stdout, "Points:", ui.Green(total))

	return nil
}

// settingsAction lets the user pick new reminder intervals and saves them to
// the config file.
func settingsAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx, false)
	if err != nil {
		return err
	}

	opts := &config.PromptOptions{
		HydrationInterval: int(cfg.Reminders.Hydration.Minutes()),
		BreakInterval:     int(cfg.Reminders.Break.Minutes()),
	}

	err = config.IntervalForm(opts).Run()
	if err != nil {
		return err
	}

	path := pathutil.ConfigFilePath()

	err = config.SaveIntervals(
		path,
		time.Duration(opts.HydrationInterval)*time.Minute,
		time.Duration(opts.BreakInterval)*time.Minute,
	)
	if err != nil {
		return err
	}

	report.SettingsSaved(path)

	return nil
}

// editConfigAction handles the edit-config command which opens the upright
// config file in the user's default text editor.
func editConfigAction(_ *cli.Context) error {
	defaultEditor := "nano"

	if runtime.GOOS == osutil.Windows {
		defaultEditor = "C:\\Windows\\system32\\notepad.exe"
	}

	editor := firstNonEmptyString(
		os.Getenv("VISUAL"),
		os.Getenv("EDITOR"),
		defaultEditor,
	)

	cmd := exec.Command(editor, pathutil.ConfigFilePath())

	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout

	return cmd.Run()
}

func beforeAction(ctx *cli.Context) error {
	// Override the default help template
	cli.AppHelpTemplate = helpText()

	pterm.Error.MessageStyle = pterm.NewStyle(pterm.FgRed)
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}

	// Disable colour output if NO_COLOR is set
	if _, exists := os.LookupEnv(envNoColor); exists {
		disableStyling()
	}

	// Disable colour output if UPRIGHT_NO_COLOR is set
	if _, exists := os.LookupEnv(envUprightNoColor); exists {
		disableStyling()
	}

	if ctx.Bool("no-color") {
		disableStyling()
	}

	err := pathutil.Initialize()
	if err != nil {
		return err
	}

	w, err := logWriter(pathutil.LogFilePath())
	if err != nil {
		return fmt.Errorf("unable to open the log file: %w", err)
	}

	_, debug := os.LookupEnv(envDebug)
	slog.SetDefault(newLogger(w, debug))

	err = static.Install(pathutil.DataDir())
	if err != nil {
		pterm.Warning.Printfln("unable to install the dashboard template: %v", err)
	}

	return nil
}

func afterAction(ctx *cli.Context) error {
	slog.InfoContext(ctx.Context, "exiting upright")

	return nil
}
