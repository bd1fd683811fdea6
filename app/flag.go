package app

import "github.com/urfave/cli/v2"

var (
	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}

	hydrationFlag = &cli.StringFlag{
		Name:    "hydration",
		Aliases: []string{"hy"},
		Usage:   "Interval between hydration reminders (e.g. 15m). A bare number is read as minutes",
	}

	breakFlag = &cli.StringFlag{
		Name:    "break",
		Aliases: []string{"b"},
		Usage:   "Interval between break reminders (e.g. 30m). A bare number is read as minutes",
	}

	flushIntervalFlag = &cli.StringFlag{
		Name:    "flush-interval",
		Aliases: []string{"f"},
		Usage:   "How often the aggregation window is written to the log (e.g. 30s)",
	}

	windowSizeFlag = &cli.UintFlag{
		Name:    "window-size",
		Aliases: []string{"w"},
		Usage:   "Number of samples in the aggregation window",
	}

	soundFlag = &cli.StringFlag{
		Name:  "sound",
		Usage: "Sound file to play with each reminder (mp3, ogg, flac or wav). Disable sound by setting to 'off'",
	}

	reminderCmdFlag = &cli.StringFlag{
		Name:    "reminder-cmd",
		Aliases: []string{"cmd"},
		Usage:   "Execute an arbitrary command after each reminder",
	}

	sourceCmdFlag = &cli.StringFlag{
		Name:    "source-cmd",
		Aliases: []string{"src"},
		Usage:   "Command that streams posture samples as JSON lines. Samples are read from stdin when unset",
	}

	contextCmdFlag = &cli.StringFlag{
		Name:  "context-cmd",
		Usage: "Command that prints the title and process of the foreground window",
	}

	driverFlag = &cli.StringFlag{
		Name:  "driver",
		Usage: "Storage driver: bolt or sqlite",
	}

	disableNotificationFlag = &cli.BoolFlag{
		Name:    "disable-notification",
		Aliases: []string{"d"},
		Usage:   "Disable the desktop notification that appears with each reminder",
	}

	monitorFlag = &cli.BoolFlag{
		Name:    "monitor",
		Aliases: []string{"m"},
		Usage:   "Show a live view of recent records and reminder countdowns. Requires --source-cmd",
	}

	serveFlag = &cli.BoolFlag{
		Name:  "serve",
		Usage: "Serve the stats dashboard and metrics",
	}

	portFlag = &cli.UintFlag{
		Name:  "port",
		Usage: "Port for the stats server",
	}

	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Print the output as JSON",
	}

	limitFlag = &cli.IntFlag{
		Name:    "limit",
		Aliases: []string{"n"},
		Usage:   "Number of records to print",
		Value:   defaultListLimit,
	}

	formatFlag = &cli.StringFlag{
		Name:  "format",
		Usage: "Export format: csv, xlsx or json",
	}

	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Write the export to this file. Use '-' for stdout",
	}

	periodFlag = &cli.StringFlag{
		Name:    "period",
		Aliases: []string{"p"},
		Usage:   "Reporting period: today, yesterday, 7days, 14days, 30days, 90days, 180days, 365days, all-time",
	}

	startFlag = &cli.StringFlag{
		Name:    "start",
		Aliases: []string{"s"},
		Usage:   "Start date for the reporting period (e.g. 2024-05-01 or '3 days ago')",
	}

	endFlag = &cli.StringFlag{
		Name:    "end",
		Aliases: []string{"e"},
		Usage:   "End date for the reporting period",
	}

	contextFlag = &cli.StringFlag{
		Name:    "context",
		Aliases: []string{"c"},
		Usage:   "Match only records from these comma-delimited contexts",
	}
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		noColorFlag,
		hydrationFlag,
		breakFlag,
		flushIntervalFlag,
		windowSizeFlag,
		soundFlag,
		reminderCmdFlag,
		sourceCmdFlag,
		contextCmdFlag,
		driverFlag,
		disableNotificationFlag,
	}
}

func filterFlags() []cli.Flag {
	return []cli.Flag{
		periodFlag,
		startFlag,
		endFlag,
		contextFlag,
	}
}
