package app

import (
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/upright/internal/config"
)

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

func trackFlags() []cli.Flag {
	return []cli.Flag{monitorFlag, serveFlag, portFlag}
}

// Get retrieves the upright app instance.
func Get() *cli.App {
	uprightApp := &cli.App{
		Name: "upright",
		Authors: []*cli.Author{
			{
				Name:  "Ayooluwa Isaiah",
				Email: "ayo@freshman.tech",
			},
		},
		Usage: `
		Upright turns a stream of posture samples into a labelled posture log,
		scores ergonomic risk per application context and reminds you to drink
		water and take breaks.`,
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:   "track",
				Usage:  "Capture posture samples and run the reminders (default command)",
				Flags:  trackFlags(),
				Action: trackAction,
			},
			{
				Name:   "remind",
				Usage:  "Run the hydration and break reminders without capturing posture",
				Action: remindAction,
			},
			{
				Name: "stats",
				Usage: `
				Summarise posture, risk and fatigue for a reporting period. Defaults
				to today`,
				Flags: append(
					[]cli.Flag{jsonFlag, serveFlag, portFlag},
					filterFlags()...,
				),
				Action: statsAction,
			},
			{
				Name:   "list",
				Usage:  "Print the most recent posture log records",
				Flags:  []cli.Flag{jsonFlag, limitFlag},
				Action: listAction,
			},
			{
				Name:  "export",
				Usage: "Export the posture log as csv, xlsx or json",
				Flags: append(
					[]cli.Flag{formatFlag, outputFlag},
					filterFlags()...,
				),
				Action: exportAction,
			},
			{
				Name:   "points",
				Usage:  "Print the points earned from reminders",
				Flags:  []cli.Flag{jsonFlag},
				Action: pointsAction,
			},
			{
				Name:   "settings",
				Usage:  "Change the reminder intervals",
				Action: settingsAction,
			},
			{
				Name:   "edit-config",
				Usage:  "Edit the configuration file",
				Action: editConfigAction,
			},
		},
		Flags:  append(globalFlags(), trackFlags()...),
		Action: trackAction,
		Before: beforeAction,
		After:  afterAction,
	}

	return uprightApp
}
