// Package report renders posture statistics and record exports for the
// terminal and for files
package report

import (
	"os"

	"github.com/pterm/pterm"

	"github.com/ayoisaiah/upright/internal/osutil"
)

func SettingsSaved(path string) {
	pterm.Success.Printfln("settings saved to %s", path)
}

func Exported(path string, n int) {
	pterm.Success.Printfln("exported %d records to %s", n, path)
}

// Quit prints err and exits with a non-zero status.
func Quit(err error) {
	pterm.Error.Println(err)
	os.Exit(int(osutil.ExitError))
}
