// Package osutil holds platform and process constants
package osutil

const Windows = "windows"

type ExitCode int

const (
	ExitOK    ExitCode = 0
	ExitError ExitCode = 1
)

const (
	DirPermission  = 0o755
	FilePermission = 0o644
)
