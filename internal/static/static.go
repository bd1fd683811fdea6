// Package static embeds the stats dashboard and copies it to the data
// directory where it can be customised
package static

import (
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ayoisaiah/upright/internal/osutil"
)

const (
	filesDir = "files"

	DashboardFile = "dashboard.html"
)

//go:embed files/*
var embeddedFiles embed.FS

// Install copies the embedded files into dir. Files that already exist are
// left untouched.
func Install(dir string) error {
	return fs.WalkDir(
		embeddedFiles,
		filesDir,
		func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				return nil
			}

			b, err := embeddedFiles.ReadFile(p)
			if err != nil {
				return err
			}

			// embed paths always use forward slashes
			stripped := strings.TrimPrefix(p, filesDir+"/")

			destPath := filepath.Join(dir, filepath.FromSlash(stripped))

			// Only write if file does not already exist
			if _, err := os.Stat(destPath); errors.Is(err, os.ErrNotExist) {
				if err := os.MkdirAll(filepath.Dir(destPath), osutil.DirPermission); err != nil {
					return err
				}

				if err := os.WriteFile(destPath, b, osutil.FilePermission); err != nil {
					return err
				}
			}

			return nil
		},
	)
}

// Dashboard parses the dashboard template. A copy in dir takes precedence
// over the embedded one.
func Dashboard(dir string, funcs template.FuncMap) (*template.Template, error) {
	tpl := template.New(DashboardFile).Funcs(funcs)

	if dir != "" {
		b, err := os.ReadFile(filepath.Join(dir, DashboardFile))
		if err == nil {
			return tpl.Parse(string(b))
		}

		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	return tpl.ParseFS(embeddedFiles, path.Join(filesDir, DashboardFile))
}
