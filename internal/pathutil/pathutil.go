// Package pathutil manages application file paths and locations
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
)

const appDir = "upright"

// Paths holds all application path configurations.
type Paths struct {
	configFileName string
	boltFileName   string
	sqliteFileName string
	logFileName    string

	// Computed absolute paths
	configFilePath string
	dataDir        string
	logFilePath    string
}

var (
	paths *Paths
	once  sync.Once
)

// Initialize must be called once at program startup.
func Initialize() error {
	var initErr error

	once.Do(func() {
		paths = &Paths{
			configFileName: "config.yml",
			boltFileName:   "upright.db",
			sqliteFileName: "upright.sqlite",
			logFileName:    "upright.log",
		}

		paths.applyEnvironmentOverrides()
		initErr = paths.computePaths()
	})

	return initErr
}

// Must panics if paths haven't been initialized.
func Must() *Paths {
	if paths == nil {
		panic("pathutil.Initialize() must be called before accessing paths")
	}

	return paths
}

func ConfigFilePath() string {
	return Must().configFilePath
}

func DataDir() string {
	return Must().dataDir
}

// DBFilePath returns the database location for the storage driver.
func DBFilePath(driver string) string {
	p := Must()

	if driver == "sqlite" {
		return filepath.Join(p.dataDir, p.sqliteFileName)
	}

	return filepath.Join(p.dataDir, p.boltFileName)
}

func LogFilePath() string {
	return Must().logFilePath
}

func ExportDir() string {
	return filepath.Join(Must().dataDir, "exports")
}

func (p *Paths) applyEnvironmentOverrides() {
	env := strings.TrimSpace(os.Getenv("UPRIGHT_ENV"))
	if env != "" {
		p.configFileName = fmt.Sprintf("config_%s.yml", env)
		p.boltFileName = fmt.Sprintf("upright_%s.db", env)
		p.sqliteFileName = fmt.Sprintf("upright_%s.sqlite", env)
		p.logFileName = fmt.Sprintf("upright_%s.log", env)
	}
}

func (p *Paths) computePaths() error {
	var err error

	relPath := filepath.Join(appDir, p.configFileName)

	p.configFilePath, err = xdg.ConfigFile(relPath)
	if err != nil {
		return err
	}

	// xdg.DataFile creates the parent of the returned path
	p.dataDir, err = xdg.DataFile(filepath.Join(appDir, p.boltFileName))
	if err != nil {
		return err
	}

	p.dataDir = filepath.Dir(p.dataDir)

	p.logFilePath = filepath.Join(p.dataDir, "log", p.logFileName)

	return nil
}
