// Package export writes the posture log to files, on demand or on a fixed
// schedule
package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/ayoisaiah/upright/internal/models"
	"github.com/ayoisaiah/upright/internal/osutil"
	"github.com/ayoisaiah/upright/report"
	"github.com/ayoisaiah/upright/store"
)

// Source provides the records to export.
type Source interface {
	Records(f store.Filter) ([]models.Record, error)
}

// Exporter writes every stored record to a new timestamped file.
type Exporter struct {
	src    Source
	now    func() time.Time
	dir    string
	format string
}

func NewExporter(src Source, dir, format string) *Exporter {
	return &Exporter{
		src:    src,
		dir:    dir,
		format: format,
		now:    time.Now,
	}
}

// Export writes every record to a new timestamped file in the export
// directory and returns its path and the number of records exported.
func (e *Exporter) Export() (path string, n int, err error) {
	return e.ExportFiltered(store.Filter{})
}

// ExportFiltered is like Export but writes only the records matching f.
func (e *Exporter) ExportFiltered(f store.Filter) (path string, n int, err error) {
	err = os.MkdirAll(e.dir, osutil.DirPermission)
	if err != nil {
		return "", 0, err
	}

	path = filepath.Join(e.dir, report.FileName(e.format, e.now()))

	n, err = e.WriteFile(path, f)
	if err != nil {
		return "", 0, err
	}

	return path, n, nil
}

// WriteFile writes the records matching f to path. A partially written file
// is removed.
func (e *Exporter) WriteFile(path string, f store.Filter) (int, error) {
	recs, err := e.src.Records(f)
	if err != nil {
		return 0, err
	}

	file, err := os.Create(path)
	if err != nil {
		return 0, err
	}

	err = report.Write(file, e.format, recs)
	if cerr := file.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		_ = os.Remove(path)
		return 0, err
	}

	return len(recs), nil
}

// Scheduler runs an export job at a fixed interval.
type Scheduler struct {
	scheduler gocron.Scheduler
	exporter  *Exporter
}

// NewScheduler registers the export job. Call Start to begin running it.
func NewScheduler(e *Exporter, every time.Duration) (*Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	s := &Scheduler{
		scheduler: scheduler,
		exporter:  e,
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(s.run),
		gocron.WithName("export"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return nil, fmt.Errorf("failed to create export job: %w", err)
	}

	return s, nil
}

func (s *Scheduler) run() {
	path, n, err := s.exporter.Export()
	if err != nil {
		slog.Error("scheduled export failed", slog.Any("error", err))
		return
	}

	slog.Info(
		"scheduled export written",
		slog.String("path", path),
		slog.Int("records", n),
	)
}

func (s *Scheduler) Start() {
	s.scheduler.Start()
}

// Stop waits for a running export to finish.
func (s *Scheduler) Stop() error {
	return s.scheduler.Shutdown()
}
