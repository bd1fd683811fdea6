// Package stats reports posture statistics in the terminal and over HTTP
package stats

import (
	"io"
	"time"

	"github.com/pterm/pterm"

	"github.com/ayoisaiah/upright/internal/analytics"
	"github.com/ayoisaiah/upright/internal/config"
	"github.com/ayoisaiah/upright/internal/models"
	"github.com/ayoisaiah/upright/internal/timeutil"
	"github.com/ayoisaiah/upright/internal/ui"
	"github.com/ayoisaiah/upright/report"
	"github.com/ayoisaiah/upright/store"
)

// Source is the subset of the store used for reporting.
type Source interface {
	Records(f store.Filter) ([]models.Record, error)
	Sessions(start, end time.Time) ([]models.Session, error)
	Points() (int, error)
}

// Stats is the computed report along with the persisted sessions and the
// points total.
type Stats struct {
	Report   *analytics.Report `json:"report"`
	Sessions []models.Session  `json:"sessions"`
	Points   int               `json:"points"`
}

// StoreFilter converts the command-line filter into a store filter.
func StoreFilter(f *config.FilterConfig) store.Filter {
	if f == nil {
		return store.Filter{}
	}

	return store.Filter{
		Start:    f.StartTime,
		End:      f.EndTime,
		Contexts: f.Contexts,
	}
}

// Compute loads the records matching the filter and computes their report.
func Compute(src Source, f store.Filter, loc *time.Location) (*Stats, error) {
	recs, err := src.Records(f)
	if err != nil {
		return nil, err
	}

	sessions, err := src.Sessions(f.Start, f.End)
	if err != nil {
		return nil, err
	}

	points, err := src.Points()
	if err != nil {
		return nil, err
	}

	s := &Stats{
		Report:   analytics.Compute(recs, analytics.Options{Location: loc}),
		Sessions: filterSessions(sessions, f.Contexts),
		Points:   points,
	}

	// For all-time, report from the first record
	if !f.Start.IsZero() {
		s.Report.StartTime = f.Start
	}

	if !f.End.IsZero() {
		s.Report.EndTime = f.End
	}

	return s, nil
}

// filterSessions drops sessions outside the requested contexts.
func filterSessions(sessions []models.Session, contexts []string) []models.Session {
	if len(contexts) == 0 {
		return sessions
	}

	filtered := sessions[:0]

	for i := range sessions {
		for _, c := range contexts {
			if sessions[i].Context == c {
				filtered = append(filtered, sessions[i])
				break
			}
		}
	}

	return filtered
}

// SessionRows returns a table of sessions with its header row.
func SessionRows(sessions []models.Session) [][]string {
	rows := [][]string{
		{"#", "CONTEXT", "START", "DURATION", "SAMPLES", "RISK"},
	}

	for i := range sessions {
		sess := &sessions[i]

		rows = append(rows, []string{
			pterm.Sprint(sess.ID),
			sess.Context,
			sess.StartTime.Format("Jan 02, 2006 03:04 PM"),
			timeutil.Humanize(sess.EndTime.Sub(sess.StartTime)),
			pterm.Sprint(sess.Samples),
			pterm.Sprint(sess.Strain.Risk),
		})
	}

	return rows
}

// Show prints the statistics for the filtered range.
func Show(w io.Writer, src Source, f *config.FilterConfig, asJSON bool) error {
	s, err := Compute(src, StoreFilter(f), time.Local)
	if err != nil {
		return err
	}

	if asJSON {
		return report.WriteJSON(w, s)
	}

	err = report.Summary(w, s.Report)
	if err != nil {
		return err
	}

	if len(s.Sessions) > 0 {
		pterm.Fprintln(w, ui.Cyan("\nSessions"))

		err = ui.PrintTable(SessionRows(s.Sessions), w)
		if err != nil {
			return err
		}
	}

	pterm.Fprintln(w, "Points:", ui.Green(s.Points))

	return nil
}
