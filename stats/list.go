package stats

import (
	"io"

	"github.com/pterm/pterm"

	"github.com/ayoisaiah/upright/internal/models"
	"github.com/ayoisaiah/upright/internal/ui"
	"github.com/ayoisaiah/upright/report"
)

const noRecordsMsg = "No records found"

// Latest is the subset of the store used to list recent records.
type Latest interface {
	Latest(n int) ([]models.Record, error)
}

// List prints the most recent records, newest first.
func List(w io.Writer, src Latest, limit int, asJSON bool) error {
	recs, err := src.Latest(limit)
	if err != nil {
		return err
	}

	if asJSON {
		if recs == nil {
			recs = []models.Record{}
		}

		return report.WriteJSON(w, recs)
	}

	if len(recs) == 0 {
		pterm.Info.Println(noRecordsMsg)
		return nil
	}

	return ui.PrintTable(report.RecordRows(recs), w)
}
