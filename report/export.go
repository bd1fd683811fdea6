package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ayoisaiah/upright/internal/apperr"
	"github.com/ayoisaiah/upright/internal/models"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatJSON = "json"
)

const (
	sheetName  = "Posture Log"
	timeLayout = "2006-01-02 15:04:05"
)

var errUnknownFormat = &apperr.Error{
	Message: "unknown export format %q",
}

// Columns is the header row shared by every export format.
var Columns = []string{
	"ID",
	"Timestamp",
	"Context",
	"Session Status",
	"Posture",
	"Good Posture",
	"Forward Lean Flag",
	"Uneven Shoulders Flag",
	"Back Angle",
	"Forward Lean",
	"Shoulder Alignment",
	"Reminder",
	"Risk",
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}

	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatLabel(rec *models.Record) string {
	if !rec.IsPosture() {
		return ""
	}

	return string(rec.PostureLabel())
}

func formatRisk(rec *models.Record) string {
	if !rec.IsPosture() {
		return ""
	}

	return strconv.Itoa(rec.Risk())
}

// Row converts a record into its exported columns.
func Row(rec *models.Record) []string {
	return []string{
		strconv.FormatUint(rec.ID, 10),
		rec.Timestamp.Format(timeLayout),
		rec.Context,
		string(rec.SessionStatus),
		formatLabel(rec),
		strconv.FormatBool(rec.GoodPosture),
		strconv.FormatBool(rec.ForwardLeanFlag),
		strconv.FormatBool(rec.UnevenShouldersFlag),
		formatFloat(rec.BackAngle),
		formatFloat(rec.ForwardLean),
		formatFloat(rec.ShoulderAlignment),
		string(rec.Reminder),
		formatRisk(rec),
	}
}

// WriteCSV writes the records as comma separated values with a header row.
func WriteCSV(w io.Writer, recs []models.Record) error {
	cw := csv.NewWriter(w)

	err := cw.Write(Columns)
	if err != nil {
		return err
	}

	for i := range recs {
		err = cw.Write(Row(&recs[i]))
		if err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

// WriteXLSX writes the records to a single worksheet. Measurements are
// stored as numbers so that they can be charted.
func WriteXLSX(w io.Writer, recs []models.Record) error {
	f := excelize.NewFile()

	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	err = f.DeleteSheet("Sheet1")
	if err != nil {
		return err
	}

	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}

	err = f.SetSheetRow(sheetName, "A1", &header)
	if err != nil {
		return err
	}

	last, err := excelize.CoordinatesToCellName(len(Columns), 1)
	if err != nil {
		return err
	}

	err = f.SetCellStyle(sheetName, "A1", last, headerStyle)
	if err != nil {
		return err
	}

	for i := range recs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		row := xlsxRow(&recs[i])

		err = f.SetSheetRow(sheetName, cell, &row)
		if err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	err = f.SetColWidth(sheetName, "B", "B", 20)
	if err != nil {
		return err
	}

	_, err = f.WriteTo(w)

	return err
}

func xlsxRow(rec *models.Record) []any {
	row := make([]any, 0, len(Columns))

	for i, v := range Row(rec) {
		switch i {
		case 8, 9, 10:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				row = append(row, f)
				continue
			}
		case 0, 12:
			if n, err := strconv.Atoi(v); err == nil {
				row = append(row, n)
				continue
			}
		}

		row = append(row, v)
	}

	return row
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

// Write exports the records in the named format.
func Write(w io.Writer, format string, recs []models.Record) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, recs)
	case FormatXLSX:
		return WriteXLSX(w, recs)
	case FormatJSON:
		return WriteJSON(w, recs)
	default:
		return errUnknownFormat.Fmt(format)
	}
}

// FileName returns the name of an export file created at t.
func FileName(format string, t time.Time) string {
	return fmt.Sprintf("upright_%s.%s", t.Format("2006-01-02_15-04-05"), format)
}
