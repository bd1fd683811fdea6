package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/ayoisaiah/upright/internal/analytics"
	"github.com/ayoisaiah/upright/internal/models"
	"github.com/ayoisaiah/upright/internal/posture"
	"github.com/ayoisaiah/upright/internal/ui"
)

const (
	barChartChar  = "▇"
	noRecordsMsg  = "No posture records found for the specified time range"
	dateLayout    = "January 02, 2006"
	heatmapStride = 3
)

var shades = []string{"░░", "▒▒", "▓▓", "██"}

func section(title string) string {
	return fmt.Sprintf("\n%s\n", ui.Cyan(title))
}

func getSummary(r *analytics.Report) string {
	var b strings.Builder

	b.WriteString(section("Summary"))

	fmt.Fprintln(&b, "Posture records:", ui.Green(r.Total))
	fmt.Fprintln(
		&b,
		"Good posture:",
		ui.Green(fmt.Sprintf("%.1f%%", r.GoodRatio()*100)),
	)
	fmt.Fprintln(&b, "Mean risk:", ui.Risk(r.MeanRisk))
	fmt.Fprintln(&b, "Sessions:", ui.Green(r.Sessions))
	fmt.Fprintln(
		&b,
		"Reminders:",
		ui.Green(fmt.Sprintf(
			"%d hydration, %d break",
			r.Reminders[models.Hydration],
			r.Reminders[models.Break],
		)),
	)

	if r.Worst != "" {
		fmt.Fprintln(&b, "Highest risk context:", ui.Red(r.Worst))
		fmt.Fprintln(&b, "Lowest risk context:", ui.Green(r.Best))
	}

	if n := len(r.Strain); n > 0 {
		last := r.Strain[n-1]
		fmt.Fprintf(
			&b,
			"Cumulative strain: %s risk, %s forward lean\n",
			ui.Yellow(last.Risk),
			ui.Yellow(fmt.Sprintf("%.2f", last.ForwardLean)),
		)
	}

	return b.String()
}

func getBarChart(title string, bars pterm.Bars) string {
	if len(bars) == 0 {
		return ""
	}

	chart, err := pterm.DefaultBarChart.WithHorizontalBarCharacter(barChartChar).
		WithHorizontal().
		WithShowValue().
		WithBars(bars).
		Srender()
	if err != nil {
		pterm.Error.Println(err)
		return ""
	}

	return section(title) + chart
}

func getLabels(r *analytics.Report) string {
	var bars pterm.Bars

	for _, l := range posture.Labels {
		if r.Labels[l] == 0 {
			continue
		}

		bars = append(bars, pterm.Bar{
			Label: string(l),
			Value: r.Labels[l],
		})
	}

	return getBarChart("Posture distribution", bars)
}

func getFatigue(r *analytics.Report) string {
	names := map[int]string{1: "Low", 2: "Medium", 3: "High"}

	var bars pterm.Bars

	for level := 1; level <= 3; level++ {
		if r.Fatigue[level] == 0 {
			continue
		}

		bars = append(bars, pterm.Bar{
			Label: names[level],
			Value: r.Fatigue[level],
		})
	}

	return getBarChart("Fatigue levels", bars)
}

// ContextRows returns the per-context table with its header row.
func ContextRows(stats []analytics.ContextStats) [][]string {
	rows := [][]string{
		{"CONTEXT", "RECORDS", "GOOD", "MEAN RISK", "MEAN LEAN", "BEST STREAK"},
	}

	for _, cs := range stats {
		good := 0.0
		if cs.Records > 0 {
			good = float64(cs.Good) / float64(cs.Records) * 100
		}

		rows = append(rows, []string{
			cs.Context,
			strconv.Itoa(cs.Records),
			fmt.Sprintf("%.1f%%", good),
			fmt.Sprintf("%.2f", cs.MeanRisk),
			fmt.Sprintf("%.3f", cs.MeanForwardLean),
			strconv.Itoa(cs.LongestStreak),
		})
	}

	return rows
}

// Heatmap draws one row per weekday and two columns per hour. Darker cells
// have a higher mean; empty cells had no records.
func Heatmap(h *analytics.Heatmap) string {
	var b strings.Builder

	b.WriteString("     ")

	for hr := 0; hr < analytics.HoursInADay; hr += heatmapStride {
		fmt.Fprintf(&b, "%-*s", heatmapStride*2, fmt.Sprintf("%02d", hr))
	}

	b.WriteString("\n")

	peak := h.Max()

	for d, day := range analytics.Weekdays {
		b.WriteString(day.String()[:3] + "  ")

		for hr := range analytics.HoursInADay {
			b.WriteString(shade(h[d][hr], peak))
		}

		b.WriteString("\n")
	}

	return b.String()
}

func shade(c analytics.Cell, peak float64) string {
	if c.Count == 0 {
		return "  "
	}

	mean := c.Mean()
	if mean == 0 || peak == 0 {
		return "··"
	}

	i := int(math.Ceil(mean/peak*float64(len(shades)))) - 1

	return shades[max(0, min(i, len(shades)-1))]
}

// Summary renders the report for the terminal.
func Summary(w io.Writer, r *analytics.Report) error {
	if r.Total == 0 {
		pterm.Info.Println(noRecordsMsg)
		return nil
	}

	timePeriod := "Reporting period: " + r.StartTime.Format(dateLayout) +
		" - " + r.EndTime.Format(dateLayout)

	header := pterm.DefaultHeader.WithBackgroundStyle(pterm.NewStyle(pterm.BgYellow)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Sprintfln("%s", timePeriod)

	output := fmt.Sprint(
		header,
		getSummary(r),
		getLabels(r),
		getFatigue(r),
		section("Risk by day and hour"),
		Heatmap(&r.RiskHeatmap),
		section("Fatigue by day and hour"),
		Heatmap(&r.FatigueHeatmap),
		section("Contexts"),
	)

	_, err := fmt.Fprintln(w, strings.TrimSpace(output))
	if err != nil {
		return err
	}

	return ui.PrintTable(ContextRows(r.Contexts), w)
}

// RecordRows returns a table of records with its header row.
func RecordRows(recs []models.Record) [][]string {
	rows := [][]string{
		{"#", "TIME", "CONTEXT", "STATUS", "POSTURE", "RISK"},
	}

	for i := range recs {
		rec := &recs[i]

		status := string(rec.SessionStatus)
		if rec.Reminder != "" {
			status = string(rec.Reminder) + " reminder"
		}

		var label, risk string
		if rec.IsPosture() {
			label = ui.Label(rec.PostureLabel())
			risk = ui.Risk(float64(rec.Risk()))
		}

		rows = append(rows, []string{
			strconv.FormatUint(rec.ID, 10),
			rec.Timestamp.Format("Jan 02, 2006 15:04:05"),
			rec.Context,
			status,
			label,
			risk,
		})
	}

	return rows
}
