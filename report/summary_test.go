package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/pterm/pterm"

	"github.com/ayoisaiah/upright/internal/analytics"
	"github.com/ayoisaiah/upright/internal/posture"
)

func TestHeatmap(t *testing.T) {
	recs := sampleLog()
	recs = append(
		recs,
		postureRecord(day.Add(time.Hour), posture.Good, 175, 0.02, 0.01),
	)

	r := analytics.Compute(recs, analytics.Options{Location: time.UTC})

	lines := strings.Split(Heatmap(&r.RiskHeatmap), "\n")

	want := []string{
		"     00    03    06    09    12    15    18    21    ",
		"Mon  " + strings.Repeat("  ", 9) + "██" + "··" + strings.Repeat("  ", 13),
		"Tue  " + strings.Repeat("  ", 24),
	}

	for i, w := range want {
		if lines[i] != w {
			t.Fatalf("heatmap line %d:\nwant %q\ngot  %q", i, w, lines[i])
		}
	}

	// one line per weekday, the header and a trailing newline
	if len(lines) != 9 {
		t.Fatalf("expected 9 lines, got %d", len(lines))
	}
}

func TestSummary(t *testing.T) {
	pterm.DisableColor()
	defer pterm.EnableColor()

	r := analytics.Compute(sampleLog(), analytics.Options{Location: time.UTC})

	var buf bytes.Buffer

	err := Summary(&buf, r)
	if err != nil {
		t.Fatal(err)
	}

	out := buf.String()

	for _, s := range []string{
		"Reporting period: May 06, 2024 - May 06, 2024",
		"Posture records: 2",
		"Good posture: 50.0%",
		"Mean risk: 2.50",
		"Sessions: 1",
		"Reminders: 1 hydration, 0 break",
		"Highest risk context: editor",
		"Risk by day and hour",
		"CONTEXT",
	} {
		if !strings.Contains(out, s) {
			t.Errorf("expected summary to contain %q:\n%s", s, out)
		}
	}
}

func TestContextRows(t *testing.T) {
	rows := ContextRows([]analytics.ContextStats{
		{
			Context:         "editor",
			Records:         4,
			Good:            3,
			MeanRisk:        1.25,
			MeanForwardLean: 0.05,
			LongestStreak:   2,
		},
	})

	want := []string{"editor", "4", "75.0%", "1.25", "0.050", "2"}

	if strings.Join(rows[1], "|") != strings.Join(want, "|") {
		t.Fatalf("expected row %v, got %v", want, rows[1])
	}
}
