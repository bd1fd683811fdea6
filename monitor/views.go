package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/ayoisaiah/upright/internal/models"
	"github.com/ayoisaiah/upright/internal/posture"
	"github.com/ayoisaiah/upright/internal/timeutil"
)

// goodRatio returns the share of good posture among the recent posture
// records.
func (m *Model) goodRatio() (float64, bool) {
	var total, good int

	for i := range m.recent {
		if !m.recent[i].IsPosture() {
			continue
		}

		total++

		if m.recent[i].GoodPosture {
			good++
		}
	}

	if total == 0 {
		return 0, false
	}

	return float64(good) / float64(total), true
}

func (m *Model) labelView(l posture.Label) string {
	switch l {
	case posture.Good:
		return m.style.good.Render(string(l))
	case posture.ForwardLeanUnevenShoulders:
		return m.style.bad.Render(string(l))
	case posture.Unknown:
		return m.style.hint.Render(string(l))
	default:
		return m.style.warn.Render(string(l))
	}
}

func (m *Model) recordLine(rec *models.Record) string {
	ts := m.style.hint.Render(rec.Timestamp.Format("15:04:05"))

	switch {
	case rec.Reminder != "":
		return fmt.Sprintf(
			"%s  %s  %s",
			ts,
			m.style.reminder.Render(string(rec.Reminder)+" reminder"),
			rec.Context,
		)
	case !rec.IsPosture():
		return fmt.Sprintf("%s  %s  %s", ts, rec.SessionStatus, rec.Context)
	default:
		return fmt.Sprintf(
			"%s  %s  %s  risk %d",
			ts,
			m.labelView(rec.PostureLabel()),
			rec.Context,
			rec.Risk(),
		)
	}
}

func (m *Model) recentView() string {
	if len(m.recent) == 0 {
		return m.style.hint.Render("Waiting for posture records…")
	}

	lines := make([]string, 0, len(m.recent))
	for i := range m.recent {
		lines = append(lines, m.recordLine(&m.recent[i]))
	}

	return strings.Join(lines, "\n")
}

func (m *Model) timersView() string {
	if m.timers == nil {
		return ""
	}

	now := m.now()

	var s strings.Builder

	for _, t := range m.timers.Timers() {
		remaining := max(0, t.LastFired.Add(t.Interval).Sub(now))

		fmt.Fprintf(
			&s,
			"\n%s in %s",
			m.style.reminder.Render(string(t.Kind)),
			formatRemaining(remaining),
		)
	}

	return s.String()
}

func formatRemaining(d time.Duration) string {
	if d >= time.Hour {
		return timeutil.Humanize(d)
	}

	secs := int(d.Round(time.Second).Seconds())

	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func (m *Model) View() string {
	var s strings.Builder

	s.WriteString(m.style.title.Render("Upright"))
	s.WriteString(m.style.hint.Render(fmt.Sprintf("  %d points", m.points)))
	s.WriteString("\n\n")

	if ratio, ok := m.goodRatio(); ok {
		s.WriteString(m.progress.ViewAs(ratio))
		s.WriteString(m.style.hint.Render(fmt.Sprintf(" %.0f%% good", ratio*100)))
		s.WriteString("\n\n")
	}

	s.WriteString(m.recentView())

	if v := m.timersView(); v != "" {
		s.WriteString("\n")
		s.WriteString(v)
	}

	if m.lastEvent != nil {
		s.WriteString("\n\n")
		s.WriteString(m.style.reminder.Render(m.lastEvent.Title))
		s.WriteString(" " + m.style.hint.Render(m.lastEvent.At.Format("15:04:05")))
		s.WriteString("\n" + m.lastEvent.Message)
	}

	if m.err != nil {
		s.WriteString("\n\n" + m.style.errorText.Render(m.err.Error()))
	}

	s.WriteString("\n\n" + m.help.View(m.keys))

	return m.style.base.Render(s.String())
}
