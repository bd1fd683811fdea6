package monitor

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ayoisaiah/upright/internal/reminder"
)

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.refresh):
		return m, m.load
	}

	return m, nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.progress.Width = max(10, min(msg.Width-8, 60))
		m.help.Width = msg.Width
	case tickMsg:
		return m, tea.Batch(m.load, m.tick())
	case refreshMsg:
		m.err = msg.err
		if msg.err == nil {
			m.recent = msg.recent
			m.points = msg.points
		}
	case eventMsg:
		ev := reminder.Event(msg)
		m.lastEvent = &ev
		m.points = max(m.points, ev.TotalPoints)

		return m, m.waitForEvent()
	}

	return m, nil
}
