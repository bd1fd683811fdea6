// Package monitor shows recent posture records and upcoming reminders in
// the terminal while tracking runs
package monitor

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ayoisaiah/upright/internal/models"
	"github.com/ayoisaiah/upright/internal/reminder"
)

const (
	// RecentRecords is the number of records shown.
	RecentRecords = 8

	defaultRefresh = time.Second
)

// Source is the subset of the store the monitor reads from.
type Source interface {
	Latest(n int) ([]models.Record, error)
	Points() (int, error)
}

// Timers provides the reminder timers and their events.
type Timers interface {
	Timers() []reminder.Timer
	Events() <-chan reminder.Event
}

type keymap struct {
	refresh key.Binding
	quit    key.Binding
}

func (k keymap) ShortHelp() []key.Binding {
	return []key.Binding{k.refresh, k.quit}
}

func (k keymap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var defaultKeymap = keymap{
	refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	quit: key.NewBinding(
		key.WithKeys("ctrl+c", "q"),
		key.WithHelp("q", "quit"),
	),
}

type style struct {
	base      lipgloss.Style
	title     lipgloss.Style
	hint      lipgloss.Style
	good      lipgloss.Style
	warn      lipgloss.Style
	bad       lipgloss.Style
	reminder  lipgloss.Style
	errorText lipgloss.Style
}

func newStyle(dark bool) style {
	hint := lipgloss.Color("#6B7280")
	if dark {
		hint = lipgloss.Color("#9CA3AF")
	}

	return style{
		base:      lipgloss.NewStyle().Padding(1, 2),
		title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#B0DB43")),
		hint:      lipgloss.NewStyle().Foreground(hint),
		good:      lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E")),
		warn:      lipgloss.NewStyle().Foreground(lipgloss.Color("#EAB308")),
		bad:       lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")),
		reminder:  lipgloss.NewStyle().Foreground(lipgloss.Color("#12EAEA")),
		errorText: lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Italic(true),
	}
}

// Model is the bubbletea model of the live monitor.
type Model struct {
	src       Source
	timers    Timers
	now       func() time.Time
	lastEvent *reminder.Event
	err       error
	help      help.Model
	progress  progress.Model
	style     style
	keys      keymap
	recent    []models.Record
	points    int
	refresh   time.Duration
}

// New returns a monitor that polls src every refresh interval. timers may
// be nil when reminders are disabled.
func New(src Source, timers Timers, refresh time.Duration, darkTheme bool) *Model {
	if refresh <= 0 {
		refresh = defaultRefresh
	}

	return &Model{
		src:      src,
		timers:   timers,
		now:      time.Now,
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		style:    newStyle(darkTheme),
		keys:     defaultKeymap,
		refresh:  refresh,
	}
}

type (
	tickMsg    time.Time
	refreshMsg struct {
		err    error
		recent []models.Record
		points int
	}
	eventMsg reminder.Event
)

func (m *Model) load() tea.Msg {
	recent, err := m.src.Latest(RecentRecords)
	if err != nil {
		return refreshMsg{err: err}
	}

	points, err := m.src.Points()

	return refreshMsg{recent: recent, points: points, err: err}
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) waitForEvent() tea.Cmd {
	if m.timers == nil {
		return nil
	}

	events := m.timers.Events()

	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}

		return eventMsg(ev)
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.load, m.tick(), m.waitForEvent())
}

// Run blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, m *Model) error {
	p := tea.NewProgram(m, tea.WithContext(ctx))

	_, err := p.Run()
	if ctx.Err() != nil {
		return nil
	}

	return err
}
