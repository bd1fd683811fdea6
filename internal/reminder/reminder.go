// Package reminder fires hydration and break reminders while the user is
// active in some application
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/ayoisaiah/upright/internal/foreground"
	"github.com/ayoisaiah/upright/internal/metrics"
	"github.com/ayoisaiah/upright/internal/models"
	"github.com/ayoisaiah/upright/internal/notify"
)

const (
	DefaultHydrationInterval = 15 * time.Minute
	DefaultBreakInterval     = 30 * time.Minute
	DefaultTick              = time.Second

	HydrationPoints = 5
	BreakPoints     = 10
)

// Tips are shown alongside each reminder.
var Tips = []string{
	"Stretch your arms and legs every hour.",
	"Drink water to keep your mind sharp.",
	"Take deep breaths to relax.",
	"Avoid looking at the screen for long periods.",
	"Maintain a proper sitting posture.",
}

var (
	titles = map[models.ReminderKind]string{
		models.Hydration: "Hydration Reminder",
		models.Break:     "Break Reminder",
	}

	prompts = map[models.ReminderKind]string{
		models.Hydration: "Take a sip of water!",
		models.Break:     "Take a 5-minute break!",
	}
)

// Store is the subset of the store used by the scheduler.
type Store interface {
	Append(rec *models.Record) error
	AddPoints(n int) (int, error)
}

// Config holds the reminder intervals.
type Config struct {
	Hydration time.Duration
	Break     time.Duration
	Tick      time.Duration
}

// Timer is a recurring reminder.
type Timer struct {
	LastFired time.Time
	Kind      models.ReminderKind
	Interval  time.Duration
	Points    int
}

// Due reports whether the timer should fire at now.
func (t *Timer) Due(now time.Time) bool {
	return now.Sub(t.LastFired) >= t.Interval
}

// Event is published each time a reminder fires.
type Event struct {
	At          time.Time
	Kind        models.ReminderKind
	Context     string
	Title       string
	Message     string
	Points      int
	TotalPoints int
}

// Scheduler fires reminders on a fixed tick.
type Scheduler struct {
	store    Store
	provider foreground.Provider
	notifier notify.Notifier
	metrics  *metrics.Metrics
	rand     *rand.Rand
	now      func() time.Time
	events   chan Event
	timers   []*Timer
	tick     time.Duration
	mu       sync.Mutex
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// WithRand sets the source used to pick tips.
func WithRand(r *rand.Rand) Option {
	return func(s *Scheduler) {
		s.rand = r
	}
}

// WithMetrics records fired reminders and failed writes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scheduler) {
		s.metrics = m
	}
}

// New returns a scheduler whose timers start counting from the current time.
func New(
	cfg Config,
	store Store,
	provider foreground.Provider,
	notifier notify.Notifier,
	opts ...Option,
) *Scheduler {
	if cfg.Hydration <= 0 {
		cfg.Hydration = DefaultHydrationInterval
	}

	if cfg.Break <= 0 {
		cfg.Break = DefaultBreakInterval
	}

	if cfg.Tick <= 0 {
		cfg.Tick = DefaultTick
	}

	if notifier == nil {
		notifier = notify.Nop{}
	}

	s := &Scheduler{
		store:    store,
		provider: provider,
		notifier: notifier,
		now:      time.Now,
		rand:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		events:   make(chan Event, 16),
		tick:     cfg.Tick,
		timers: []*Timer{
			{Kind: models.Hydration, Interval: cfg.Hydration, Points: HydrationPoints},
			{Kind: models.Break, Interval: cfg.Break, Points: BreakPoints},
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	s.Reset(s.now())

	return s
}

// Reset restarts every timer at the given time.
func (s *Scheduler) Reset(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.timers {
		t.LastFired = at
	}
}

// Timers returns a snapshot of the timers.
func (s *Scheduler) Timers() []Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Timer, len(s.timers))
	for i, t := range s.timers {
		out[i] = *t
	}

	return out
}

// Events delivers fired reminders. Events are dropped when the channel is
// full.
func (s *Scheduler) Events() <-chan Event {
	return s.events
}

// Run fires due reminders on every tick until ctx is cancelled. A tick in
// progress is allowed to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.Reset(s.now())

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Tick(ctx, s.now())
		}
	}
}

// Tick fires every timer that is due at now. Nothing fires when no
// foreground context is available.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) {
	appCtx := foreground.Context(ctx, s.provider)
	if appCtx == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.timers {
		if !t.Due(now) {
			continue
		}

		err := s.fire(t, appCtx, now)
		if err != nil {
			slog.Error(
				"reminder failed",
				slog.String("kind", string(t.Kind)),
				slog.Any("error", err),
			)
		}
	}
}

func (s *Scheduler) message(kind models.ReminderKind) string {
	tip := Tips[s.rand.IntN(len(Tips))]

	return tip + "\n" + prompts[kind]
}

// fire records and announces a reminder. The timer is only advanced once
// the reminder has been written to the store.
func (s *Scheduler) fire(t *Timer, appCtx string, now time.Time) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recovered from panic: %v", r)
		}
	}()

	rec := models.ReminderRecord(t.Kind, appCtx, now)

	err = s.store.Append(&rec)
	if err != nil {
		s.metrics.RecordFailed(string(t.Kind))
		return err
	}

	s.metrics.RecordWritten(string(t.Kind))

	title, msg := titles[t.Kind], s.message(t.Kind)

	go s.deliver(title, msg)

	total, err := s.store.AddPoints(t.Points)
	if err != nil {
		slog.Warn(
			"unable to award points",
			slog.String("kind", string(t.Kind)),
			slog.Any("error", err),
		)
	}

	t.LastFired = now

	s.metrics.ReminderFired(string(t.Kind))

	slog.Info(
		"reminder fired",
		slog.String("kind", string(t.Kind)),
		slog.String("context", appCtx),
		slog.Int("points", total),
	)

	select {
	case s.events <- Event{
		At:          now,
		Kind:        t.Kind,
		Context:     appCtx,
		Title:       title,
		Message:     msg,
		Points:      t.Points,
		TotalPoints: total,
	}:
	default:
	}

	return nil
}

func (s *Scheduler) deliver(title, msg string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("notification panicked", slog.Any("panic", r))
		}
	}()

	err := s.notifier.Notify(title, msg)
	if err != nil {
		slog.Error(
			"unable to deliver notification",
			slog.String("title", title),
			slog.Any("error", err),
		)
	}
}
