package reminder

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ayoisaiah/upright/internal/foreground"
	"github.com/ayoisaiah/upright/internal/models"
)

var t0 = time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC)

type fakeStore struct {
	err     error
	panics  bool
	records []models.Record
	points  int
}

func (f *fakeStore) Append(rec *models.Record) error {
	if f.panics {
		panic("disk on fire")
	}

	if f.err != nil {
		return f.err
	}

	rec.ID = uint64(len(f.records) + 1)
	f.records = append(f.records, *rec)

	return nil
}

func (f *fakeStore) AddPoints(n int) (int, error) {
	f.points += n

	return f.points, nil
}

type fakeNotifier struct {
	sent chan string
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{sent: make(chan string, 16)}
}

func (n *fakeNotifier) Notify(title, message string) error {
	n.sent <- title + "|" + message

	return nil
}

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time {
	return c.now
}

func newScheduler(
	t *testing.T,
	cfg Config,
	store Store,
	provider foreground.Provider,
	n *fakeNotifier,
) (*Scheduler, *clock) {
	t.Helper()

	c := &clock{now: t0}

	s := New(
		cfg,
		store,
		provider,
		n,
		WithClock(c.Now),
		WithRand(rand.New(rand.NewPCG(1, 2))),
	)

	return s, c
}

type fired struct {
	Kind models.ReminderKind
	At   time.Duration
}

func summarise(recs []models.Record) []fired {
	out := make([]fired, 0, len(recs))
	for _, r := range recs {
		out = append(out, fired{Kind: r.Reminder, At: r.Timestamp.Sub(t0)})
	}

	return out
}

func TestTimersAreIndependent(t *testing.T) {
	store := &fakeStore{}
	n := newFakeNotifier()
	s, _ := newScheduler(
		t,
		Config{Hydration: time.Second, Break: 2 * time.Second},
		store,
		foreground.Static{Process: "game"},
		n,
	)

	ctx := context.Background()

	s.Tick(ctx, t0.Add(500*time.Millisecond))
	s.Tick(ctx, t0.Add(time.Second))
	s.Tick(ctx, t0.Add(1500*time.Millisecond))
	s.Tick(ctx, t0.Add(2*time.Second))

	want := []fired{
		{models.Hydration, time.Second},
		{models.Hydration, 2 * time.Second},
		{models.Break, 2 * time.Second},
	}

	if diff := cmp.Diff(want, summarise(store.records)); diff != "" {
		t.Fatalf("fired reminders mismatch (-want +got):\n%s", diff)
	}

	for _, r := range store.records {
		if r.Context != "game" || r.SessionStatus != models.Running {
			t.Fatalf("unexpected reminder record: %+v", r)
		}
	}

	if store.points != 2*HydrationPoints+BreakPoints {
		t.Fatalf("expected %d points, got %d", 2*HydrationPoints+BreakPoints, store.points)
	}

	var titles []string
	for range 3 {
		select {
		case msg := <-n.sent:
			titles = append(titles, strings.SplitN(msg, "|", 2)[0])
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for notifications")
		}
	}

	slices.Sort(titles)

	wantTitles := []string{"Break Reminder", "Hydration Reminder", "Hydration Reminder"}
	if diff := cmp.Diff(wantTitles, titles); diff != "" {
		t.Fatalf("notification titles mismatch (-want +got):\n%s", diff)
	}
}

func TestNoContextSkipsTick(t *testing.T) {
	store := &fakeStore{}
	s, _ := newScheduler(
		t,
		Config{Hydration: time.Second, Break: time.Second},
		store,
		foreground.Static{},
		newFakeNotifier(),
	)

	s.Tick(context.Background(), t0.Add(10*time.Second))

	if len(store.records) != 0 {
		t.Fatalf("expected no reminders without a foreground context, got %d", len(store.records))
	}

	for _, timer := range s.Timers() {
		if !timer.LastFired.Equal(t0) {
			t.Fatalf("timer %s advanced without firing", timer.Kind)
		}
	}
}

func TestStoreFailureLeavesTimerUntouched(t *testing.T) {
	store := &fakeStore{err: errors.New("database is locked")}
	n := newFakeNotifier()
	s, _ := newScheduler(
		t,
		Config{Hydration: time.Second, Break: time.Hour},
		store,
		foreground.Static{Process: "editor"},
		n,
	)

	ctx := context.Background()

	s.Tick(ctx, t0.Add(time.Second))

	if store.points != 0 {
		t.Fatalf("expected no points for a failed reminder, got %d", store.points)
	}

	if got := s.Timers()[0].LastFired; !got.Equal(t0) {
		t.Fatalf("expected hydration timer to stay at %v, got %v", t0, got)
	}

	select {
	case msg := <-n.sent:
		t.Fatalf("expected no notification, got %q", msg)
	case <-time.After(50 * time.Millisecond):
	}

	// the reminder is retried on the next tick once the store recovers
	store.err = nil

	s.Tick(ctx, t0.Add(1100*time.Millisecond))

	want := []fired{{models.Hydration, 1100 * time.Millisecond}}
	if diff := cmp.Diff(want, summarise(store.records)); diff != "" {
		t.Fatalf("retried reminder mismatch (-want +got):\n%s", diff)
	}
}

func TestPanicIsRecovered(t *testing.T) {
	store := &fakeStore{panics: true}
	s, _ := newScheduler(
		t,
		Config{Hydration: time.Second, Break: time.Second},
		store,
		foreground.Static{Process: "editor"},
		newFakeNotifier(),
	)

	s.Tick(context.Background(), t0.Add(time.Minute))

	for _, timer := range s.Timers() {
		if !timer.LastFired.Equal(t0) {
			t.Fatalf("timer %s advanced despite panic", timer.Kind)
		}
	}
}

func TestEventMessage(t *testing.T) {
	store := &fakeStore{}
	s, _ := newScheduler(
		t,
		Config{Hydration: time.Second, Break: time.Hour},
		store,
		foreground.Static{Process: "editor"},
		newFakeNotifier(),
	)

	s.Tick(context.Background(), t0.Add(time.Second))

	select {
	case ev := <-s.Events():
		tip, prompt, ok := strings.Cut(ev.Message, "\n")
		if !ok || prompt != "Take a sip of water!" {
			t.Fatalf("unexpected message %q", ev.Message)
		}

		if !slices.Contains(Tips, tip) {
			t.Fatalf("unexpected tip %q", tip)
		}

		if ev.Title != "Hydration Reminder" || ev.Points != HydrationPoints ||
			ev.TotalPoints != HydrationPoints {
			t.Fatalf("unexpected event %+v", ev)
		}
	default:
		t.Fatal("expected an event to be published")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	store := &fakeStore{}
	s := New(
		Config{Hydration: time.Hour, Break: time.Hour, Tick: 5 * time.Millisecond},
		store,
		foreground.Static{Process: "editor"},
		nil,
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- s.Run(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}
