package session

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ayoisaiah/upright/internal/posture"
)

var epoch = time.Date(2024, 3, 4, 20, 0, 0, 0, time.UTC)

func at(sec int) time.Time {
	return epoch.Add(time.Duration(sec) * time.Second)
}

type summary struct {
	Context string
	ID      int64
	Samples int
}

func summarise(sessions []Session) []summary {
	out := make([]summary, len(sessions))
	for i, s := range sessions {
		out[i] = summary{s.Context, s.ID, s.Samples}
	}

	return out
}

func TestSessionBoundaries(t *testing.T) {
	var closed []Session

	tr := NewTracker(func(s Session) {
		closed = append(closed, s)
	})

	tr.Start("A", at(0))

	for i, c := range []string{"A", "A", "B", "B", "A"} {
		tr.Observe(posture.Sample{
			Timestamp: at(i),
			Context:   c,
			Label:     posture.Good,
		})
	}

	if _, ok := tr.Stop(at(5)); !ok {
		t.Fatal("expected an open session to be stopped")
	}

	want := []summary{
		{"A", 1, 2},
		{"B", 2, 2},
		{"A", 3, 1},
	}

	if diff := cmp.Diff(want, summarise(tr.History())); diff != "" {
		t.Errorf("sessions mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(tr.History(), closed); diff != "" {
		t.Errorf("close callback mismatch (-history +callback):\n%s", diff)
	}

	h := tr.History()

	if !h[0].EndTime.Equal(at(2)) || !h[1].StartTime.Equal(at(2)) {
		t.Errorf("expected the switch to B at t=2 to bound both sessions: %+v", h[:2])
	}

	if !h[2].EndTime.Equal(at(5)) {
		t.Errorf("expected the last session to end at stop, got %v", h[2].EndTime)
	}

	if tr.Active() {
		t.Error("expected tracker to be idle after stop")
	}
}

func TestImplicitStart(t *testing.T) {
	tr := NewTracker(nil)

	sess := tr.Observe(posture.Sample{Timestamp: at(0)})

	if sess.Context != posture.Unspecified || sess.ID != 1 {
		t.Errorf("expected an unspecified session with id 1, got %+v", sess)
	}

	if !sess.Open() {
		t.Error("expected session to be open")
	}
}

func TestStartResetsStrain(t *testing.T) {
	tr := NewTracker(nil)

	sess := tr.Start("A", at(0))
	sess.Strain.Accumulate(posture.Sample{
		Metrics: posture.Metrics{ForwardLean: posture.Float(0.5)},
	}, 3)

	sess = tr.Start("A", at(10))

	if sess.Strain.Risk != 0 || sess.Strain.ForwardLean != 0 {
		t.Errorf("expected a fresh strain for a new session, got %+v", sess.Strain)
	}

	if sess.ID != 2 {
		t.Errorf("expected session ids to increase, got %d", sess.ID)
	}

	if h := tr.History(); len(h) != 1 || h[0].Strain.Risk != 3 {
		t.Errorf("expected the closed session to keep its strain, got %+v", h)
	}
}

func TestStopIdle(t *testing.T) {
	tr := NewTracker(nil)

	if _, ok := tr.Stop(at(0)); ok {
		t.Error("stopping an idle tracker should report false")
	}
}

func TestSeed(t *testing.T) {
	tr := NewTracker(nil)
	tr.Seed(41)

	sess := tr.Start("editor", time.Unix(0, 0))
	if sess.ID != 42 {
		t.Fatalf("expected ID 42 after seeding, got %d", sess.ID)
	}

	tr.Seed(10)

	sess = tr.Start("editor", time.Unix(1, 0))
	if sess.ID != 43 {
		t.Fatalf("seeding backwards must not reuse IDs, got %d", sess.ID)
	}
}
