package posture

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func TestAdapterNormalize(t *testing.T) {
	a := NewAdapter(3, 50)

	ts := time.Date(2024, 3, 4, 10, 0, 0, 500_000_000, time.UTC)

	s := a.Normalize(Observation{
		Timestamp: ts,
		Landmarks: map[Landmark]Point{
			LeftShoulder:  {X: 0.5, Y: 0.3},
			RightShoulder: {X: 0.7, Y: 0.31},
			LeftHip:       {X: 0.52, Y: 0.8},
		},
	}, "game.exe")

	if s.Label != Good {
		t.Errorf("expected Good, got %s", s.Label)
	}

	if !s.Timestamp.Equal(ts.Truncate(time.Second)) {
		t.Errorf("expected timestamp to be truncated to the second, got %v", s.Timestamp)
	}

	if s.Context != "game.exe" {
		t.Errorf("expected context to be kept, got %q", s.Context)
	}

	s = a.Normalize(Observation{Timestamp: ts}, "")

	if s.Label != Unknown {
		t.Errorf("expected Unknown without pose data, got %s", s.Label)
	}

	if !s.Empty() {
		t.Error("expected no measurements in fallback mode")
	}

	if s.Context != Unspecified {
		t.Errorf("expected sentinel context, got %q", s.Context)
	}

	if !a.Degraded() {
		t.Error("expected adapter to report degraded mode")
	}

	s = a.Normalize(Observation{
		Timestamp: ts,
		Metrics:   &Metrics{ForwardLean: Float(0.4)},
	}, "editor")

	if s.Label != ForwardLean || a.Degraded() {
		t.Errorf("expected precomputed metrics to be used, got %s", s.Label)
	}
}

func TestJSONSource(t *testing.T) {
	input := `{"timestamp":"2024-03-04T10:00:00Z","metrics":{"forward_lean":0.2}}

not json
{"timestamp":"2024-03-04T10:00:01Z"}
`

	src := NewJSONSource(io.NopCloser(strings.NewReader(input)))

	if err := src.Open(); err != nil {
		t.Fatal(err)
	}

	defer src.Close()

	ctx := context.Background()

	obs, err := src.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if v, _ := Value(obs.Metrics.ForwardLean); v != 0.2 {
		t.Errorf("expected forward lean 0.2, got %v", v)
	}

	_, err = src.Next(ctx)
	if err == nil || errors.Is(err, ErrSourceClosed) {
		t.Errorf("expected a malformed observation error, got %v", err)
	}

	obs, err = src.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if obs.Metrics != nil || obs.Landmarks != nil {
		t.Error("expected an observation without pose data")
	}

	_, err = src.Next(ctx)
	if !errors.Is(err, ErrSourceClosed) {
		t.Errorf("expected ErrSourceClosed at end of input, got %v", err)
	}
}

func TestJSONSourceCancel(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	src := NewJSONSource(r)
	_ = src.Open()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := src.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context cancellation, got %v", err)
	}

	if err := src.Close(); err != nil {
		t.Errorf("unexpected close error: %v", err)
	}
}
