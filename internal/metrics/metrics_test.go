package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	m := New()

	m.ObserveSample("Good")
	m.ObserveSample("Good")
	m.RecordFailed("posture")
	m.ReminderFired("hydration")

	if got := testutil.ToFloat64(m.Samples.WithLabelValues("Good")); got != 2 {
		t.Fatalf("expected 2 good samples, got %v", got)
	}

	if got := testutil.ToFloat64(m.WriteFailures.WithLabelValues("posture")); got != 1 {
		t.Fatalf("expected 1 write failure, got %v", got)
	}

	if got := testutil.ToFloat64(m.Reminders.WithLabelValues("hydration")); got != 1 {
		t.Fatalf("expected 1 hydration reminder, got %v", got)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics

	// must not panic
	m.ObserveSample("Good")
	m.RecordWritten("marker")
	m.Flushed()
	m.SetStrain(1, 2)
	m.SetDegraded(true)
}

func TestHandler(t *testing.T) {
	m := New()
	m.Flushed()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(string(body), "upright_flushes_total 1") {
		t.Fatalf("expected flush counter in exposition, got:\n%s", body)
	}
}
