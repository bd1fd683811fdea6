package posture

import (
	"log/slog"
	"time"
)

// Adapter normalises raw observations into classified samples. It is owned
// by the capture loop and is not safe for concurrent use.
type Adapter struct {
	now      func() time.Time
	motion   *MotionMeter
	degraded bool
}

// NewAdapter returns an adapter whose motion fallback averages over
// motionWindow frames.
func NewAdapter(motionWindow int, motionThreshold float64) *Adapter {
	return &Adapter{
		now:    time.Now,
		motion: NewMotionMeter(motionWindow, motionThreshold),
	}
}

// Degraded reports whether the last observation had no pose data.
func (a *Adapter) Degraded() bool {
	return a.degraded
}

// Normalize converts an observation captured while context was in the
// foreground into a sample. It never fails: observations without pose data
// produce an Unknown sample carrying the motion estimate.
func (a *Adapter) Normalize(obs Observation, context string) Sample {
	ts := obs.Timestamp
	if ts.IsZero() {
		ts = a.now()
	}

	if context == "" {
		context = Unspecified
	}

	s := Sample{
		Timestamp: ts.Truncate(time.Second),
		Context:   context,
	}

	var (
		m  Metrics
		ok bool
	)

	if obs.Metrics != nil && !obs.Metrics.Empty() {
		m, ok = *obs.Metrics, true
	} else if len(obs.Landmarks) > 0 {
		m, ok = MetricsFromLandmarks(obs.Landmarks)
	}

	if !ok {
		if !a.degraded {
			slog.Warn("no pose data available, using motion fallback")
		}

		a.degraded = true

		s.Label = Unknown
		s.Motion = a.motion.Observe(obs.Frame.Gray())

		return s
	}

	if a.degraded {
		slog.Info("pose data available again")
	}

	a.degraded = false

	s.Metrics = m
	s.Label = Classify(m)

	return s
}
