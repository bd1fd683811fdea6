// Package session segments the posture stream into contiguous runs of samples
// captured in the same foreground context
package session

import (
	"time"

	"github.com/ayoisaiah/upright/internal/models"
	"github.com/ayoisaiah/upright/internal/posture"
	"github.com/ayoisaiah/upright/internal/risk"
)

// Session is a contiguous run of samples that share a context.
type Session struct {
	// StartTime is when the context became active
	StartTime time.Time `json:"start_time"`
	// EndTime is zero while the session is open
	EndTime time.Time   `json:"end_time"`
	Context string      `json:"context"`
	Strain  risk.Strain `json:"strain"`
	ID      int64       `json:"id"`
	Samples int         `json:"samples"`
}

// Open reports whether the session has not been closed yet.
func (s *Session) Open() bool {
	return s.EndTime.IsZero()
}

// Duration returns the time covered by a closed session.
func (s *Session) Duration() time.Duration {
	if s.Open() {
		return 0
	}

	return s.EndTime.Sub(s.StartTime)
}

// ToDBModel converts the session into its persisted form.
func (s *Session) ToDBModel() *models.Session {
	return &models.Session{
		ID:        s.ID,
		Context:   s.Context,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Samples:   s.Samples,
		Strain:    s.Strain,
	}
}

// Tracker assigns samples to sessions. It is either idle or tracking exactly
// one open session. It is owned by the capture loop and is not safe for
// concurrent use.
type Tracker struct {
	current *Session
	onClose func(Session)
	history []Session
	lastID  int64
}

// NewTracker returns an idle tracker. onClose, if not nil, receives every
// session as it is closed.
func NewTracker(onClose func(Session)) *Tracker {
	return &Tracker{
		onClose: onClose,
	}
}

// Seed makes subsequent session IDs continue after lastID. It has no effect
// once IDs beyond lastID have been issued.
func (t *Tracker) Seed(lastID int64) {
	if lastID > t.lastID {
		t.lastID = lastID
	}
}

// Active reports whether a session is being tracked.
func (t *Tracker) Active() bool {
	return t.current != nil
}

// Current returns the open session, or nil when idle. The returned session
// stays owned by the tracker.
func (t *Tracker) Current() *Session {
	return t.current
}

// History returns a copy of the closed sessions in the order they were
// closed.
func (t *Tracker) History() []Session {
	out := make([]Session, len(t.history))
	copy(out, t.history)

	return out
}

func (t *Tracker) open(context string, at time.Time) {
	if context == "" {
		context = posture.Unspecified
	}

	t.lastID++

	t.current = &Session{
		ID:        t.lastID,
		Context:   context,
		StartTime: at,
	}
}

func (t *Tracker) close(at time.Time) {
	if t.current == nil {
		return
	}

	t.current.EndTime = at

	closed := *t.current
	t.history = append(t.history, closed)
	t.current = nil

	if t.onClose != nil {
		t.onClose(closed)
	}
}

// Start begins tracking in the given context. A session that is still open
// is closed first.
func (t *Tracker) Start(context string, at time.Time) *Session {
	t.close(at)
	t.open(context, at)

	return t.current
}

// Observe assigns a sample to a session and returns it. A sample whose
// context differs from the open session closes that session and opens a new
// one; an idle tracker starts tracking the sample's context.
func (t *Tracker) Observe(s posture.Sample) *Session {
	ctx := s.Context
	if ctx == "" {
		ctx = posture.Unspecified
	}

	if t.current == nil {
		t.open(ctx, s.Timestamp)
	} else if t.current.Context != ctx {
		t.close(s.Timestamp)
		t.open(ctx, s.Timestamp)
	}

	t.current.Samples++

	return t.current
}

// Stop closes the open session, if any, and returns the tracker to idle.
func (t *Tracker) Stop(at time.Time) (Session, bool) {
	if t.current == nil {
		return Session{}, false
	}

	t.close(at)

	return t.history[len(t.history)-1], true
}
