// Package pipeline runs the capture loop: it reads observations from the
// pose source, classifies and aggregates them, tracks context sessions and
// writes periodic records to the store
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ayoisaiah/upright/internal/aggregate"
	"github.com/ayoisaiah/upright/internal/apperr"
	"github.com/ayoisaiah/upright/internal/foreground"
	"github.com/ayoisaiah/upright/internal/metrics"
	"github.com/ayoisaiah/upright/internal/models"
	"github.com/ayoisaiah/upright/internal/posture"
	"github.com/ayoisaiah/upright/internal/risk"
	"github.com/ayoisaiah/upright/internal/session"
)

const (
	DefaultFlushEvery      = 30 * time.Second
	DefaultMotionThreshold = 50
)

const (
	kindPosture = "posture"
	kindMarker  = "marker"
)

var errOpenSource = &apperr.Error{
	Message: "unable to open the posture source",
}

// Store is the subset of the store used by the capture loop.
type Store interface {
	Append(rec *models.Record) error
	SaveSession(sess *models.Session) error
	LastSessionID() (int64, error)
}

// Config controls aggregation and the motion fallback.
type Config struct {
	WindowSize      int
	FlushEvery      time.Duration
	MotionWindow    int
	MotionThreshold float64
}

// Pipeline is the capture loop. It owns the aggregation window and the
// session tracker, so a Pipeline must only be run once at a time.
type Pipeline struct {
	lastFlush time.Time
	source    posture.Source
	provider  foreground.Provider
	store     Store
	metrics   *metrics.Metrics
	now       func() time.Time
	window    *aggregate.Window
	tracker   *session.Tracker
	adapter   *posture.Adapter
	cfg       Config
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock replaces the wall clock used for session markers.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// WithMetrics instruments the pipeline.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// New returns a capture loop reading from source.
func New(
	cfg Config,
	source posture.Source,
	provider foreground.Provider,
	store Store,
	opts ...Option,
) *Pipeline {
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = aggregate.DefaultSize
	}

	if cfg.FlushEvery <= 0 {
		cfg.FlushEvery = DefaultFlushEvery
	}

	if cfg.MotionWindow <= 0 {
		cfg.MotionWindow = aggregate.DefaultSize
	}

	if cfg.MotionThreshold <= 0 {
		cfg.MotionThreshold = DefaultMotionThreshold
	}

	p := &Pipeline{
		cfg:      cfg,
		source:   source,
		provider: provider,
		store:    store,
		now:      time.Now,
		window:   aggregate.NewWindow(cfg.WindowSize),
		adapter:  posture.NewAdapter(cfg.MotionWindow, cfg.MotionThreshold),
	}

	for _, opt := range opts {
		opt(p)
	}

	p.tracker = session.NewTracker(p.saveSession)

	return p
}

// Sessions returns the sessions closed so far.
func (p *Pipeline) Sessions() []session.Session {
	return p.tracker.History()
}

func (p *Pipeline) saveSession(sess session.Session) {
	err := p.store.SaveSession(sess.ToDBModel())
	if err != nil {
		slog.Error(
			"unable to save session",
			slog.Int64("id", sess.ID),
			slog.String("context", sess.Context),
			slog.Any("error", err),
		)
	}
}

func (p *Pipeline) append(rec models.Record, kind string) {
	err := p.store.Append(&rec)
	if err != nil {
		p.metrics.RecordFailed(kind)

		slog.Error(
			"unable to write record",
			slog.String("kind", kind),
			slog.Time("timestamp", rec.Timestamp),
			slog.Any("error", err),
		)

		return
	}

	p.metrics.RecordWritten(kind)
}

func (p *Pipeline) context(ctx context.Context) string {
	appCtx := foreground.Context(ctx, p.provider)
	if appCtx == "" {
		return posture.Unspecified
	}

	return appCtx
}

// Run processes observations until ctx is cancelled or the source is
// exhausted. A source that cannot be opened is reported before anything is
// written to the store.
func (p *Pipeline) Run(ctx context.Context) error {
	err := p.source.Open()
	if err != nil {
		return errOpenSource.Wrap(err)
	}

	defer func() {
		if err := p.source.Close(); err != nil {
			slog.Warn("unable to close posture source", slog.Any("error", err))
		}
	}()

	lastID, err := p.store.LastSessionID()
	if err != nil {
		slog.Warn("unable to read last session id", slog.Any("error", err))
	}

	p.tracker.Seed(lastID)

	appCtx := p.context(ctx)
	startedAt := p.now()

	p.tracker.Start(appCtx, startedAt)
	p.append(models.Marker(models.Started, appCtx, startedAt), kindMarker)

	slog.Info("tracking started", slog.String("context", appCtx))

	for {
		obs, err := p.source.Next(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, posture.ErrSourceClosed) {
				break
			}

			slog.Warn("skipping observation", slog.Any("error", err))

			continue
		}

		p.Process(p.adapter.Normalize(obs, p.context(ctx)))
	}

	p.stop()

	return nil
}

// Process feeds one classified sample through the loop.
func (p *Pipeline) Process(s posture.Sample) {
	sess := p.tracker.Observe(s)
	sess.Strain.Accumulate(s, risk.Score(s))

	p.window.Push(s)

	p.metrics.ObserveSample(string(s.Label))
	p.metrics.SetDegraded(p.adapter.Degraded())
	p.metrics.SetStrain(sess.Strain.ForwardLean, sess.Strain.Risk)

	if p.lastFlush.IsZero() {
		p.lastFlush = s.Timestamp
		return
	}

	if s.Timestamp.Sub(p.lastFlush) >= p.cfg.FlushEvery {
		p.flush()
		p.lastFlush = s.Timestamp
	}
}

// flush writes one record summarising the window: the majority label with
// the measurements of the most recent sample.
func (p *Pipeline) flush() {
	latest, ok := p.window.Latest()
	if !ok {
		return
	}

	summary := latest
	summary.Label = p.window.Aggregate()

	p.append(models.FromSample(summary), kindPosture)
	p.metrics.Flushed()
}

func (p *Pipeline) stop() {
	at := p.now()

	appCtx := posture.Unspecified
	if cur := p.tracker.Current(); cur != nil {
		appCtx = cur.Context
	}

	// closing the session triggers saveSession
	p.tracker.Stop(at)

	p.append(models.Marker(models.Stopped, appCtx, at), kindMarker)

	slog.Info("tracking stopped", slog.String("context", appCtx))
}
