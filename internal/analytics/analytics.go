// Package analytics computes posture statistics from persisted records
package analytics

import (
	"slices"
	"time"

	"github.com/maruel/natural"

	"github.com/ayoisaiah/upright/internal/models"
	"github.com/ayoisaiah/upright/internal/posture"
	"github.com/ayoisaiah/upright/internal/risk"
)

const (
	DaysInAWeek = 7
	HoursInADay = 24
)

// Weekdays lists the heatmap rows in order.
var Weekdays = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}

// Cell accumulates the values that fall in one heatmap cell.
type Cell struct {
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// Mean returns the cell average, or zero for an empty cell.
func (c Cell) Mean() float64 {
	if c.Count == 0 {
		return 0
	}

	return c.Total / float64(c.Count)
}

// Heatmap is indexed by day of the week (Monday first) and hour of the day.
type Heatmap [DaysInAWeek][HoursInADay]Cell

func (h *Heatmap) add(t time.Time, v float64) {
	day := (int(t.Weekday()) + DaysInAWeek - 1) % DaysInAWeek
	cell := &h[day][t.Hour()]
	cell.Total += v
	cell.Count++
}

// Max returns the largest cell mean.
func (h *Heatmap) Max() float64 {
	var m float64

	for d := range h {
		for hr := range h[d] {
			m = max(m, h[d][hr].Mean())
		}
	}

	return m
}

// ContextStats summarises the posture records of one context.
type ContextStats struct {
	Context         string  `json:"context"`
	Records         int     `json:"records"`
	Good            int     `json:"good"`
	MeanRisk        float64 `json:"mean_risk"`
	MeanForwardLean float64 `json:"mean_forward_lean"`
	LongestStreak   int     `json:"longest_streak"`
}

type contextTotals struct {
	stats       ContextStats
	totalRisk   int
	totalLean   float64
	leanSamples int
	streak      int
}

// StrainPoint is the cumulative strain after a posture record.
type StrainPoint struct {
	Timestamp   time.Time `json:"timestamp"`
	ForwardLean float64   `json:"forward_lean"`
	Risk        int       `json:"risk"`
}

// Report holds the computed statistics.
type Report struct {
	StartTime      time.Time                   `json:"start_time"`
	EndTime        time.Time                   `json:"end_time"`
	Labels         map[posture.Label]int       `json:"labels"`
	Fatigue        map[int]int                 `json:"fatigue"`
	Reminders      map[models.ReminderKind]int `json:"reminders"`
	Worst          string                      `json:"worst_context"`
	Best           string                      `json:"best_context"`
	Contexts       []ContextStats              `json:"contexts"`
	Strain         []StrainPoint               `json:"strain"`
	RiskHeatmap    Heatmap                     `json:"risk_heatmap"`
	FatigueHeatmap Heatmap                     `json:"fatigue_heatmap"`
	Total          int                         `json:"total"`
	Good           int                         `json:"good"`
	Sessions       int                         `json:"sessions"`
	MeanRisk       float64                     `json:"mean_risk"`
}

// GoodRatio returns the proportion of posture records with good posture.
func (r *Report) GoodRatio() float64 {
	if r.Total == 0 {
		return 0
	}

	return float64(r.Good) / float64(r.Total)
}

// Options controls how records are grouped.
type Options struct {
	// Location is used to derive the day and hour of each record. It
	// defaults to the local time zone.
	Location *time.Location
}

// Compute derives a report from records. The input slice is not modified.
// Only posture records contribute to posture statistics; session markers
// and reminders are counted separately.
func Compute(records []models.Record, opts Options) *Report {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	recs := slices.Clone(records)
	models.SortRecords(recs)

	r := &Report{
		Labels:    make(map[posture.Label]int),
		Fatigue:   make(map[int]int),
		Reminders: make(map[models.ReminderKind]int),
	}

	if len(recs) > 0 {
		r.StartTime = recs[0].Timestamp
		r.EndTime = recs[len(recs)-1].Timestamp
	}

	contexts := make(map[string]*contextTotals)

	var (
		strain    risk.Strain
		totalRisk int
	)

	for i := range recs {
		rec := &recs[i]

		if rec.Reminder != "" {
			r.Reminders[rec.Reminder]++
			continue
		}

		if rec.SessionStatus == models.Started {
			r.Sessions++
		}

		if !rec.IsPosture() {
			continue
		}

		sample := rec.Sample()
		score := risk.Score(sample)
		at := rec.Timestamp.In(loc)

		r.Total++
		r.Labels[sample.Label]++
		totalRisk += score

		if rec.GoodPosture {
			r.Good++
		}

		r.RiskHeatmap.add(at, float64(score))

		if sample.Label.Known() {
			level := risk.Fatigue(sample)
			r.Fatigue[level]++
			r.FatigueHeatmap.add(at, float64(level))
		}

		strain.Accumulate(sample, score)
		r.Strain = append(r.Strain, StrainPoint{
			Timestamp:   rec.Timestamp,
			ForwardLean: strain.ForwardLean,
			Risk:        strain.Risk,
		})

		ct, ok := contexts[rec.Context]
		if !ok {
			ct = &contextTotals{stats: ContextStats{Context: rec.Context}}
			contexts[rec.Context] = ct
		}

		ct.add(rec, score)
	}

	if r.Total > 0 {
		r.MeanRisk = float64(totalRisk) / float64(r.Total)
	}

	r.Contexts = make([]ContextStats, 0, len(contexts))
	for _, ct := range contexts {
		r.Contexts = append(r.Contexts, ct.finish())
	}

	slices.SortFunc(r.Contexts, func(a, b ContextStats) int {
		switch {
		case natural.Less(a.Context, b.Context):
			return -1
		case natural.Less(b.Context, a.Context):
			return 1
		default:
			return 0
		}
	})

	r.Worst, r.Best = extremes(r.Contexts)

	return r
}

// add folds a posture record into the context's totals. Records arrive in
// timestamp order, so the running streak follows the context's own record
// sequence.
func (ct *contextTotals) add(rec *models.Record, score int) {
	ct.stats.Records++
	ct.totalRisk += score

	if v, ok := posture.Value(rec.ForwardLean); ok {
		ct.totalLean += v
		ct.leanSamples++
	}

	if !rec.GoodPosture {
		ct.streak = 0
		return
	}

	ct.stats.Good++
	ct.streak++
	ct.stats.LongestStreak = max(ct.stats.LongestStreak, ct.streak)
}

func (ct *contextTotals) finish() ContextStats {
	cs := ct.stats

	if cs.Records > 0 {
		cs.MeanRisk = float64(ct.totalRisk) / float64(cs.Records)
	}

	if ct.leanSamples > 0 {
		cs.MeanForwardLean = ct.totalLean / float64(ct.leanSamples)
	}

	return cs
}

// extremes returns the contexts with the highest and lowest mean risk. Ties
// go to the context that sorts first.
func extremes(stats []ContextStats) (worst, best string) {
	if len(stats) == 0 {
		return "", ""
	}

	w, b := stats[0], stats[0]

	for _, cs := range stats[1:] {
		if cs.MeanRisk > w.MeanRisk {
			w = cs
		}

		if cs.MeanRisk < b.MeanRisk {
			b = cs
		}
	}

	return w.Context, b.Context
}
