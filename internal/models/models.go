// Package models defines the records persisted by the store
package models

import (
	"cmp"
	"slices"
	"time"

	"github.com/ayoisaiah/upright/internal/posture"
	"github.com/ayoisaiah/upright/internal/risk"
)

// Status is the state of the tracking session when a record was written.
type Status string

const (
	Started Status = "Started"
	Stopped Status = "Stopped"
	Running Status = "Running"
)

// ReminderKind identifies the reminder that produced a record.
type ReminderKind string

const (
	Hydration ReminderKind = "hydration"
	Break     ReminderKind = "break"
)

// Record is the durable unit written to the store.
type Record struct {
	Timestamp           time.Time    `json:"timestamp"`
	BackAngle           *float64     `json:"back_angle"`
	ForwardLean         *float64     `json:"forward_lean"`
	ShoulderAlignment   *float64     `json:"shoulder_alignment"`
	SessionStatus       Status       `json:"session_status"`
	Context             string       `json:"context"`
	Label               string       `json:"label,omitempty"`
	Reminder            ReminderKind `json:"reminder,omitempty"`
	ID                  uint64       `json:"id"`
	GoodPosture         bool         `json:"good_posture"`
	ForwardLeanFlag     bool         `json:"forward_lean_flag"`
	UnevenShouldersFlag bool         `json:"uneven_shoulders_flag"`
}

// IsPosture reports whether the record describes an observed posture, as
// opposed to a session marker or a reminder.
func (r *Record) IsPosture() bool {
	return r.Reminder == "" && r.SessionStatus == Running
}

// PostureLabel returns the label the record was derived from. Records
// written without a label fall back to their flags.
func (r *Record) PostureLabel() posture.Label {
	if r.Label != "" {
		return posture.ParseLabel(r.Label)
	}

	return posture.FromFlags(r.GoodPosture, r.ForwardLeanFlag, r.UnevenShouldersFlag)
}

// Sample rebuilds the sample a posture record was derived from.
func (r *Record) Sample() posture.Sample {
	return posture.Sample{
		Timestamp: r.Timestamp,
		Metrics: posture.Metrics{
			BackAngle:         r.BackAngle,
			ForwardLean:       r.ForwardLean,
			ShoulderAlignment: r.ShoulderAlignment,
		},
		Label:   r.PostureLabel(),
		Context: r.Context,
	}
}

// Risk returns the risk score of the record.
func (r *Record) Risk() int {
	return risk.Score(r.Sample())
}

// FromSample builds a running record from a classified sample. The flags are
// derived from the label, so a Good sample never carries issue flags.
func FromSample(s posture.Sample) Record {
	good, lean, uneven := posture.Flags(s.Label)

	return Record{
		Timestamp:           s.Timestamp,
		BackAngle:           s.BackAngle,
		ForwardLean:         s.ForwardLean,
		ShoulderAlignment:   s.ShoulderAlignment,
		SessionStatus:       Running,
		Context:             s.Context,
		Label:               string(s.Label),
		GoodPosture:         good,
		ForwardLeanFlag:     lean,
		UnevenShouldersFlag: uneven,
	}
}

// Marker builds a session start or stop record.
func Marker(status Status, context string, at time.Time) Record {
	return Record{
		Timestamp:     at,
		SessionStatus: status,
		Context:       context,
	}
}

// ReminderRecord builds the record written when a reminder fires.
func ReminderRecord(kind ReminderKind, context string, at time.Time) Record {
	return Record{
		Timestamp:     at,
		SessionStatus: Running,
		Context:       context,
		Reminder:      kind,
	}
}

// Session is the persisted summary of a closed context session.
type Session struct {
	StartTime time.Time   `json:"start_time"`
	EndTime   time.Time   `json:"end_time"`
	Context   string      `json:"context"`
	Strain    risk.Strain `json:"strain"`
	ID        int64       `json:"id"`
	Samples   int         `json:"samples"`
}

// SortRecords orders records by timestamp, then ID.
func SortRecords(recs []Record) {
	slices.SortStableFunc(recs, func(a, b Record) int {
		if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
			return c
		}

		return cmp.Compare(a.ID, b.ID)
	})
}
