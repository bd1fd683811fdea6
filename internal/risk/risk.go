// Package risk scores posture samples and accumulates postural strain
package risk

import (
	"math"

	"github.com/ayoisaiah/upright/internal/posture"
)

const (
	// MaxScore is the highest risk score a sample can receive.
	MaxScore = 5

	// BackAngleThreshold is the back angle (degrees) below which the back
	// counts as bent.
	BackAngleThreshold = 170

	baseScore = 2
)

// Score returns the risk score of a sample, in [0, MaxScore]. Categorical
// flags and raw threshold checks both contribute, so a forward lean is
// counted twice when it is present in the label and in the measurement.
// Samples without posture information score zero.
func Score(s posture.Sample) int {
	if !s.Label.Known() {
		return 0
	}

	good, lean, uneven := posture.Flags(s.Label)

	var score int

	if !good {
		score += baseScore
	}

	if lean {
		score++
	}

	if uneven {
		score++
	}

	if v, ok := posture.Value(s.ForwardLean); ok && v > posture.ForwardLeanThreshold {
		score++
	}

	if v, ok := posture.Value(s.BackAngle); ok && v < BackAngleThreshold {
		score++
	}

	return min(score, MaxScore)
}

// Fatigue returns a coarse fatigue level between 1 (low) and 3 (high).
func Fatigue(s posture.Sample) int {
	back, hasBack := posture.Value(s.BackAngle)
	shoulder, hasShoulder := posture.Value(s.ShoulderAlignment)

	if hasBack && hasShoulder && back < BackAngleThreshold &&
		shoulder > posture.UnevenShouldersThreshold {
		return 3
	}

	if v, ok := posture.Value(s.ForwardLean); ok && v > posture.ForwardLeanThreshold {
		return 2
	}

	return 1
}

// Strain is the running total of forward lean and risk over a session.
type Strain struct {
	ForwardLean float64 `json:"forward_lean"`
	Risk        int     `json:"risk"`
	Samples     int     `json:"samples"`
}

// leanContribution returns the amount a sample adds to the forward lean
// total. Absent, negative and NaN measurements contribute zero so that the
// total stays defined and never decreases.
func leanContribution(v *float64) float64 {
	f, ok := posture.Value(v)
	if !ok || math.IsNaN(f) || f < 0 || math.IsInf(f, 0) {
		return 0
	}

	return f
}

// Accumulate adds a sample and its score to the running totals.
func (st *Strain) Accumulate(s posture.Sample, score int) {
	st.ForwardLean += leanContribution(s.ForwardLean)

	if score > 0 {
		st.Risk += score
	}

	st.Samples++
}
