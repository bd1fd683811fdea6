// Package posture turns pose observations into classified posture samples
package posture

import "time"

// Label is the categorical posture classification of a single sample.
type Label string

const (
	Good                       Label = "Good"
	Slouching                  Label = "Slouching"
	ForwardLean                Label = "ForwardLean"
	UnevenShoulders            Label = "UnevenShoulders"
	ForwardLeanUnevenShoulders Label = "ForwardLean+UnevenShoulders"
	Unknown                    Label = "Unknown"

	// NoData is reported when there is nothing to aggregate. It is never
	// assigned to a sample.
	NoData Label = "NoData"
)

// Unspecified is the context of a sample captured while no foreground
// application could be identified.
const Unspecified = "Unspecified"

// Labels lists every sample label in display order.
var Labels = []Label{
	Good,
	Slouching,
	ForwardLean,
	UnevenShoulders,
	ForwardLeanUnevenShoulders,
	Unknown,
}

// Known reports whether the label carries posture information.
func (l Label) Known() bool {
	switch l {
	case Good, Slouching, ForwardLean, UnevenShoulders,
		ForwardLeanUnevenShoulders:
		return true
	}

	return false
}

// ParseLabel converts a stored label back into a Label. Unrecognised values
// map to Unknown.
func ParseLabel(s string) Label {
	l := Label(s)
	if l.Known() {
		return l
	}

	return Unknown
}

// Metrics holds the landmark-derived measurements. A nil field means the
// value could not be measured.
type Metrics struct {
	BackAngle         *float64 `json:"back_angle,omitempty"`
	ForwardLean       *float64 `json:"forward_lean,omitempty"`
	ShoulderAlignment *float64 `json:"shoulder_alignment,omitempty"`
}

// Empty reports whether no measurement is present.
func (m Metrics) Empty() bool {
	return m.BackAngle == nil && m.ForwardLean == nil &&
		m.ShoulderAlignment == nil
}

// Sample is one classified observation. Samples are not modified after they
// are created.
type Sample struct {
	Timestamp time.Time `json:"timestamp"`
	Metrics
	Label   Label   `json:"label"`
	Context string  `json:"context"`
	Motion  float64 `json:"motion,omitempty"`
}

// Value returns the measurement and whether it is present.
func Value(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}

	return *v, true
}

// Float returns a pointer to a copy of v.
func Float(v float64) *float64 {
	return &v
}
