package posture

import "math"

const (
	// UnevenShouldersThreshold is the vertical shoulder offset (normalised
	// image coordinates) above which shoulders count as uneven.
	UnevenShouldersThreshold = 0.05
	// ForwardLeanThreshold is the horizontal shoulder-to-hip offset above
	// which the user counts as leaning forward.
	ForwardLeanThreshold = 0.1
)

// Landmark names a body landmark reported by the pose estimator.
type Landmark string

const (
	LeftShoulder  Landmark = "left_shoulder"
	RightShoulder Landmark = "right_shoulder"
	LeftHip       Landmark = "left_hip"
	RightHip      Landmark = "right_hip"
)

// Point is a 2-D landmark position in normalised image coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MetricsFromLandmarks derives the posture measurements from the shoulder and
// hip landmarks. It reports false if a required landmark is missing.
func MetricsFromLandmarks(lm map[Landmark]Point) (Metrics, bool) {
	ls, ok1 := lm[LeftShoulder]
	rs, ok2 := lm[RightShoulder]
	lh, ok3 := lm[LeftHip]

	if !ok1 || !ok2 || !ok3 {
		return Metrics{}, false
	}

	shoulder := math.Abs(ls.Y - rs.Y)
	lean := math.Abs(ls.X - lh.X)
	angle := math.Atan2(ls.Y-lh.Y, ls.X-lh.X) * 180 / math.Pi

	return Metrics{
		BackAngle:         Float(angle),
		ForwardLean:       Float(lean),
		ShoulderAlignment: Float(shoulder),
	}, true
}

// Classify maps measurements to a posture label. Missing measurements are
// treated as not crossing their threshold; if every measurement is missing
// the label is Unknown.
func Classify(m Metrics) Label {
	if m.Empty() {
		return Unknown
	}

	var uneven, lean bool

	if v, ok := Value(m.ShoulderAlignment); ok && v > UnevenShouldersThreshold {
		uneven = true
	}

	if v, ok := Value(m.ForwardLean); ok && v > ForwardLeanThreshold {
		lean = true
	}

	switch {
	case lean && uneven:
		return ForwardLeanUnevenShoulders
	case lean:
		return ForwardLean
	case uneven:
		return UnevenShoulders
	default:
		return Good
	}
}

// Flags flattens a label into the persisted boolean flags. Good always
// clears the other two flags.
func Flags(l Label) (good, forwardLean, unevenShoulders bool) {
	switch l {
	case Good:
		return true, false, false
	case ForwardLean:
		return false, true, false
	case UnevenShoulders:
		return false, false, true
	case ForwardLeanUnevenShoulders:
		return false, true, true
	default:
		return false, false, false
	}
}

// FromFlags rebuilds a label from persisted flags. It is used for records
// that predate the stored label.
func FromFlags(good, forwardLean, unevenShoulders bool) Label {
	switch {
	case good:
		return Good
	case forwardLean && unevenShoulders:
		return ForwardLeanUnevenShoulders
	case forwardLean:
		return ForwardLean
	case unevenShoulders:
		return UnevenShoulders
	default:
		return Unknown
	}
}
