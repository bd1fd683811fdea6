package risk

import (
	"math"
	"testing"

	"github.com/ayoisaiah/upright/internal/posture"
)

func sample(l posture.Label, back, lean, shoulder *float64) posture.Sample {
	return posture.Sample{
		Label: l,
		Metrics: posture.Metrics{
			BackAngle:         back,
			ForwardLean:       lean,
			ShoulderAlignment: shoulder,
		},
	}
}

var f = posture.Float

func TestScore(t *testing.T) {
	cases := []struct {
		name     string
		sample   posture.Sample
		expected int
	}{
		{"good and upright", sample(posture.Good, f(175), f(0.05), f(0.01)), 0},
		{"good with bent back", sample(posture.Good, f(120), f(0.05), nil), 1},
		{"good with noisy lean", sample(posture.Good, f(175), f(0.3), f(0.2)), 1},
		{"slouching", sample(posture.Slouching, f(175), nil, nil), 2},
		{"forward lean double counts", sample(posture.ForwardLean, f(175), f(0.3), nil), 4},
		{"uneven shoulders", sample(posture.UnevenShoulders, f(175), f(0.0), f(0.2)), 3},
		{"everything is clamped", sample(posture.ForwardLeanUnevenShoulders, f(90), f(0.3), f(0.2)), MaxScore},
		{"unknown is neutral", sample(posture.Unknown, f(10), f(0.9), f(0.9)), 0},
		{"no data is neutral", sample(posture.NoData, nil, nil, nil), 0},
		{"absent measurements", sample(posture.ForwardLean, nil, nil, nil), 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Score(tc.sample)
			if got != tc.expected {
				t.Errorf("expected score to be: %d, but got: %d", tc.expected, got)
			}
		})
	}
}

func TestScoreRange(t *testing.T) {
	values := []*float64{
		nil, f(-500), f(-0.2), f(0), f(0.05), f(0.1), f(0.11), f(0.9),
		f(169.9), f(170), f(400), f(math.NaN()), f(math.Inf(1)),
	}

	labels := append([]posture.Label{posture.NoData}, posture.Labels...)

	for _, l := range labels {
		for _, back := range values {
			for _, lean := range values {
				for _, shoulder := range values {
					got := Score(sample(l, back, lean, shoulder))
					if got < 0 || got > MaxScore {
						t.Fatalf("score %d out of range for %s", got, l)
					}
				}
			}
		}
	}
}

func TestStrainMonotonic(t *testing.T) {
	seq := []posture.Sample{
		sample(posture.Good, f(175), f(0.02), f(0.01)),
		sample(posture.ForwardLean, f(150), f(0.4), f(0.01)),
		sample(posture.Unknown, nil, nil, nil),
		sample(posture.Good, f(175), f(-3), nil),
		sample(posture.Good, f(175), f(math.NaN()), nil),
		sample(posture.UnevenShoulders, f(175), f(0.01), f(0.3)),
	}

	var st Strain

	prevLean, prevRisk := 0.0, 0

	for i, s := range seq {
		st.Accumulate(s, Score(s))

		if math.IsNaN(st.ForwardLean) {
			t.Fatalf("sample %d: forward lean total became NaN", i)
		}

		if st.ForwardLean < prevLean || st.Risk < prevRisk {
			t.Fatalf("sample %d: strain decreased from (%v, %d) to (%v, %d)",
				i, prevLean, prevRisk, st.ForwardLean, st.Risk)
		}

		prevLean, prevRisk = st.ForwardLean, st.Risk
	}

	if st.Samples != len(seq) {
		t.Errorf("expected %d samples, got %d", len(seq), st.Samples)
	}

	if want := 0.43; math.Abs(st.ForwardLean-want) > 1e-9 {
		t.Errorf("expected forward lean total %v, got %v", want, st.ForwardLean)
	}
}

func TestFatigue(t *testing.T) {
	cases := []struct {
		sample   posture.Sample
		expected int
	}{
		{sample(posture.Good, f(120), f(0.01), f(0.2)), 3},
		{sample(posture.Good, f(175), f(0.3), f(0.2)), 2},
		{sample(posture.Good, f(175), f(0.01), f(0.01)), 1},
		{sample(posture.Unknown, nil, nil, nil), 1},
	}

	for i, tc := range cases {
		if got := Fatigue(tc.sample); got != tc.expected {
			t.Errorf("case %d: expected fatigue %d, got %d", i, tc.expected, got)
		}
	}
}
