package posture

import "image"

// MotionMeter estimates user activity from consecutive greyscale frames. It
// is used when no landmarks are available.
type MotionMeter struct {
	prev      *image.Gray
	window    []float64
	next      int
	filled    int
	threshold float64
}

// NewMotionMeter returns a meter that averages movement over the last size
// frames.
func NewMotionMeter(size int, threshold float64) *MotionMeter {
	if size < 1 {
		size = 1
	}

	return &MotionMeter{
		window:    make([]float64, size),
		threshold: threshold,
	}
}

// diff returns the mean absolute pixel difference between two frames. Frames
// of different sizes are compared over their common area.
func diff(a, b *image.Gray) float64 {
	r := a.Bounds().Intersect(b.Bounds())
	if r.Empty() {
		return 0
	}

	var sum int

	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			d := int(a.GrayAt(x, y).Y) - int(b.GrayAt(x, y).Y)
			if d < 0 {
				d = -d
			}

			sum += d
		}
	}

	return float64(sum) / float64(r.Dx()*r.Dy())
}

// Observe records a frame and returns the rolling average movement. The
// first frame only primes the meter and contributes zero.
func (m *MotionMeter) Observe(frame *image.Gray) float64 {
	var movement float64

	if m.prev != nil && frame != nil {
		movement = diff(m.prev, frame)
	}

	if frame != nil {
		m.prev = frame
	}

	m.window[m.next] = movement
	m.next = (m.next + 1) % len(m.window)

	if m.filled < len(m.window) {
		m.filled++
	}

	return m.Average()
}

// Average returns the mean movement over the frames seen so far.
func (m *MotionMeter) Average() float64 {
	if m.filled == 0 {
		return 0
	}

	var sum float64
	for i := 0; i < m.filled; i++ {
		sum += m.window[i]
	}

	return sum / float64(m.filled)
}

// Moving reports whether the average movement exceeds the threshold.
func (m *MotionMeter) Moving() bool {
	return m.Average() > m.threshold
}
