// Package aggregate buffers recent posture samples and reports the majority
// label over them
package aggregate

import "github.com/ayoisaiah/upright/internal/posture"

// DefaultSize is the default number of samples held by a window.
const DefaultSize = 30

// Window is a fixed-capacity ring buffer of the most recent samples. It has
// a single owner and is not safe for concurrent use.
type Window struct {
	buf  []posture.Sample
	head int // index of the oldest sample
	size int
}

// NewWindow returns an empty window holding at most capacity samples.
func NewWindow(capacity int) *Window {
	if capacity < 1 {
		capacity = DefaultSize
	}

	return &Window{
		buf: make([]posture.Sample, capacity),
	}
}

// Cap returns the capacity of the window.
func (w *Window) Cap() int {
	return len(w.buf)
}

// Len returns the number of samples currently held.
func (w *Window) Len() int {
	return w.size
}

// Push appends a sample, evicting the oldest one once the window is full.
func (w *Window) Push(s posture.Sample) {
	if w.size < len(w.buf) {
		w.buf[(w.head+w.size)%len(w.buf)] = s
		w.size++

		return
	}

	w.buf[w.head] = s
	w.head = (w.head + 1) % len(w.buf)
}

// at returns the i-th sample in arrival order.
func (w *Window) at(i int) posture.Sample {
	return w.buf[(w.head+i)%len(w.buf)]
}

// Samples returns a copy of the held samples, oldest first.
func (w *Window) Samples() []posture.Sample {
	out := make([]posture.Sample, w.size)
	for i := range out {
		out[i] = w.at(i)
	}

	return out
}

// Latest returns the most recent sample.
func (w *Window) Latest() (posture.Sample, bool) {
	if w.size == 0 {
		return posture.Sample{}, false
	}

	return w.at(w.size - 1), true
}

// Aggregate returns the most frequent label in the window. When several
// labels share the highest count, the one seen most recently wins. An empty
// window yields posture.NoData. Aggregate does not modify the window.
func (w *Window) Aggregate() posture.Label {
	if w.size == 0 {
		return posture.NoData
	}

	counts := make(map[posture.Label]int, len(posture.Labels))
	best := 0

	for i := 0; i < w.size; i++ {
		l := w.at(i).Label
		counts[l]++

		if counts[l] > best {
			best = counts[l]
		}
	}

	for i := w.size - 1; i >= 0; i-- {
		l := w.at(i).Label
		if counts[l] == best {
			return l
		}
	}

	return posture.NoData
}
