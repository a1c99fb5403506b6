// Package window holds the sliding sample history behind a line graph.
//
// A Window stores more history than it shows. Capacity is the number of
// trailing samples a graph renders; the stored history is bounded by the
// largest capacity the window has ever had, so shrinking and then growing
// again reveals real samples instead of zeros.
package window

// Window is a resizable sliding window of float64 samples.
// It is not safe for concurrent use; callers serialize access.
type Window struct {
	capacity int
	peak     int
	samples  []float64
}

// New creates a window pre-filled with capacity zero samples.
func New(capacity int) *Window {
	if capacity < 1 {
		capacity = 1
	}
	return &Window{
		capacity: capacity,
		peak:     capacity,
		samples:  make([]float64, capacity),
	}
}

// Push appends v. Any value is accepted, including NaN and infinities.
func (w *Window) Push(v float64) {
	w.samples = append(w.samples, v)
	if len(w.samples) > w.peak {
		drop := len(w.samples) - w.peak
		w.samples = append(w.samples[:0], w.samples[drop:]...)
	}
}

// Resize changes the visible capacity.
//
// Growing left-pads the history with zeros so the newest samples stay
// newest. Shrinking discards nothing; the trailing slice is taken when
// the window is read.
//
// Padding is n-Len rather than n-Capacity. Up to the peak capacity this
// shows exactly what keeping every sample and padding n-Capacity zeros
// would show. Growing past the peak pads zeros where unbounded storage
// would reveal samples older than the last peak pushes.
func (w *Window) Resize(n int) {
	if n < 1 {
		n = 1
	}
	if n == w.capacity {
		return
	}
	w.capacity = n
	if n > w.peak {
		w.peak = n
	}
	if pad := n - len(w.samples); pad > 0 {
		padded := make([]float64, n)
		copy(padded[pad:], w.samples)
		w.samples = padded
	}
}

// Capacity returns the number of samples a projection reads.
func (w *Window) Capacity() int { return w.capacity }

// Len returns the number of stored samples, which may exceed Capacity.
func (w *Window) Len() int { return len(w.samples) }

// Samples returns a copy of the full stored history, oldest first.
func (w *Window) Samples() []float64 {
	return append([]float64(nil), w.samples...)
}

// Visible returns a copy of the trailing Capacity samples.
func (w *Window) Visible() []float64 {
	out := make([]float64, w.capacity)
	src := w.samples
	if len(src) > w.capacity {
		src = src[len(src)-w.capacity:]
	}
	copy(out[w.capacity-len(src):], src)
	return out
}

// Latest returns the newest sample.
func (w *Window) Latest() float64 {
	if len(w.samples) == 0 {
		return 0
	}
	return w.samples[len(w.samples)-1]
}
