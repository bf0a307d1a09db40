// Package ringbuffer implements fixed-capacity ring buffers
package ringbuffer

// Float is a fixed-capacity ring buffer of float64 with O(1) push.
// Once the buffer is full, pushing overwrites the oldest value. A new
// (or Reset) buffer holds all zeros, so consumers that aggregate over
// the whole buffer see a neutral history rather than stale samples.
type Float struct {
	data []float64
	next int
}

// NewFloat returns a zero-filled ring buffer holding n values
func NewFloat(n int) *Float {
	if n <= 0 {
		panic("newFloat: ring buffer capacity must be positive")
	}
	return &Float{data: make([]float64, n)}
}

// Push adds a value to the buffer, overwriting the oldest value
func (f *Float) Push(v float64) {
	f.data[f.next] = v
	f.next = (f.next + 1) % len(f.data)
}

// Values returns a copy of the buffered values. The order is not the
// insertion order; callers are expected to aggregate over the whole
// buffer (e.g. mean or variance).
func (f *Float) Values() []float64 {
	out := make([]float64, len(f.data))
	copy(out, f.data)
	return out
}

// Len returns the buffer's capacity
func (f *Float) Len() int {
	return len(f.data)
}

// Reset zeroes the buffer
func (f *Float) Reset() {
	for i := range f.data {
		f.data[i] = 0
	}
	f.next = 0
}
