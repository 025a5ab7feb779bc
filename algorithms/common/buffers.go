package common

// CircularBuffer keeps the most recent samples of a stream, overwriting the
// oldest once full. It is not safe for concurrent use.
type CircularBuffer struct {
	buffer   []float64
	size     int
	writePos int
	count    int
}

// NewCircularBuffer creates a buffer holding up to size samples
func NewCircularBuffer(size int) *CircularBuffer {
	if size < 1 {
		size = 1
	}
	return &CircularBuffer{
		buffer: make([]float64, size),
		size:   size,
	}
}

// Write appends samples, overwriting the oldest data when full
func (cb *CircularBuffer) Write(data []float64) int {
	// only the tail can survive a write longer than the buffer
	if len(data) > cb.size {
		data = data[len(data)-cb.size:]
	}

	for _, sample := range data {
		cb.buffer[cb.writePos] = sample
		cb.writePos = (cb.writePos + 1) % cb.size
	}
	cb.count = min(cb.count+len(data), cb.size)
	return len(data)
}

// Latest copies the newest len(dst) samples into dst in chronological order.
// When fewer are buffered, the leading part of dst is zeroed and the count
// actually copied is returned.
func (cb *CircularBuffer) Latest(dst []float64) int {
	n := min(len(dst), cb.count)
	pad := len(dst) - n
	clear(dst[:pad])

	start := (cb.writePos - n + cb.size) % cb.size
	for i := 0; i < n; i++ {
		dst[pad+i] = cb.buffer[(start+i)%cb.size]
	}
	return n
}

// Capacity returns the maximum number of samples retained
func (cb *CircularBuffer) Capacity() int {
	return cb.size
}

// Clear empties the buffer
func (cb *CircularBuffer) Clear() {
	cb.writePos = 0
	cb.count = 0
}
