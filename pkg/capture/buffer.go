package capture

// DefaultMaxSamples bounds a session buffer when no capacity is configured
const DefaultMaxSamples = 1 << 16

// SampleBuffer is the owned, append-only sample store of one capture.
// Capacity doubles on growth but never exceeds the configured limit, so a
// runaway capture fails with ErrAllocationFailure instead of exhausting memory.
type SampleBuffer struct {
	samples []Sample
	initial int
	limit   int
}

// NewSampleBuffer returns an empty buffer. Storage is allocated lazily on
// the first append.
func NewSampleBuffer(initialCapacity, maxSamples int) *SampleBuffer {
	if maxSamples <= 0 {
		maxSamples = DefaultMaxSamples
	}
	if initialCapacity <= 0 {
		initialCapacity = 1
	}
	if initialCapacity > maxSamples {
		initialCapacity = maxSamples
	}
	return &SampleBuffer{
		initial: initialCapacity,
		limit:   maxSamples,
	}
}

// Append adds v to the end of the buffer
func (b *SampleBuffer) Append(v Sample) error {
	if len(b.samples) == cap(b.samples) {
		if err := b.grow(); err != nil {
			return err
		}
	}
	b.samples = append(b.samples, v)
	return nil
}

func (b *SampleBuffer) grow() error {
	n := len(b.samples)
	if n >= b.limit {
		return ErrAllocationFailure
	}

	newCap := cap(b.samples) * 2
	if newCap < b.initial {
		newCap = b.initial
	}
	if newCap > b.limit {
		newCap = b.limit
	}

	grown := make([]Sample, n, newCap)
	copy(grown, b.samples)
	b.samples = grown
	return nil
}

// Samples returns the captured sequence. The slice is only valid until the
// next Append, Clear or Release.
func (b *SampleBuffer) Samples() []Sample {
	return b.samples
}

// Len returns the number of samples stored
func (b *SampleBuffer) Len() int {
	return len(b.samples)
}

// Cap returns the current capacity of the backing storage
func (b *SampleBuffer) Cap() int {
	return cap(b.samples)
}

// Limit returns the maximum number of samples the buffer will hold
func (b *SampleBuffer) Limit() int {
	return b.limit
}

// Clear empties the buffer but keeps its storage for reuse
func (b *SampleBuffer) Clear() {
	b.samples = b.samples[:0]
}

// Release empties the buffer and drops its backing storage
func (b *SampleBuffer) Release() {
	b.samples = nil
}
