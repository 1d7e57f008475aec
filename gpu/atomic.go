package gpu

import "sync/atomic"

// CounterArray is a slice of u32 counters with atomic access, mirroring a
// storage buffer of atomic<u32> in WGSL. Kernels running under Dispatch1D
// use it for bucket counts and bump allocation.
type CounterArray struct {
	counts []uint32
}

// NewCounterArray creates a zeroed counter array of the given length.
func NewCounterArray(n int) *CounterArray {
	return &CounterArray{counts: make([]uint32, n)}
}

// Len returns the number of counters.
func (c *CounterArray) Len() int {
	return len(c.counts)
}

// Add atomically adds delta to counter i and returns the value the counter
// held before the addition, matching WGSL atomicAdd semantics.
func (c *CounterArray) Add(i uint32, delta uint32) uint32 {
	return atomic.AddUint32(&c.counts[i], delta) - delta
}

// Load atomically reads counter i.
func (c *CounterArray) Load(i uint32) uint32 {
	return atomic.LoadUint32(&c.counts[i])
}

// Store atomically writes counter i.
func (c *CounterArray) Store(i uint32, v uint32) {
	atomic.StoreUint32(&c.counts[i], v)
}

// Reset zeroes every counter. Must not race with concurrent kernels.
func (c *CounterArray) Reset() {
	for i := range c.counts {
		c.counts[i] = 0
	}
}

// Snapshot copies the current counter values into a plain slice.
func (c *CounterArray) Snapshot() []uint32 {
	out := make([]uint32, len(c.counts))
	for i := range c.counts {
		out[i] = atomic.LoadUint32(&c.counts[i])
	}
	return out
}
