package gpu

import (
	"sync/atomic"
	"testing"
)

func TestWorkgroupCount(t *testing.T) {
	tests := []struct {
		name     string
		elements uint32
		wgSize   uint32
		want     uint32
	}{
		{"zero", 0, 256, 0},
		{"one", 1, 256, 1},
		{"exact", 256, 256, 1},
		{"one over", 257, 256, 2},
		{"many", 10000, 256, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WorkgroupCount(tt.elements, tt.wgSize); got != tt.want {
				t.Errorf("WorkgroupCount(%d, %d) = %d, want %d", tt.elements, tt.wgSize, got, tt.want)
			}
		})
	}
}

func TestDispatch1DCoversAllInvocations(t *testing.T) {
	const n = 10_000

	seen := make([]uint32, n)
	Dispatch1D(n, func(gid uint32) {
		atomic.AddUint32(&seen[gid], 1)
	})

	for i, v := range seen {
		if v != 1 {
			t.Fatalf("invocation %d ran %d times, want exactly once", i, v)
		}
	}
}

func TestDispatch1DZeroElements(t *testing.T) {
	ran := false
	Dispatch1D(0, func(uint32) { ran = true })
	if ran {
		t.Error("kernel ran for zero elements")
	}
}

func TestDispatch1DIsBarrier(t *testing.T) {
	// Dispatch1D must not return until every invocation completed, so a
	// second dispatch can safely read what the first wrote.
	const n = 4096

	data := make([]uint32, n)
	Dispatch1D(n, func(gid uint32) { data[gid] = gid })

	var sum atomic.Uint64
	Dispatch1D(n, func(gid uint32) { sum.Add(uint64(data[gid])) })

	want := uint64(n) * (n - 1) / 2
	if got := sum.Load(); got != want {
		t.Errorf("sum = %d, want %d", got, want)
	}
}

func TestCounterArrayAddReturnsPrior(t *testing.T) {
	c := NewCounterArray(4)

	if got := c.Add(2, 5); got != 0 {
		t.Errorf("first Add returned %d, want 0", got)
	}
	if got := c.Add(2, 3); got != 5 {
		t.Errorf("second Add returned %d, want 5", got)
	}
	if got := c.Load(2); got != 8 {
		t.Errorf("Load = %d, want 8", got)
	}
}

func TestCounterArrayConcurrentAdd(t *testing.T) {
	const n = 100_000
	c := NewCounterArray(1)

	// Every invocation gets a distinct slot index back.
	slots := make([]uint32, n)
	Dispatch1D(n, func(gid uint32) {
		slots[gid] = c.Add(0, 1)
	})

	if got := c.Load(0); got != n {
		t.Fatalf("final count = %d, want %d", got, n)
	}

	seen := make([]bool, n)
	for _, s := range slots {
		if seen[s] {
			t.Fatalf("slot %d allocated twice", s)
		}
		seen[s] = true
	}
}

func TestCounterArrayResetSnapshot(t *testing.T) {
	c := NewCounterArray(3)
	c.Store(0, 7)
	c.Store(2, 9)

	snap := c.Snapshot()
	if snap[0] != 7 || snap[1] != 0 || snap[2] != 9 {
		t.Errorf("Snapshot = %v, want [7 0 9]", snap)
	}

	c.Reset()
	for i := 0; i < c.Len(); i++ {
		if c.Load(uint32(i)) != 0 {
			t.Errorf("counter %d not zero after Reset", i)
		}
	}
}
