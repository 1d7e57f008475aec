// Package gpu provides the compute layer shared by every pipeline stage:
// the GPU dispatcher that compiles the embedded WGSL shaders and records
// staged compute passes, and the CPU mirror primitives (workgroup dispatch,
// atomic counter arrays) that execute the same kernels without a device.
//
// Every kernel exists twice: as a WGSL shader under shaders/ and as a Go
// function in the stage's package that mirrors the shader exactly. The CPU
// mirrors are the reference semantics and are what the tests exercise.
package gpu

import (
	"runtime"
	"sync"
)

// DefaultWorkgroupSize is the workgroup size used by all compute shaders.
// This matches the @workgroup_size annotation in every WGSL kernel.
const DefaultWorkgroupSize = 256

// WorkgroupCount returns the number of workgroups needed to cover
// elementCount invocations at the given workgroup size.
func WorkgroupCount(elementCount, wgSize uint32) uint32 {
	if elementCount == 0 {
		return 0
	}
	return (elementCount + wgSize - 1) / wgSize
}

// Dispatch1D runs kernel once per global invocation ID in [0, elements),
// partitioned into workgroups executed across CPU workers. Dispatch1D does
// not return until every invocation has finished, which gives the same
// barrier semantics a GPU queue provides between dependent dispatches.
//
// Kernels receive their global invocation ID and must only write to
// locations owned by that ID or through atomics, exactly as on the GPU.
func Dispatch1D(elements uint32, kernel func(gid uint32)) {
	if elements == 0 {
		return
	}

	groups := WorkgroupCount(elements, DefaultWorkgroupSize)
	workers := uint32(runtime.NumCPU())
	if workers > groups {
		workers = groups
	}
	if workers <= 1 {
		for gid := uint32(0); gid < elements; gid++ {
			kernel(gid)
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(int(workers))
	for w := uint32(0); w < workers; w++ {
		go func(w uint32) {
			defer wg.Done()
			// Workgroups are strided across workers.
			for g := w; g < groups; g += workers {
				start := g * DefaultWorkgroupSize
				end := start + DefaultWorkgroupSize
				if end > elements {
					end = elements
				}
				for gid := start; gid < end; gid++ {
					kernel(gid)
				}
			}
		}(w)
	}
	wg.Wait()
}
