// Package selection owns the persistent per-node selection mask. The mask
// is an explicit resource with a set/clear/query contract: it survives
// across frames, is mutated by rectangle and programmatic queries, and is
// read during rasterization to feed the highlight post-process.
//
// Each mask slot is a u32 holding 0 or 1, matching the storage buffer
// layout the shaders read. Every mutation kernel owns exactly one node
// per invocation, so no mask write ever contends.
package selection

import (
	"github.com/chfi/gfaestus/geometry"
	"github.com/chfi/gfaestus/gpu"
	"github.com/chfi/gfaestus/graph"
)

// Op chooses how a rectangle query combines with the existing mask.
type Op int

const (
	// OpReplace makes the mask exactly the query result.
	OpReplace Op = iota
	// OpAdd sets hits and leaves the rest of the mask unchanged.
	OpAdd
	// OpRemove clears hits and leaves the rest unchanged.
	OpRemove
)

// Mask is the selection state for a fixed number of nodes, indexed by
// node ID minus one.
type Mask struct {
	flags []uint32
}

// NewMask creates an all-clear mask for the given node count.
func NewMask(nodeCount int) *Mask {
	return &Mask{flags: make([]uint32, nodeCount)}
}

// NodeCount returns the number of nodes the mask covers.
func (m *Mask) NodeCount() int {
	return len(m.flags)
}

// IsSelected reports whether the node is selected. IDs outside the mask
// are never selected.
func (m *Mask) IsSelected(id graph.NodeID) bool {
	if id == graph.NoNode || int(id) > len(m.flags) {
		return false
	}
	return m.flags[id-1] != 0
}

// Set sets or clears a single node. IDs outside the mask are ignored.
func (m *Mask) Set(id graph.NodeID, selected bool) {
	if id == graph.NoNode || int(id) > len(m.flags) {
		return
	}
	if selected {
		m.flags[id-1] = 1
	} else {
		m.flags[id-1] = 0
	}
}

// Clear deselects every node.
func (m *Mask) Clear() {
	gpu.Dispatch1D(uint32(len(m.flags)), func(gid uint32) {
		m.flags[gid] = 0
	})
}

// SelectAll selects every node.
func (m *Mask) SelectAll() {
	gpu.Dispatch1D(uint32(len(m.flags)), func(gid uint32) {
		m.flags[gid] = 1
	})
}

// Invert flips the selection state of every node.
func (m *Mask) Invert() {
	gpu.Dispatch1D(uint32(len(m.flags)), func(gid uint32) {
		m.flags[gid] ^= 1
	})
}

// Count returns the number of selected nodes.
func (m *Mask) Count() int {
	n := 0
	for _, f := range m.flags {
		if f != 0 {
			n++
		}
	}
	return n
}

// Selected returns the IDs of all selected nodes in ascending order.
func (m *Mask) Selected() []graph.NodeID {
	var ids []graph.NodeID
	for i, f := range m.flags {
		if f != 0 {
			ids = append(ids, graph.NodeID(i+1))
		}
	}
	return ids
}

// Flags exposes the raw mask slots in node order for buffer upload.
// Callers must not resize the slice.
func (m *Mask) Flags() []uint32 {
	return m.flags
}

// RectSelect runs a rectangle query against the layout: a node is hit
// when both of its physical endpoints lie inside the rectangle. The hit
// set combines with the current mask according to op. Applying the same
// query twice leaves the mask unchanged after the first application.
func (m *Mask) RectSelect(layout *graph.Layout, r geometry.Rect, op Op) {
	n := layout.NodeCount()
	if n > len(m.flags) {
		n = len(m.flags)
	}

	gpu.Dispatch1D(uint32(n), func(gid uint32) {
		id := graph.NodeID(gid + 1)
		left, right := layout.Node(id)
		hit := r.Contains(left) && r.Contains(right)

		switch op {
		case OpReplace:
			if hit {
				m.flags[gid] = 1
			} else {
				m.flags[gid] = 0
			}
		case OpAdd:
			if hit {
				m.flags[gid] = 1
			}
		case OpRemove:
			if hit {
				m.flags[gid] = 0
			}
		}
	})
}

// Translate moves every selected node's endpoints by delta. The layout is
// mutated in place; unselected nodes are untouched.
func Translate(m *Mask, layout *graph.Layout, delta geometry.Point) {
	n := layout.NodeCount()
	if n > len(m.flags) {
		n = len(m.flags)
	}

	gpu.Dispatch1D(uint32(n), func(gid uint32) {
		if m.flags[gid] == 0 {
			return
		}
		id := graph.NodeID(gid + 1)
		left, right := layout.Node(id)
		layout.SetNode(id, left.Add(delta), right.Add(delta))
	})
}
