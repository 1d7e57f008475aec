// Package picking implements the per-pixel identifier channel: an
// auxiliary integer target carrying the node ID under each pixel and a
// scalar mask target carrying the node's selection flag. Both targets sit
// beside the main color target and are never blended, so hit-testing
// survives alpha blending and post-processing untouched.
//
// Node IDs are 1-indexed; a zero-filled target reads as "no hit"
// everywhere.
package picking

import (
	"github.com/chfi/gfaestus/geometry"
	"github.com/chfi/gfaestus/gpu"
	"github.com/chfi/gfaestus/graph"
	"github.com/chfi/gfaestus/selection"
	"github.com/chfi/gfaestus/view"
)

// Target holds the id and mask images for one frame.
type Target struct {
	width, height int
	ids           []uint32
	mask          []float32
}

// NewTarget allocates a cleared target of the given pixel dimensions.
func NewTarget(width, height int) *Target {
	return &Target{
		width:  width,
		height: height,
		ids:    make([]uint32, width*height),
		mask:   make([]float32, width*height),
	}
}

// Width returns the target width in pixels.
func (t *Target) Width() int { return t.width }

// Height returns the target height in pixels.
func (t *Target) Height() int { return t.height }

// Clear resets every pixel to the no-hit sentinel and zero mask.
func (t *Target) Clear() {
	gpu.Dispatch1D(uint32(len(t.ids)), func(gid uint32) {
		t.ids[gid] = uint32(graph.NoNode)
		t.mask[gid] = 0
	})
}

// NodeAt returns the node under the pixel and its selection flag.
// Pixels outside the target and pixels covering no node both return
// NoNode with a clear flag, never an out-of-bounds read.
func (t *Target) NodeAt(x, y int) (graph.NodeID, bool) {
	if x < 0 || y < 0 || x >= t.width || y >= t.height {
		return graph.NoNode, false
	}
	i := y*t.width + x
	return graph.NodeID(t.ids[i]), t.mask[i] != 0
}

// MaskImage exposes the raw mask channel in row-major order. The highlight
// compositor reads it; callers must not resize it.
func (t *Target) MaskImage() []float32 {
	return t.mask
}

// IDImage exposes the raw id channel in row-major order.
func (t *Target) IDImage() []uint32 {
	return t.ids
}

// Encoder rasterizes node segments into a pick target. This mirrors the
// fragment-stage id/mask writes of the GPU node pipeline: each node is a
// capsule around its drawn segment, and later node IDs win overlaps just
// as later primitives do in emission order.
type Encoder struct {
	target *Target
}

// NewEncoder creates an encoder writing into the given target.
func NewEncoder(target *Target) *Encoder {
	return &Encoder{target: target}
}

// DrawNodes clears the target and rasterizes every node's id and
// selection flag. Nodes are processed in ID order; pixels inside a node's
// capsule are parallel within the node, so overlap resolution is
// deterministic.
func (e *Encoder) DrawNodes(
	layout *graph.Layout,
	mask *selection.Mask,
	v view.View,
	dims view.ScreenDims,
	widthPixels float32,
) {
	t := e.target
	t.Clear()

	halfW := widthPixels * 0.5

	for node := 1; node <= layout.NodeCount(); node++ {
		id := graph.NodeID(node)
		left, right := layout.Node(id)
		a := v.WorldToScreen(dims, left)
		b := v.WorldToScreen(dims, right)

		selected := float32(0)
		if mask != nil && mask.IsSelected(id) {
			selected = 1
		}

		e.rasterizeCapsule(a, b, halfW, uint32(id), selected)
	}
}

// rasterizeCapsule writes id and mask for every pixel whose center lies
// within halfW of the segment ab.
func (e *Encoder) rasterizeCapsule(a, b geometry.Point, halfW float32, id uint32, selected float32) {
	t := e.target

	minX := int(geometry.Clampf32(minf(a.X, b.X)-halfW, 0, float32(t.width)))
	maxX := int(geometry.Clampf32(maxf(a.X, b.X)+halfW+1, 0, float32(t.width)))
	minY := int(geometry.Clampf32(minf(a.Y, b.Y)-halfW, 0, float32(t.height)))
	maxY := int(geometry.Clampf32(maxf(a.Y, b.Y)+halfW+1, 0, float32(t.height)))

	w := maxX - minX
	h := maxY - minY
	if w <= 0 || h <= 0 {
		return
	}

	gpu.Dispatch1D(uint32(w*h), func(gid uint32) {
		x := minX + int(gid)%w
		y := minY + int(gid)/w
		center := geometry.Pt(float32(x)+0.5, float32(y)+0.5)
		if geometry.DistanceToSegment(center, a, b) > halfW {
			return
		}
		i := y*t.width + x
		t.ids[i] = id
		t.mask[i] = selected
	})
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
