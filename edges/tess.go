package edges

import (
	"fmt"

	"github.com/chfi/gfaestus/geometry"
	"github.com/chfi/gfaestus/gpu"
	"github.com/chfi/gfaestus/graph"
	"github.com/chfi/gfaestus/view"
)

// TessLevel returns the subdivision count for an edge whose endpoints are
// ndcLen apart in normalized device space. The step function is monotonic
// in length; edges below the smallest bucket are culled entirely.
func TessLevel(ndcLen float32) uint32 {
	switch {
	case ndcLen < 0.001:
		return 0
	case ndcLen < 0.01:
		return 4
	case ndcLen < 0.05:
		return 8
	case ndcLen < 0.1:
		return 16
	case ndcLen < 0.4:
		return 24
	default:
		return 32
	}
}

// MaxTessLevel is the largest value TessLevel returns.
const MaxTessLevel = 32

// WidthNDC converts a pixel width to normalized device units: divide by
// the larger viewport dimension, then by the zoom scale so the apparent
// on-screen width does not change as the view zooms.
func WidthNDC(pixels float32, dims view.ScreenDims, scale float32) float32 {
	return pixels / dims.Max() / scale
}

// Vertex is one ribbon vertex in normalized device coordinates.
type Vertex struct {
	Pos geometry.Point
}

// Ribbon tessellates a quadratic Bezier into a triangle strip of the
// given subdivision count and half-width. Cross-sections are placed at
// level+1 parameter values; each contributes the curve point offset along
// the rotated normal by the half-width on either side. Level 0 returns
// nil: the edge is culled.
func Ribbon(curve geometry.QuadBez, level uint32, halfWidth float32) []Vertex {
	if level == 0 {
		return nil
	}

	verts := make([]Vertex, 0, (level+1)*2)
	for i := uint32(0); i <= level; i++ {
		t := float32(i) / float32(level)
		p := curve.Eval(t)
		n := curve.Normal(t).Mul(halfWidth)
		verts = append(verts,
			Vertex{Pos: p.Add(n)},
			Vertex{Pos: p.Sub(n)},
		)
	}
	return verts
}

// Params carries the per-frame tessellation inputs.
type Params struct {
	View        view.View
	Dims        view.ScreenDims
	WidthPixels float32
	CurveOffset float32
}

// EdgeRange records where one edge's vertices landed in the shared vertex
// array. Culled edges have Count 0.
type EdgeRange struct {
	Offset uint32
	Count  uint32
}

// Tessellator emits ribbon geometry for every edge into one shared vertex
// array. Vertex slots are claimed through a bump counter so edges can be
// processed in parallel without collisions, mirroring the GPU kernel.
type Tessellator struct {
	verts  []Vertex
	ranges []EdgeRange
	cursor *gpu.CounterArray
}

// NewTessellator allocates a tessellator for up to edgeCapacity edges.
// The vertex array is sized for the worst case of every edge at the
// maximum tessellation level.
func NewTessellator(edgeCapacity int) *Tessellator {
	maxVerts := edgeCapacity * (MaxTessLevel + 1) * 2
	return &Tessellator{
		verts:  make([]Vertex, maxVerts),
		ranges: make([]EdgeRange, edgeCapacity),
		cursor: gpu.NewCounterArray(1),
	}
}

// Build tessellates all edges against the current view. Each edge's
// curve is built in normalized device space so the level-of-detail and
// ribbon width track the current zoom. Returns the ranges recorded per
// edge; the vertex data is available through Vertices. An edge list
// larger than the allocated capacity is a configuration error.
func (t *Tessellator) Build(layout *graph.Layout, edgeList []graph.Edge, params Params) ([]EdgeRange, error) {
	if len(edgeList) > len(t.ranges) {
		return nil, fmt.Errorf("edges: %d edges exceed tessellator capacity %d", len(edgeList), len(t.ranges))
	}

	t.cursor.Reset()
	halfWidth := WidthNDC(params.WidthPixels, params.Dims, params.View.Scale) * 0.5

	gpu.Dispatch1D(uint32(len(edgeList)), func(gid uint32) {
		p0, p1 := Endpoints(layout, edgeList[gid])
		n0 := params.View.WorldToNDC(params.Dims, p0)
		n1 := params.View.WorldToNDC(params.Dims, p1)

		level := TessLevel(n0.Distance(n1))
		if level == 0 {
			t.ranges[gid] = EdgeRange{}
			return
		}

		curve := Curve(n0, n1, params.CurveOffset)
		verts := Ribbon(curve, level, halfWidth)

		base := t.cursor.Add(0, uint32(len(verts)))
		copy(t.verts[base:], verts)
		t.ranges[gid] = EdgeRange{Offset: base, Count: uint32(len(verts))}
	})

	slogger().Debug("edges tessellated",
		"edges", len(edgeList),
		"vertices", t.cursor.Load(0))
	return t.ranges[:len(edgeList)], nil
}

// Vertices returns the shared vertex array filled by the last Build,
// trimmed to the vertices actually emitted.
func (t *Tessellator) Vertices() []Vertex {
	return t.verts[:t.cursor.Load(0)]
}
