// Package edges turns the graph's oriented edges into curved ribbon
// geometry: the orientation resolver maps each handle to a concrete
// terminus position, the curve builder computes one quadratic Bezier per
// edge, and the tessellator emits a variable-width triangle strip whose
// subdivision count follows the edge's on-screen length.
package edges

import (
	"github.com/chfi/gfaestus/geometry"
	"github.com/chfi/gfaestus/graph"
)

// Resolve maps an oriented handle to the terminus slot its edges attach
// to: the left terminus for reverse orientation, the right terminus
// otherwise. Resolution depends only on the handle itself, so both
// handles of an edge resolve independently and reversing an edge yields
// the same two slots in the opposite order.
func Resolve(h graph.Handle) uint32 {
	if h.IsReverse() {
		return graph.LeftTerminus(h.ID())
	}
	return graph.RightTerminus(h.ID())
}

// EndpointSlots resolves both handles of an edge to terminus slots.
func EndpointSlots(e graph.Edge) (from, to uint32) {
	return Resolve(e.From), Resolve(e.To)
}

// Endpoints resolves an edge to its physical start and end positions in
// the layout.
func Endpoints(layout *graph.Layout, e graph.Edge) (p0, p1 geometry.Point) {
	from, to := EndpointSlots(e)
	return layout.Point(from), layout.Point(to)
}
