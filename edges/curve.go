package edges

import (
	"github.com/chfi/gfaestus/geometry"
)

// CurvatureFactor is the perpendicular displacement of the control point
// as a fraction of the segment length.
const CurvatureFactor = 0.25

// Curve builds the quadratic Bezier for an edge between two resolved
// endpoints. The control point is the segment midpoint displaced
// perpendicular to the segment by offset times the segment length, always
// on the counter-clockwise side so parallel edges between the same two
// regions curve together instead of crossing.
//
// A zero offset gives a straight segment; coincident endpoints give a
// degenerate curve that tessellates to nothing.
func Curve(p0, p1 geometry.Point, offset float32) geometry.QuadBez {
	seg := p1.Sub(p0)
	mid := p0.Midpoint(p1)
	ctrl := mid.Add(seg.Perp().Mul(offset))
	return geometry.QuadBez{P0: p0, P1: ctrl, P2: p1}
}
