package geometry

// QuadBez represents a quadratic Bezier curve with control points P0, P1, P2.
// P0 is the start point, P1 is the control point, P2 is the end point.
type QuadBez struct {
	P0, P1, P2 Point
}

// NewQuadBez creates a new quadratic Bezier curve.
func NewQuadBez(p0, p1, p2 Point) QuadBez {
	return QuadBez{P0: p0, P1: p1, P2: p2}
}

// Eval evaluates the curve at parameter t (0 to 1).
func (q QuadBez) Eval(t float32) Point {
	mt := 1.0 - t
	// (1-t)^2 * P0 + 2(1-t)t * P1 + t^2 * P2
	return Point{
		X: mt*mt*q.P0.X + 2*mt*t*q.P1.X + t*t*q.P2.X,
		Y: mt*mt*q.P0.Y + 2*mt*t*q.P1.Y + t*t*q.P2.Y,
	}
}

// Start returns the starting point of the curve.
func (q QuadBez) Start() Point {
	return q.P0
}

// End returns the ending point of the curve.
func (q QuadBez) End() Point {
	return q.P2
}

// Deriv returns the derivative vector at parameter t.
// B'(t) = 2(1-t)(P1-P0) + 2t(P2-P1)
func (q QuadBez) Deriv(t float32) Point {
	mt := 1.0 - t
	d0 := q.P1.Sub(q.P0)
	d1 := q.P2.Sub(q.P1)
	return Point{
		X: 2 * (mt*d0.X + t*d1.X),
		Y: 2 * (mt*d0.Y + t*d1.Y),
	}
}

// Tangent returns the unit tangent vector at parameter t.
// Falls back to the chord direction when the derivative is degenerate.
func (q QuadBez) Tangent(t float32) Point {
	d := q.Deriv(t)
	if d.LengthSquared() == 0 {
		d = q.P2.Sub(q.P0)
	}
	return d.Normalize()
}

// Normal returns the unit normal (tangent rotated 90 degrees CCW) at t.
func (q QuadBez) Normal(t float32) Point {
	return q.Tangent(t).Perp()
}

// BoundingBox returns a bounding box containing the curve.
// Uses the control polygon hull, which always contains the curve.
func (q QuadBez) BoundingBox() Rect {
	return NewRect(q.P0, q.P2).Union(NewRect(q.P1, q.P1))
}
