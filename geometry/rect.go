package geometry

// Rect represents an axis-aligned rectangle.
// Min is the top-left corner (minimum coordinates).
// Max is the bottom-right corner (maximum coordinates).
type Rect struct {
	Min, Max Point
}

// NewRect creates a rectangle from two points.
// The points are normalized so Min <= Max.
func NewRect(p0, p1 Point) Rect {
	return Rect{
		Min: Point{X: minf32(p0.X, p1.X), Y: minf32(p0.Y, p1.Y)},
		Max: Point{X: maxf32(p0.X, p1.X), Y: maxf32(p0.Y, p1.Y)},
	}
}

// Width returns the width of the rectangle.
func (r Rect) Width() float32 {
	return r.Max.X - r.Min.X
}

// Height returns the height of the rectangle.
func (r Rect) Height() float32 {
	return r.Max.Y - r.Min.Y
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return r.Min.Midpoint(r.Max)
}

// Contains returns true if the point is inside the rectangle.
// Boundary points are inside.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Union returns the smallest rectangle containing both r and other.
func (r Rect) Union(other Rect) Rect {
	return Rect{
		Min: Point{X: minf32(r.Min.X, other.Min.X), Y: minf32(r.Min.Y, other.Min.Y)},
		Max: Point{X: maxf32(r.Max.X, other.Max.X), Y: maxf32(r.Max.Y, other.Max.Y)},
	}
}

// Intersects returns true if r and other overlap (including shared edges).
func (r Rect) Intersects(other Rect) bool {
	return r.Min.X <= other.Max.X && r.Max.X >= other.Min.X &&
		r.Min.Y <= other.Max.Y && r.Max.Y >= other.Min.Y
}

// Resize returns the rectangle scaled about its center by factor.
func (r Rect) Resize(factor float32) Rect {
	c := r.Center()
	halfW := r.Width() * 0.5 * factor
	halfH := r.Height() * 0.5 * factor
	return Rect{
		Min: Point{X: c.X - halfW, Y: c.Y - halfH},
		Max: Point{X: c.X + halfW, Y: c.Y + halfH},
	}
}
