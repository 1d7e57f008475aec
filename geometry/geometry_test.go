package geometry

import (
	"math"
	"testing"
)

const epsilon = 1e-5

func floatEqual(a, b float32) bool {
	return math.Abs(float64(a-b)) < epsilon
}

func pointsEqual(a, b Point) bool {
	return floatEqual(a.X, b.X) && floatEqual(a.Y, b.Y)
}

// ----- Point -----

func TestPointArithmetic(t *testing.T) {
	p := Pt(1, 2)
	q := Pt(3, -4)

	if got := p.Add(q); !pointsEqual(got, Pt(4, -2)) {
		t.Errorf("Add = %v, want (4, -2)", got)
	}
	if got := p.Sub(q); !pointsEqual(got, Pt(-2, 6)) {
		t.Errorf("Sub = %v, want (-2, 6)", got)
	}
	if got := p.Mul(2); !pointsEqual(got, Pt(2, 4)) {
		t.Errorf("Mul = %v, want (2, 4)", got)
	}
	if got := p.Div(2); !pointsEqual(got, Pt(0.5, 1)) {
		t.Errorf("Div = %v, want (0.5, 1)", got)
	}
}

func TestPointDotCross(t *testing.T) {
	p := Pt(1, 0)
	q := Pt(0, 1)

	if got := p.Dot(q); !floatEqual(got, 0) {
		t.Errorf("Dot = %v, want 0", got)
	}
	if got := p.Cross(q); !floatEqual(got, 1) {
		t.Errorf("Cross = %v, want 1", got)
	}
}

func TestPointLength(t *testing.T) {
	p := Pt(3, 4)

	if got := p.Length(); !floatEqual(got, 5) {
		t.Errorf("Length = %v, want 5", got)
	}
	if got := p.LengthSquared(); !floatEqual(got, 25) {
		t.Errorf("LengthSquared = %v, want 25", got)
	}
	if got := Pt(0, 0).Distance(p); !floatEqual(got, 5) {
		t.Errorf("Distance = %v, want 5", got)
	}
}

func TestPointNormalize(t *testing.T) {
	p := Pt(3, 4).Normalize()
	if !floatEqual(p.Length(), 1) {
		t.Errorf("normalized length = %v, want 1", p.Length())
	}
	if !pointsEqual(p, Pt(0.6, 0.8)) {
		t.Errorf("Normalize = %v, want (0.6, 0.8)", p)
	}

	// Zero vector stays zero.
	if got := Pt(0, 0).Normalize(); !pointsEqual(got, Pt(0, 0)) {
		t.Errorf("Normalize(zero) = %v, want (0, 0)", got)
	}
}

func TestPointPerp(t *testing.T) {
	p := Pt(1, 0)
	if got := p.Perp(); !pointsEqual(got, Pt(0, 1)) {
		t.Errorf("Perp = %v, want (0, 1)", got)
	}
	// Perp is perpendicular to the original.
	q := Pt(2, 3)
	if got := q.Dot(q.Perp()); !floatEqual(got, 0) {
		t.Errorf("Dot(p, Perp(p)) = %v, want 0", got)
	}
}

func TestPointLerp(t *testing.T) {
	tests := []struct {
		name string
		t    float32
		want Point
	}{
		{"start", 0, Pt(0, 0)},
		{"quarter", 0.25, Pt(2.5, 5)},
		{"half", 0.5, Pt(5, 10)},
		{"end", 1, Pt(10, 20)},
	}

	p := Pt(0, 0)
	q := Pt(10, 20)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Lerp(q, tt.t); !pointsEqual(got, tt.want) {
				t.Errorf("Lerp(%v) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}

func TestPointIsFinite(t *testing.T) {
	if !Pt(1, 2).IsFinite() {
		t.Error("Pt(1,2).IsFinite() = false, want true")
	}
	nan := float32(math.NaN())
	if Pt(nan, 0).IsFinite() {
		t.Error("Pt(NaN,0).IsFinite() = true, want false")
	}
	inf := float32(math.Inf(1))
	if Pt(0, inf).IsFinite() {
		t.Error("Pt(0,Inf).IsFinite() = true, want false")
	}
}

// ----- Rect -----

func TestNewRectNormalizes(t *testing.T) {
	r := NewRect(Pt(10, -5), Pt(-3, 7))
	if !pointsEqual(r.Min, Pt(-3, -5)) {
		t.Errorf("Min = %v, want (-3, -5)", r.Min)
	}
	if !pointsEqual(r.Max, Pt(10, 7)) {
		t.Errorf("Max = %v, want (10, 7)", r.Max)
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(Pt(0, 0), Pt(10, 10))

	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"center", Pt(5, 5), true},
		{"corner", Pt(0, 0), true},
		{"edge", Pt(10, 5), true},
		{"outside_x", Pt(11, 5), false},
		{"outside_y", Pt(5, -1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestRectIntersects(t *testing.T) {
	r := NewRect(Pt(0, 0), Pt(10, 10))

	if !r.Intersects(NewRect(Pt(5, 5), Pt(15, 15))) {
		t.Error("overlapping rects should intersect")
	}
	if !r.Intersects(NewRect(Pt(10, 0), Pt(20, 10))) {
		t.Error("edge-touching rects should intersect")
	}
	if r.Intersects(NewRect(Pt(11, 11), Pt(20, 20))) {
		t.Error("disjoint rects should not intersect")
	}
}

func TestRectUnionResize(t *testing.T) {
	a := NewRect(Pt(0, 0), Pt(4, 4))
	b := NewRect(Pt(2, -2), Pt(6, 2))

	u := a.Union(b)
	if !pointsEqual(u.Min, Pt(0, -2)) || !pointsEqual(u.Max, Pt(6, 4)) {
		t.Errorf("Union = %v, want {(0,-2) (6,4)}", u)
	}

	s := a.Resize(2)
	if !pointsEqual(s.Center(), a.Center()) {
		t.Errorf("Resize moved center: %v != %v", s.Center(), a.Center())
	}
	if !floatEqual(s.Width(), 8) || !floatEqual(s.Height(), 8) {
		t.Errorf("Resize(2) dims = %v x %v, want 8 x 8", s.Width(), s.Height())
	}
}

// ----- QuadBez -----

func TestQuadBezEndpoints(t *testing.T) {
	q := NewQuadBez(Pt(0, 0), Pt(5, 10), Pt(10, 0))

	if got := q.Eval(0); !pointsEqual(got, q.P0) {
		t.Errorf("Eval(0) = %v, want %v", got, q.P0)
	}
	if got := q.Eval(1); !pointsEqual(got, q.P2) {
		t.Errorf("Eval(1) = %v, want %v", got, q.P2)
	}
}

func TestQuadBezMidpoint(t *testing.T) {
	q := NewQuadBez(Pt(0, 0), Pt(5, 10), Pt(10, 0))

	// B(0.5) = 0.25*P0 + 0.5*P1 + 0.25*P2
	want := Pt(5, 5)
	if got := q.Eval(0.5); !pointsEqual(got, want) {
		t.Errorf("Eval(0.5) = %v, want %v", got, want)
	}
}

func TestQuadBezDegenerate(t *testing.T) {
	// Collinear control points give a straight segment.
	q := NewQuadBez(Pt(0, 0), Pt(5, 0), Pt(10, 0))

	for _, tv := range []float32{0, 0.25, 0.5, 0.75, 1} {
		p := q.Eval(tv)
		if !floatEqual(p.Y, 0) {
			t.Errorf("Eval(%v).Y = %v, want 0", tv, p.Y)
		}
	}
}

func TestQuadBezTangentNormal(t *testing.T) {
	q := NewQuadBez(Pt(0, 0), Pt(5, 10), Pt(10, 0))

	// Symmetric curve: tangent at the apex is horizontal.
	tan := q.Tangent(0.5)
	if !pointsEqual(tan, Pt(1, 0)) {
		t.Errorf("Tangent(0.5) = %v, want (1, 0)", tan)
	}
	n := q.Normal(0.5)
	if !floatEqual(tan.Dot(n), 0) {
		t.Errorf("normal not perpendicular to tangent: dot = %v", tan.Dot(n))
	}
	if !floatEqual(n.Length(), 1) {
		t.Errorf("normal length = %v, want 1", n.Length())
	}
}

func TestQuadBezTangentDegenerate(t *testing.T) {
	// All control points coincident at the start: derivative vanishes at t=0,
	// tangent falls back to the chord.
	q := NewQuadBez(Pt(0, 0), Pt(0, 0), Pt(10, 0))
	if got := q.Tangent(0); !pointsEqual(got, Pt(1, 0)) {
		t.Errorf("Tangent(0) = %v, want (1, 0)", got)
	}
}

func TestQuadBezBoundingBox(t *testing.T) {
	q := NewQuadBez(Pt(0, 0), Pt(5, 10), Pt(10, 0))
	bb := q.BoundingBox()

	// The hull contains every point on the curve.
	for _, tv := range []float32{0, 0.1, 0.3, 0.5, 0.7, 0.9, 1} {
		if p := q.Eval(tv); !bb.Contains(p) {
			t.Errorf("BoundingBox does not contain Eval(%v) = %v", tv, p)
		}
	}
}
