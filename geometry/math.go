package geometry

// float32 math helpers shared across the geometry kernels.

func minf32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// Absf32 returns the absolute value of a float32.
func Absf32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// Clampf32 clamps v to the range [lo, hi].
func Clampf32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// DistanceToSegment returns the distance from p to the segment ab.
// Degenerate segments reduce to point distance.
func DistanceToSegment(p, a, b Point) float32 {
	ab := b.Sub(a)
	lenSq := ab.LengthSquared()
	if lenSq == 0 {
		return p.Distance(a)
	}
	t := Clampf32(p.Sub(a).Dot(ab)/lenSq, 0, 1)
	return p.Distance(a.Add(ab.Mul(t)))
}
