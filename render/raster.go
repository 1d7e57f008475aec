package render

import (
	"github.com/chfi/gfaestus/edges"
	"github.com/chfi/gfaestus/geometry"
	"github.com/chfi/gfaestus/post"
	"github.com/chfi/gfaestus/view"
)

// drawCapsule rasterizes a node segment as a capsule in screen space:
// every pixel within halfW of the segment takes the node color.
func drawCapsule(img *post.Image, a, b geometry.Point, halfW float32, color [3]float32) {
	if !a.IsFinite() || !b.IsFinite() {
		return
	}

	minX := int(geometry.Clampf32(minf(a.X, b.X)-halfW, 0, float32(img.Width-1)))
	maxX := int(geometry.Clampf32(maxf(a.X, b.X)+halfW, 0, float32(img.Width-1)))
	minY := int(geometry.Clampf32(minf(a.Y, b.Y)-halfW, 0, float32(img.Height-1)))
	maxY := int(geometry.Clampf32(maxf(a.Y, b.Y)+halfW, 0, float32(img.Height-1)))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			center := geometry.Pt(float32(x)+0.5, float32(y)+0.5)
			if geometry.DistanceToSegment(center, a, b) <= halfW {
				img.Set(x, y, color[0], color[1], color[2], 1)
			}
		}
	}
}

// drawRibbon rasterizes a tessellated triangle strip. Vertices arrive in
// normalized device coordinates and are mapped to pixels first.
func drawRibbon(img *post.Image, strip []edges.Vertex, dims view.ScreenDims, color [3]float32) {
	if len(strip) < 3 {
		return
	}

	screen := make([]geometry.Point, len(strip))
	for i, v := range strip {
		screen[i] = ndcToScreen(v.Pos, dims)
	}

	for i := 0; i+2 < len(screen); i++ {
		fillTriangle(img, screen[i], screen[i+1], screen[i+2], color)
	}
}

// ndcToScreen maps [-1,1] device coordinates to pixel coordinates.
func ndcToScreen(p geometry.Point, dims view.ScreenDims) geometry.Point {
	return geometry.Pt(
		(p.X*0.5+0.5)*dims.Width,
		(p.Y*0.5+0.5)*dims.Height,
	)
}

// fillTriangle rasterizes one triangle with inclusive edges, accepting
// either winding. Degenerate triangles (strip turn-arounds) are skipped.
func fillTriangle(img *post.Image, a, b, c geometry.Point, color [3]float32) {
	area := b.Sub(a).Cross(c.Sub(a))
	if geometry.Absf32(area) < 1e-9 {
		return
	}

	minX := int(geometry.Clampf32(minf(a.X, minf(b.X, c.X)), 0, float32(img.Width-1)))
	maxX := int(geometry.Clampf32(maxf(a.X, maxf(b.X, c.X)), 0, float32(img.Width-1)))
	minY := int(geometry.Clampf32(minf(a.Y, minf(b.Y, c.Y)), 0, float32(img.Height-1)))
	maxY := int(geometry.Clampf32(maxf(a.Y, maxf(b.Y, c.Y)), 0, float32(img.Height-1)))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			p := geometry.Pt(float32(x)+0.5, float32(y)+0.5)
			w0 := b.Sub(a).Cross(p.Sub(a)) / area
			w1 := c.Sub(b).Cross(p.Sub(b)) / area
			w2 := a.Sub(c).Cross(p.Sub(c)) / area
			if w0 >= 0 && w1 >= 0 && w2 >= 0 {
				img.Set(x, y, color[0], color[1], color[2], 1)
			}
		}
	}
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
