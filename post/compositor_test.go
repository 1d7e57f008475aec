package post

import (
	"testing"
)

// squareMask returns a w x h mask with a filled square of 1s.
func squareMask(w, h, x0, y0, x1, y1 int) []float32 {
	m := make([]float32, w*h)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			m[y*w+x] = 1
		}
	}
	return m
}

func TestApplyDisabledReturnsCopy(t *testing.T) {
	color := NewImage(16, 16)
	color.Fill(0.2, 0.3, 0.4, 1)
	mask := squareMask(16, 16, 4, 4, 12, 12)

	c := NewCompositor(16, 16)
	out := c.Apply(color, mask, Config{Enabled: false, Color: [3]float32{1, 0, 1}, BlurRadius: 2})

	if out == color {
		t.Fatal("Apply returned the input image instead of a copy")
	}
	for i := range out.Pix {
		if out.Pix[i] != color.Pix[i] {
			t.Fatalf("disabled pass changed pixel component %d", i)
		}
	}
}

func TestApplyDoesNotMutateInputs(t *testing.T) {
	color := NewImage(16, 16)
	color.Fill(0.5, 0.5, 0.5, 1)
	mask := squareMask(16, 16, 4, 4, 12, 12)

	colorBefore := color.Clone()
	maskBefore := append([]float32(nil), mask...)

	c := NewCompositor(16, 16)
	c.Apply(color, mask, Config{Enabled: true, Color: [3]float32{1, 0, 1}, BlurRadius: 2})

	for i := range color.Pix {
		if color.Pix[i] != colorBefore.Pix[i] {
			t.Fatalf("Apply mutated the color input at component %d", i)
		}
	}
	for i := range mask {
		if mask[i] != maskBefore[i] {
			t.Fatalf("Apply mutated the mask input at pixel %d", i)
		}
	}
}

func TestApplyOutlinesMaskBoundary(t *testing.T) {
	const w, h = 32, 32
	color := NewImage(w, h)
	color.Fill(0, 0, 0, 1)
	mask := squareMask(w, h, 8, 8, 24, 24)

	c := NewCompositor(w, h)
	out := c.Apply(color, mask, Config{Enabled: true, Color: [3]float32{1, 0, 1}, BlurRadius: 1})

	// A pixel on the mask boundary picks up the highlight color.
	r, _, b, _ := out.At(8, 16)
	if r <= 0 || b <= 0 {
		t.Errorf("boundary pixel not highlighted: r=%v b=%v", r, b)
	}

	// Deep inside the mask the gradient is zero: no highlight.
	r, g, b, _ := out.At(16, 16)
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("interior pixel highlighted: (%v, %v, %v)", r, g, b)
	}

	// Far outside the mask: untouched.
	r, g, b, _ = out.At(2, 2)
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("far pixel highlighted: (%v, %v, %v)", r, g, b)
	}
}

func TestEdgeDetectUniformMaskIsZero(t *testing.T) {
	const w, h = 16, 16
	c := NewCompositor(w, h)

	// Fully selected mask: no boundary anywhere, including the image
	// border thanks to clamped sampling.
	mask := squareMask(w, h, 0, 0, w, h)
	c.edgeDetect(mask)
	for i, v := range c.edge {
		if v != 0 {
			t.Fatalf("uniform mask produced edge %v at pixel %d", v, i)
		}
	}
}

func TestBlurSpreadsOutline(t *testing.T) {
	const w, h = 32, 32
	color := NewImage(w, h)
	color.Fill(0, 0, 0, 1)
	mask := squareMask(w, h, 12, 12, 20, 20)

	c := NewCompositor(w, h)

	sharp := c.Apply(color, mask, Config{Enabled: true, Color: [3]float32{1, 1, 1}, BlurRadius: 0})
	soft := c.Apply(color, mask, Config{Enabled: true, Color: [3]float32{1, 1, 1}, BlurRadius: 3})

	// Three pixels outside the boundary: only the blurred pass reaches it.
	rSharp, _, _, _ := sharp.At(8, 16)
	rSoft, _, _, _ := soft.At(8, 16)
	if rSharp != 0 {
		t.Errorf("unblurred outline reached distant pixel: %v", rSharp)
	}
	if rSoft <= 0 {
		t.Error("blurred outline did not spread")
	}
}

func TestApplyIsDeterministic(t *testing.T) {
	const w, h = 24, 24
	color := NewImage(w, h)
	color.Fill(0.1, 0.2, 0.3, 1)
	mask := squareMask(w, h, 6, 6, 18, 18)

	c := NewCompositor(w, h)
	cfg := Config{Enabled: true, Color: [3]float32{0.7, 0.4, 1.0}, BlurRadius: 2}

	a := c.Apply(color, mask, cfg)
	b := c.Apply(color, mask, cfg)

	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("repeated Apply differs at component %d: %v vs %v", i, a.Pix[i], b.Pix[i])
		}
	}
}
