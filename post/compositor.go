// Package post implements the highlight compositor: a two-stage image
// filter that turns the selection mask target into an on-screen outline.
// A 3x3 Sobel convolution flags mask-boundary pixels, a separable blur
// softens the result, and the outline is alpha-composited over a copy of
// the color target in the highlight color.
//
// The chain never writes to its inputs. Disabling the pass returns an
// untouched copy of the color image, so toggling the highlight cannot
// alter the underlying targets.
package post

import (
	"math"

	"github.com/chfi/gfaestus/gpu"
)

// Config controls the highlight pass.
type Config struct {
	Enabled bool

	// Color is the outline color as RGB in [0,1].
	Color [3]float32

	// BlurRadius is the box radius of each separable blur pass, in
	// pixels. Zero skips the blur.
	BlurRadius int
}

// Compositor holds the intermediate filter targets for one viewport size.
type Compositor struct {
	width, height int

	// edge holds the Sobel magnitude; blurred the softened outline.
	// scratch is the intermediate between the two blur directions.
	edge    []float32
	scratch []float32
	blurred []float32
}

// NewCompositor allocates filter targets for the given pixel dimensions.
func NewCompositor(width, height int) *Compositor {
	n := width * height
	return &Compositor{
		width:   width,
		height:  height,
		edge:    make([]float32, n),
		scratch: make([]float32, n),
		blurred: make([]float32, n),
	}
}

// Apply runs the highlight chain over the mask channel and composites the
// outline onto a copy of color. The inputs are never modified. The mask
// must have the compositor's dimensions.
func (c *Compositor) Apply(color *Image, mask []float32, cfg Config) *Image {
	out := color.Clone()
	if !cfg.Enabled {
		return out
	}

	c.edgeDetect(mask)

	outline := c.edge
	if cfg.BlurRadius > 0 {
		c.blurPass(c.edge, c.scratch, cfg.BlurRadius, 1, 0)
		c.blurPass(c.scratch, c.blurred, cfg.BlurRadius, 0, 1)
		outline = c.blurred
	}

	c.composite(out, outline, cfg.Color)
	return out
}

// edgeDetect applies a 3x3 Sobel convolution to the mask channel and
// stores the clamped gradient magnitude. Samples outside the image clamp
// to the border.
func (c *Compositor) edgeDetect(mask []float32) {
	w, h := c.width, c.height

	sample := func(x, y int) float32 {
		if x < 0 {
			x = 0
		} else if x >= w {
			x = w - 1
		}
		if y < 0 {
			y = 0
		} else if y >= h {
			y = h - 1
		}
		return mask[y*w+x]
	}

	gpu.Dispatch1D(uint32(w*h), func(gid uint32) {
		x := int(gid) % w
		y := int(gid) / w

		tl := sample(x-1, y-1)
		tc := sample(x, y-1)
		tr := sample(x+1, y-1)
		ml := sample(x-1, y)
		mr := sample(x+1, y)
		bl := sample(x-1, y+1)
		bc := sample(x, y+1)
		br := sample(x+1, y+1)

		gx := (tr + 2*mr + br) - (tl + 2*ml + bl)
		gy := (bl + 2*bc + br) - (tl + 2*tc + tr)

		mag := float32(math.Sqrt(float64(gx*gx + gy*gy)))
		if mag > 1 {
			mag = 1
		}
		c.edge[gid] = mag
	})
}

// blurPass runs one direction of the separable box blur. dx/dy select the
// axis; samples outside the image clamp to the border.
func (c *Compositor) blurPass(src, dst []float32, radius, dx, dy int) {
	w, h := c.width, c.height
	norm := float32(1) / float32(2*radius+1)

	gpu.Dispatch1D(uint32(w*h), func(gid uint32) {
		x := int(gid) % w
		y := int(gid) / w

		sum := float32(0)
		for k := -radius; k <= radius; k++ {
			sx := x + k*dx
			sy := y + k*dy
			if sx < 0 {
				sx = 0
			} else if sx >= w {
				sx = w - 1
			}
			if sy < 0 {
				sy = 0
			} else if sy >= h {
				sy = h - 1
			}
			sum += src[sy*w+sx]
		}
		dst[gid] = sum * norm
	})
}

// composite alpha-blends the outline over the image in the highlight
// color, using the outline intensity as alpha.
func (c *Compositor) composite(im *Image, outline []float32, color [3]float32) {
	gpu.Dispatch1D(uint32(c.width*c.height), func(gid uint32) {
		alpha := outline[gid]
		if alpha <= 0 {
			return
		}
		i := int(gid) * 4
		im.Pix[i] = im.Pix[i]*(1-alpha) + color[0]*alpha
		im.Pix[i+1] = im.Pix[i+1]*(1-alpha) + color[1]*alpha
		im.Pix[i+2] = im.Pix[i+2]*(1-alpha) + color[2]*alpha
		if alpha > im.Pix[i+3] {
			im.Pix[i+3] = alpha
		}
	})
}
