package post

// Image is a float RGBA image in row-major order, four components per
// pixel. It stands in for the color render target in the CPU mirror of
// the post-process chain.
type Image struct {
	Width, Height int
	Pix           []float32
}

// NewImage allocates a transparent black image.
func NewImage(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]float32, width*height*4),
	}
}

// Clone returns an independent copy of the image.
func (im *Image) Clone() *Image {
	out := &Image{
		Width:  im.Width,
		Height: im.Height,
		Pix:    make([]float32, len(im.Pix)),
	}
	copy(out.Pix, im.Pix)
	return out
}

// At returns the RGBA components at (x, y).
func (im *Image) At(x, y int) (r, g, b, a float32) {
	i := (y*im.Width + x) * 4
	return im.Pix[i], im.Pix[i+1], im.Pix[i+2], im.Pix[i+3]
}

// Set writes the RGBA components at (x, y).
func (im *Image) Set(x, y int, r, g, b, a float32) {
	i := (y*im.Width + x) * 4
	im.Pix[i] = r
	im.Pix[i+1] = g
	im.Pix[i+2] = b
	im.Pix[i+3] = a
}

// Fill sets every pixel to the same color.
func (im *Image) Fill(r, g, b, a float32) {
	for i := 0; i < len(im.Pix); i += 4 {
		im.Pix[i] = r
		im.Pix[i+1] = g
		im.Pix[i+2] = b
		im.Pix[i+3] = a
	}
}
