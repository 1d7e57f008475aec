// Package view provides the camera model mapping between world space and
// screen space. A View is a center point plus a scale, where scale is the
// number of world units covered by one pixel. All GPU stages receive the
// view as a uniform; the functions here are the CPU-side reference for the
// same transform.
package view

import (
	"github.com/chfi/gfaestus/geometry"
)

// View is a 2D camera: a world-space center and a zoom scale.
// Scale is world units per pixel, so larger values are zoomed out.
type View struct {
	Center geometry.Point
	Scale  float32
}

// ScreenDims holds the viewport size in pixels.
type ScreenDims struct {
	Width, Height float32
}

// Dims is a convenience function to create ScreenDims.
func Dims(w, h float32) ScreenDims {
	return ScreenDims{Width: w, Height: h}
}

// Max returns the larger of the two dimensions.
func (d ScreenDims) Max() float32 {
	if d.Width > d.Height {
		return d.Width
	}
	return d.Height
}

// Center returns the pixel at the center of the viewport.
func (d ScreenDims) Center() geometry.Point {
	return geometry.Pt(d.Width*0.5, d.Height*0.5)
}

// ScreenToWorld maps a pixel coordinate to world space.
func (v View) ScreenToWorld(dims ScreenDims, screen geometry.Point) geometry.Point {
	return screen.Sub(dims.Center()).Mul(v.Scale).Add(v.Center)
}

// WorldToScreen maps a world-space point to pixel coordinates.
func (v View) WorldToScreen(dims ScreenDims, world geometry.Point) geometry.Point {
	return world.Sub(v.Center).Div(v.Scale).Add(dims.Center())
}

// VisibleRect returns the world-space rectangle covered by the viewport.
func (v View) VisibleRect(dims ScreenDims) geometry.Rect {
	half := geometry.Pt(dims.Width*0.5*v.Scale, dims.Height*0.5*v.Scale)
	return geometry.Rect{
		Min: v.Center.Sub(half),
		Max: v.Center.Add(half),
	}
}

// WorldToNDC maps a world-space point to normalized device coordinates,
// where the viewport spans [-1, 1] on both axes.
func (v View) WorldToNDC(dims ScreenDims, world geometry.Point) geometry.Point {
	d := world.Sub(v.Center).Div(v.Scale)
	return geometry.Pt(d.X/(dims.Width*0.5), d.Y/(dims.Height*0.5))
}

// Pan translates the view center by a screen-space delta.
func (v View) Pan(delta geometry.Point) View {
	v.Center = v.Center.Add(delta.Mul(v.Scale))
	return v
}

// ZoomAround scales the view by factor while keeping the world point under
// the given pixel fixed on screen.
func (v View) ZoomAround(dims ScreenDims, screen geometry.Point, factor float32) View {
	anchor := v.ScreenToWorld(dims, screen)
	v.Scale *= factor
	// Re-center so the anchor maps back to the same pixel.
	v.Center = anchor.Sub(screen.Sub(dims.Center()).Mul(v.Scale))
	return v
}
