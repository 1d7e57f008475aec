package view

import (
	"math"
	"time"

	"github.com/chfi/gfaestus/geometry"
)

// Anim interpolates the camera from one view to another over a fixed
// duration, easing the motion so pans and zooms settle smoothly.
//
// The scale is interpolated in log space, which keeps the apparent zoom
// rate constant across the transition.
type Anim struct {
	from, to View
	start    time.Time
	duration time.Duration
}

// NewAnim starts an animation from one view to another.
func NewAnim(from, to View, duration time.Duration) *Anim {
	return &Anim{
		from:     from,
		to:       to,
		start:    time.Now(),
		duration: duration,
	}
}

// At returns the interpolated view at the given time. Times before the
// start clamp to the initial view; times past the end clamp to the target.
func (a *Anim) At(now time.Time) View {
	if a.duration <= 0 {
		return a.to
	}
	t := float32(now.Sub(a.start).Seconds() / a.duration.Seconds())
	t = geometry.Clampf32(t, 0, 1)
	return LerpViews(a.from, a.to, easeOutCubic(t))
}

// Done reports whether the animation has finished at the given time.
func (a *Anim) Done(now time.Time) bool {
	return now.Sub(a.start) >= a.duration
}

// Target returns the final view of the animation.
func (a *Anim) Target() View {
	return a.to
}

// LerpViews interpolates between two views. The center moves linearly and
// the scale moves geometrically.
func LerpViews(from, to View, t float32) View {
	scale := from.Scale
	if from.Scale > 0 && to.Scale > 0 {
		logA := math.Log(float64(from.Scale))
		logB := math.Log(float64(to.Scale))
		scale = float32(math.Exp(logA + (logB-logA)*float64(t)))
	} else {
		scale = from.Scale + (to.Scale-from.Scale)*t
	}
	return View{
		Center: from.Center.Lerp(to.Center, t),
		Scale:  scale,
	}
}

func easeOutCubic(t float32) float32 {
	u := 1 - t
	return 1 - u*u*u
}
