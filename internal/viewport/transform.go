package viewport

import (
	"fmt"
	"math"

	"github.com/quartercastle/vector"
)

// Transform maps simulation coordinates to screen coordinates:
// screen = world*K + (X, Y)
type Transform struct {
	K float64 `json:"k"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Identity is the untransformed view
var Identity = Transform{K: 1}

// Apply maps a simulation point to the screen
func (t Transform) Apply(x, y float64) (float64, float64) {
	return x*t.K + t.X, y*t.K + t.Y
}

// Invert maps a screen point back to simulation space
func (t Transform) Invert(x, y float64) (float64, float64) {
	return (x - t.X) / t.K, (y - t.Y) / t.K
}

// Translate shifts the view by a screen-space offset
func (t Transform) Translate(dx, dy float64) Transform {
	t.X += dx
	t.Y += dy
	return t
}

// ScaleAbout multiplies the scale by factor, clamped to [min, max], keeping
// the simulation point under screen point (px, py) fixed
func (t Transform) ScaleAbout(factor, px, py, min, max float64) Transform {
	k := clamp(t.K*factor, min, max)
	wx, wy := t.Invert(px, py)
	return Transform{K: k, X: px - wx*k, Y: py - wy*k}
}

// String renders the transform as an SVG transform attribute
func (t Transform) String() string {
	return fmt.Sprintf("translate(%g,%g) scale(%g)", t.X, t.Y, t.K)
}

// interpolate blends two transforms; p=0 yields from, p=1 yields to
func interpolate(from, to Transform, p float64) Transform {
	a := vector.Vector{from.X, from.Y}
	b := vector.Vector{to.X, to.Y}
	pos := a.Add(b.Sub(a).Scale(p))
	return Transform{
		K: from.K + (to.K-from.K)*p,
		X: pos.X(),
		Y: pos.Y(),
	}
}

// easeCubicInOut matches the default easing of d3 transitions
func easeCubicInOut(t float64) float64 {
	t *= 2
	if t <= 1 {
		return t * t * t / 2
	}
	t -= 2
	return (t*t*t + 2) / 2
}

func clamp(v, min, max float64) float64 {
	return math.Max(min, math.Min(max, v))
}
