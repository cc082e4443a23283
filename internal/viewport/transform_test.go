package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransform(t *testing.T) {
	t.Run("apply and invert round trip", func(t *testing.T) {
		tr := Transform{K: 2, X: 10, Y: -5}

		sx, sy := tr.Apply(3, 4)
		assert.Equal(t, 16.0, sx)
		assert.Equal(t, 3.0, sy)

		wx, wy := tr.Invert(sx, sy)
		assert.InDelta(t, 3, wx, 1e-9)
		assert.InDelta(t, 4, wy, 1e-9)
	})

	t.Run("scale about keeps the anchor fixed", func(t *testing.T) {
		tr := Transform{K: 1.5, X: 20, Y: 30}
		wx, wy := tr.Invert(100, 200)

		scaled := tr.ScaleAbout(1.3, 100, 200, 0.1, 4)

		assert.InDelta(t, 1.95, scaled.K, 1e-9)
		ax, ay := scaled.Invert(100, 200)
		assert.InDelta(t, wx, ax, 1e-9)
		assert.InDelta(t, wy, ay, 1e-9)
	})

	t.Run("scale about clamps", func(t *testing.T) {
		assert.Equal(t, 4.0, Transform{K: 3.5}.ScaleAbout(2, 0, 0, 0.1, 4).K)
		assert.Equal(t, 0.1, Transform{K: 0.12}.ScaleAbout(0.5, 0, 0, 0.1, 4).K)
	})

	t.Run("string form", func(t *testing.T) {
		assert.Equal(t, "translate(1.5,-2) scale(3)", Transform{K: 3, X: 1.5, Y: -2}.String())
	})
}

func TestInterpolate(t *testing.T) {
	from := Transform{K: 1, X: 0, Y: 0}
	to := Transform{K: 3, X: 100, Y: -50}

	assert.Equal(t, from, interpolate(from, to, 0))
	assert.Equal(t, to, interpolate(from, to, 1))
	assert.Equal(t, Transform{K: 2, X: 50, Y: -25}, interpolate(from, to, 0.5))
}

func TestEaseCubicInOut(t *testing.T) {
	assert.Equal(t, 0.0, easeCubicInOut(0))
	assert.Equal(t, 0.5, easeCubicInOut(0.5))
	assert.Equal(t, 1.0, easeCubicInOut(1))
	assert.Less(t, easeCubicInOut(0.25), 0.25)
	assert.Greater(t, easeCubicInOut(0.75), 0.75)
}
