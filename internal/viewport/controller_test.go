package viewport

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contractlens/internal/loop"
)

func newController() (*Controller, *loop.Loop) {
	l := loop.New(loop.DefaultFrameInterval)
	return New(l, DefaultConfig()), l
}

func TestZoom(t *testing.T) {
	t.Run("zoom in animates to 1.3 about the center", func(t *testing.T) {
		c, l := newController()
		var seen []Transform
		c.OnTransform(func(tr Transform) { seen = append(seen, tr) })

		c.ZoomIn()
		assert.True(t, c.Animating())
		assert.Equal(t, 1.0, c.Transform().K)

		l.Advance(300 * time.Millisecond)

		assert.False(t, c.Animating())
		assert.InDelta(t, 1.3, c.Transform().K, 1e-9)
		wx, wy := c.Transform().Invert(400, 300)
		assert.InDelta(t, 400, wx, 1e-9)
		assert.InDelta(t, 300, wy, 1e-9)

		require.Greater(t, len(seen), 2)
		for i := 1; i < len(seen); i++ {
			assert.GreaterOrEqual(t, seen[i].K, seen[i-1].K)
		}
	})

	t.Run("zoom out animates to 0.7", func(t *testing.T) {
		c, l := newController()
		c.ZoomOut()
		l.Advance(time.Second)
		assert.InDelta(t, 0.7, c.Transform().K, 1e-9)
	})

	t.Run("new transition interrupts the one in flight", func(t *testing.T) {
		c, l := newController()
		c.ZoomIn()
		l.Advance(100 * time.Millisecond)

		mid := c.Transform().K
		require.Greater(t, mid, 1.0)
		require.Less(t, mid, 1.3)

		c.ZoomIn()
		l.Advance(time.Second)

		assert.InDelta(t, mid*1.3, c.Transform().K, 1e-9)
		assert.Zero(t, l.Pending())
	})

	t.Run("reset returns to identity", func(t *testing.T) {
		c, l := newController()
		c.Pan(50, 60)
		c.ZoomIn()
		l.Advance(time.Second)

		c.ResetZoom()
		l.Advance(time.Second)

		assert.Equal(t, Identity, c.Transform())
	})

	t.Run("repeated zoom in stops at the maximum", func(t *testing.T) {
		c, l := newController()
		for i := 0; i < 20; i++ {
			c.ZoomIn()
			l.Advance(time.Second)
		}
		assert.Equal(t, 4.0, c.Transform().K)
	})

	t.Run("no loop applies immediately", func(t *testing.T) {
		c := New(nil, DefaultConfig())
		c.ZoomIn()
		assert.InDelta(t, 1.3, c.Transform().K, 1e-9)
	})
}

func TestGestures(t *testing.T) {
	t.Run("pan applies immediately with one callback", func(t *testing.T) {
		c, _ := newController()
		calls := 0
		c.OnTransform(func(Transform) { calls++ })

		c.Pan(15, -5)

		assert.Equal(t, 1, calls)
		assert.Equal(t, Transform{K: 1, X: 15, Y: -5}, c.Transform())
	})

	t.Run("wheel zooms about the pointer", func(t *testing.T) {
		c, _ := newController()
		c.Wheel(100, 100, -500)

		assert.InDelta(t, 2, c.Transform().K, 1e-9)
		wx, wy := c.Transform().Invert(100, 100)
		assert.InDelta(t, 100, wx, 1e-9)
		assert.InDelta(t, 100, wy, 1e-9)
	})

	t.Run("gesture cancels a running transition", func(t *testing.T) {
		c, l := newController()
		c.ZoomIn()
		l.Advance(50 * time.Millisecond)

		c.Pan(1, 1)
		k := c.Transform().K
		l.Advance(time.Second)

		assert.False(t, c.Animating())
		assert.Equal(t, k, c.Transform().K)
	})
}

func TestZoomClampingProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("scale stays within bounds", prop.ForAll(
		func(ops []int, deltas []float64) bool {
			c, l := newController()
			for i, op := range ops {
				switch op {
				case 0:
					c.ZoomIn()
				case 1:
					c.ZoomOut()
				case 2:
					if i < len(deltas) {
						c.Wheel(200, 150, deltas[i])
					}
				case 3:
					c.ResetZoom()
				}
				l.Advance(time.Duration(i%4) * 100 * time.Millisecond)

				k := c.Transform().K
				if k < 0.1-1e-9 || k > 4+1e-9 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 3)),
		gen.SliceOf(gen.Float64Range(-5000, 5000)),
	))

	properties.TestingRun(t)
}
