// Package viewport implements pan and zoom over the rendered scene.
//
// The viewport only changes how the scene is projected onto the screen. It
// never reads or writes node positions.
package viewport

import (
	"math"
	"time"

	"contractlens/internal/loop"
)

// Config holds zoom limits and gesture constants
type Config struct {
	Width  float64 `yaml:"-"`
	Height float64 `yaml:"-"`

	MinScale      float64       `yaml:"min_scale" validate:"gt=0"`
	MaxScale      float64       `yaml:"max_scale" validate:"gtfield=MinScale"`
	ZoomInFactor  float64       `yaml:"zoom_in_factor" validate:"gt=1"`
	ZoomOutFactor float64       `yaml:"zoom_out_factor" validate:"gt=0,lt=1"`
	Transition    time.Duration `yaml:"transition" validate:"gt=0"`
	WheelFactor   float64       `yaml:"wheel_factor" validate:"gt=0"`
}

// DefaultConfig returns the zoom behaviour of the graph view
func DefaultConfig() Config {
	return Config{
		Width:         800,
		Height:        600,
		MinScale:      0.1,
		MaxScale:      4,
		ZoomInFactor:  1.3,
		ZoomOutFactor: 0.7,
		Transition:    300 * time.Millisecond,
		WheelFactor:   0.002,
	}
}

// ApplyDefaults fills zero values from DefaultConfig
func (c *Config) ApplyDefaults() {
	def := DefaultConfig()
	if c.Width <= 0 {
		c.Width = def.Width
	}
	if c.Height <= 0 {
		c.Height = def.Height
	}
	if c.MinScale <= 0 {
		c.MinScale = def.MinScale
	}
	if c.MaxScale <= 0 {
		c.MaxScale = def.MaxScale
	}
	if c.ZoomInFactor == 0 {
		c.ZoomInFactor = def.ZoomInFactor
	}
	if c.ZoomOutFactor == 0 {
		c.ZoomOutFactor = def.ZoomOutFactor
	}
	if c.Transition == 0 {
		c.Transition = def.Transition
	}
	if c.WheelFactor == 0 {
		c.WheelFactor = def.WheelFactor
	}
}

// Controller owns the current transform and the animated transitions
// between transforms. Must only be used from the loop goroutine.
type Controller struct {
	cfg       Config
	loop      *loop.Loop
	current   Transform
	animation *loop.Handle
	listeners []func(Transform)
}

// New creates a controller at the identity transform
func New(l *loop.Loop, cfg Config) *Controller {
	cfg.ApplyDefaults()
	return &Controller{
		cfg:     cfg,
		loop:    l,
		current: Identity,
	}
}

// Transform returns the current transform, including mid-transition values
func (c *Controller) Transform() Transform {
	return c.current
}

// Animating reports whether a transition is in flight
func (c *Controller) Animating() bool {
	return c.animation.Active()
}

// OnTransform registers fn to run on every transform change
func (c *Controller) OnTransform(fn func(Transform)) {
	c.listeners = append(c.listeners, fn)
}

// ZoomIn animates a zoom about the viewport center
func (c *Controller) ZoomIn() {
	c.zoomBy(c.cfg.ZoomInFactor)
}

// ZoomOut animates a zoom out about the viewport center
func (c *Controller) ZoomOut() {
	c.zoomBy(c.cfg.ZoomOutFactor)
}

// ResetZoom animates back to the identity transform
func (c *Controller) ResetZoom() {
	c.animateTo(Identity)
}

func (c *Controller) zoomBy(factor float64) {
	end := c.current.ScaleAbout(factor, c.cfg.Width/2, c.cfg.Height/2, c.cfg.MinScale, c.cfg.MaxScale)
	c.animateTo(end)
}

// Wheel zooms about the pointer immediately. Positive delta zooms out.
func (c *Controller) Wheel(px, py, delta float64) {
	c.interrupt()
	factor := math.Pow(2, -delta*c.cfg.WheelFactor)
	c.set(c.current.ScaleAbout(factor, px, py, c.cfg.MinScale, c.cfg.MaxScale))
}

// Pan shifts the view immediately by a screen-space offset
func (c *Controller) Pan(dx, dy float64) {
	c.interrupt()
	c.set(c.current.Translate(dx, dy))
}

// Stop cancels any transition in flight
func (c *Controller) Stop() {
	c.interrupt()
}

func (c *Controller) interrupt() {
	c.animation.Cancel()
	c.animation = nil
}

// animateTo starts a transition from the current transform. A transition
// already in flight is interrupted where it is.
func (c *Controller) animateTo(end Transform) {
	c.interrupt()

	if c.loop == nil || c.cfg.Transition <= 0 {
		c.set(end)
		return
	}

	start := c.current
	began := c.loop.Now()
	duration := c.cfg.Transition

	c.animation = c.loop.EachFrame(func(now time.Duration) bool {
		p := float64(now-began) / float64(duration)
		if p >= 1 {
			c.animation = nil
			c.set(end)
			return false
		}
		c.set(interpolate(start, end, easeCubicInOut(p)))
		return true
	})
}

func (c *Controller) set(t Transform) {
	c.current = t
	for _, fn := range c.listeners {
		fn(t)
	}
}
