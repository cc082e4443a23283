// Package flow animates markers travelling along links to show the direction
// of interactions.
//
// Every link runs its own cycle: travel from source to target, fade out, wait
// a random delay, travel again. The cycles run on loop timers and frames and
// are independent of the simulation tick, reading endpoint positions live so
// markers follow nodes while the layout moves.
package flow

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/quartercastle/vector"

	"contractlens/internal/domain"
	"contractlens/internal/loop"
)

// Registry resolves links in the current scene. A link that can no longer be
// found ends its marker cycle.
type Registry interface {
	Link(id string) *domain.Link
	Links() []*domain.Link
}

// Phase is the step a marker is in
type Phase int

const (
	Waiting Phase = iota
	Travelling
	Fading
)

func (p Phase) String() string {
	switch p {
	case Waiting:
		return "waiting"
	case Travelling:
		return "travelling"
	case Fading:
		return "fading"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// MarshalText encodes the phase by name
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Config holds the marker timings
type Config struct {
	Travel   time.Duration `yaml:"travel" validate:"gt=0"`
	Fade     time.Duration `yaml:"fade" validate:"gt=0"`
	MaxDelay time.Duration `yaml:"max_delay" validate:"gt=0"`
	Opacity  float64       `yaml:"opacity" validate:"gt=0,lte=1"`
	Seed     int64         `yaml:"seed"`
}

// DefaultConfig returns the marker timings of the graph view
func DefaultConfig() Config {
	return Config{
		Travel:   2000 * time.Millisecond,
		Fade:     200 * time.Millisecond,
		MaxDelay: 1000 * time.Millisecond,
		Opacity:  0.7,
	}
}

// ApplyDefaults fills zero values from DefaultConfig
func (c *Config) ApplyDefaults() {
	def := DefaultConfig()
	if c.Travel <= 0 {
		c.Travel = def.Travel
	}
	if c.Fade <= 0 {
		c.Fade = def.Fade
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = def.MaxDelay
	}
	if c.Opacity <= 0 {
		c.Opacity = def.Opacity
	}
}

// Marker is the render state of one link's flow marker
type Marker struct {
	LinkID   string  `json:"link_id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Opacity  float64 `json:"opacity"`
	Phase    Phase   `json:"phase"`
	Progress float64 `json:"progress"`
}

type track struct {
	marker Marker
	began  time.Duration
	handle *loop.Handle
	done   bool
}

// Animator drives the marker cycles of every link in a registry. Must only
// be used from the loop goroutine.
type Animator struct {
	cfg      Config
	loop     *loop.Loop
	registry Registry
	rng      *rand.Rand

	tracks  []*track
	visible bool
	running bool
}

// New creates an animator. Markers are visible by default; a zero seed draws
// delays from a time-based source.
func New(l *loop.Loop, registry Registry, cfg Config) *Animator {
	cfg.ApplyDefaults()

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Animator{
		cfg:      cfg,
		loop:     l,
		registry: registry,
		rng:      rand.New(rand.NewSource(seed)),
		visible:  true,
	}
}

// Start begins a travel cycle for every link. Calling Start on a running
// animator does nothing.
func (a *Animator) Start() {
	if a.running {
		return
	}
	a.running = true

	links := a.registry.Links()
	a.tracks = make([]*track, 0, len(links))
	for _, link := range links {
		tr := &track{marker: Marker{LinkID: link.ID}}
		a.tracks = append(a.tracks, tr)
		a.travel(tr)
	}
}

// Stop cancels every pending frame and timer. Markers are discarded.
func (a *Animator) Stop() {
	a.running = false
	for _, tr := range a.tracks {
		tr.handle.Cancel()
		tr.handle = nil
		tr.done = true
	}
	a.tracks = nil
}

// Running reports whether the cycles are active
func (a *Animator) Running() bool {
	return a.running
}

// SetVisible shows or hides markers in rendered output. The cycles keep
// running either way so toggling back resumes mid-phase.
func (a *Animator) SetVisible(visible bool) {
	a.visible = visible
}

// Visible reports whether markers are shown
func (a *Animator) Visible() bool {
	return a.visible
}

// Markers returns the markers to draw: none when hidden, otherwise every
// marker with a non-zero opacity
func (a *Animator) Markers() []Marker {
	if !a.visible {
		return nil
	}
	markers := make([]Marker, 0, len(a.tracks))
	for _, tr := range a.tracks {
		if tr.done || tr.marker.Opacity <= 0 {
			continue
		}
		markers = append(markers, tr.marker)
	}
	return markers
}

// Tracks returns the state of every live cycle regardless of visibility
func (a *Animator) Tracks() []Marker {
	markers := make([]Marker, 0, len(a.tracks))
	for _, tr := range a.tracks {
		if !tr.done {
			markers = append(markers, tr.marker)
		}
	}
	return markers
}

// lookup resolves the link of a track, ending the cycle when it is gone
func (a *Animator) lookup(tr *track) *domain.Link {
	if !a.running || tr.done {
		return nil
	}
	link := a.registry.Link(tr.marker.LinkID)
	if link == nil {
		tr.done = true
		tr.handle.Cancel()
		tr.handle = nil
	}
	return link
}

func (a *Animator) travel(tr *track) {
	link := a.lookup(tr)
	if link == nil {
		return
	}

	tr.began = a.loop.Now()
	tr.marker.Phase = Travelling
	tr.marker.Opacity = a.cfg.Opacity
	tr.marker.Progress = 0
	tr.marker.X, tr.marker.Y = link.SourcePosition()

	tr.handle = a.loop.EachFrame(func(now time.Duration) bool {
		link := a.lookup(tr)
		if link == nil {
			return false
		}

		p := progress(now-tr.began, a.cfg.Travel)
		tr.marker.Progress = p
		tr.marker.X, tr.marker.Y = along(link, p)

		if p >= 1 {
			a.fade(tr)
			return false
		}
		return true
	})
}

func (a *Animator) fade(tr *track) {
	if a.lookup(tr) == nil {
		return
	}

	tr.began = a.loop.Now()
	tr.marker.Phase = Fading
	tr.marker.Progress = 0

	tr.handle = a.loop.EachFrame(func(now time.Duration) bool {
		if a.lookup(tr) == nil {
			return false
		}

		p := progress(now-tr.began, a.cfg.Fade)
		tr.marker.Progress = p
		tr.marker.Opacity = a.cfg.Opacity * (1 - easeCubicInOut(p))

		if p >= 1 {
			tr.marker.Opacity = 0
			a.wait(tr)
			return false
		}
		return true
	})
}

func (a *Animator) wait(tr *track) {
	if a.lookup(tr) == nil {
		return
	}

	tr.marker.Phase = Waiting
	tr.marker.Progress = 0

	var delay time.Duration
	if a.cfg.MaxDelay > 0 {
		delay = time.Duration(a.rng.Int63n(int64(a.cfg.MaxDelay)))
	}
	tr.handle = a.loop.After(delay, func() {
		a.travel(tr)
	})
}

// along interpolates the live endpoint positions of a link
func along(link *domain.Link, p float64) (float64, float64) {
	sx, sy := link.SourcePosition()
	tx, ty := link.TargetPosition()
	source := vector.Vector{sx, sy}
	target := vector.Vector{tx, ty}
	pos := source.Add(target.Sub(source).Scale(p))
	return pos.X(), pos.Y()
}

func progress(elapsed, total time.Duration) float64 {
	if total <= 0 || elapsed >= total {
		return 1
	}
	if elapsed <= 0 {
		return 0
	}
	return float64(elapsed) / float64(total)
}

func easeCubicInOut(t float64) float64 {
	t *= 2
	if t <= 1 {
		return t * t * t / 2
	}
	t -= 2
	return (t*t*t + 2) / 2
}
