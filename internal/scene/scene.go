// Package scene assembles a dependency graph with its simulation, viewport,
// drag, flow and highlight state, and owns the lifecycle of that state as
// payloads are replaced.
//
// Everything in this package runs on the loop goroutine.
package scene

import (
	"github.com/google/uuid"

	"contractlens/internal/domain"
	"contractlens/internal/drag"
	"contractlens/internal/flow"
	"contractlens/internal/highlight"
	"contractlens/internal/layout"
	"contractlens/internal/loop"
	"contractlens/internal/viewport"
)

// Options configures every scene built by a stage
type Options struct {
	Width    float64
	Height   float64
	Layout   layout.Config
	Viewport viewport.Config
	Flow     flow.Config
}

// DefaultOptions returns an 800x600 canvas with default behaviour
func DefaultOptions() Options {
	return Options{
		Width:    800,
		Height:   600,
		Layout:   layout.DefaultConfig(),
		Viewport: viewport.DefaultConfig(),
		Flow:     flow.DefaultConfig(),
	}
}

// Scene is the live state built from one payload
type Scene struct {
	ID      string
	Payload *domain.GraphPayload
	Graph   *domain.Graph

	width  float64
	height float64
	closed bool

	simulation *layout.Simulation
	flow       *flow.Animator
	viewport   *viewport.Controller
	drag       *drag.Controller
	highlight  *highlight.Engine
}

// New builds a scene. Nothing moves until Start.
func New(l *loop.Loop, payload *domain.GraphPayload, opts Options) *Scene {
	if payload == nil {
		payload = domain.NewGraphPayload("")
	}
	payload.Normalize()

	s := &Scene{
		ID:      uuid.NewString(),
		Payload: payload,
		Graph:   domain.BuildGraph(payload),
		width:   opts.Width,
		height:  opts.Height,
	}

	layoutCfg := opts.Layout
	layoutCfg.Width, layoutCfg.Height = opts.Width, opts.Height
	s.simulation = layout.New(s.Graph, layoutCfg)

	viewportCfg := opts.Viewport
	viewportCfg.Width, viewportCfg.Height = opts.Width, opts.Height
	s.viewport = viewport.New(l, viewportCfg)

	s.flow = flow.New(l, s, opts.Flow)
	s.drag = drag.New(s, s.simulation, layout.DragAlphaTarget)
	s.highlight = highlight.New(s.Graph)

	return s
}

// Start runs the simulation and the flow markers on l
func (s *Scene) Start(l *loop.Loop) {
	if s.closed {
		return
	}
	s.simulation.Start(l)
	s.flow.Start()
}

// Close stops every activity of the scene. Lookups fail afterwards, so
// callbacks still in flight find nothing to act on.
func (s *Scene) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.drag.Cancel()
	s.simulation.Stop()
	s.flow.Stop()
	s.viewport.Stop()
}

// Closed reports whether Close has run
func (s *Scene) Closed() bool {
	return s.closed
}

// Node returns a node of the scene, or nil once closed
func (s *Scene) Node(id string) *domain.Node {
	if s.closed {
		return nil
	}
	return s.Graph.Node(id)
}

// Link returns a link of the scene, or nil once closed
func (s *Scene) Link(id string) *domain.Link {
	if s.closed {
		return nil
	}
	return s.Graph.Link(id)
}

// Links returns every link of the scene, or nil once closed
func (s *Scene) Links() []*domain.Link {
	if s.closed {
		return nil
	}
	return s.Graph.Links
}

// Size returns the canvas dimensions
func (s *Scene) Size() (float64, float64) {
	return s.width, s.height
}

// Simulation returns the layout engine
func (s *Scene) Simulation() *layout.Simulation {
	return s.simulation
}

// Flow returns the marker animator
func (s *Scene) Flow() *flow.Animator {
	return s.flow
}

// Viewport returns the pan/zoom controller
func (s *Scene) Viewport() *viewport.Controller {
	return s.viewport
}

// Drag returns the drag controller
func (s *Scene) Drag() *drag.Controller {
	return s.drag
}

// Highlight returns the focus engine
func (s *Scene) Highlight() *highlight.Engine {
	return s.highlight
}
