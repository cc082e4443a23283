package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"contractlens/internal/analysis"
	"contractlens/internal/codec"
	"contractlens/internal/domain"
	"contractlens/internal/loop"
	"contractlens/internal/metrics"
	"contractlens/internal/render"
	"contractlens/internal/scene"
)

// ErrInvalidPayload marks a graph document that could not be decoded
var ErrInvalidPayload = errors.New("invalid payload")

// Fetcher retrieves dependency payloads from the analysis API
type Fetcher interface {
	Dependencies(ctx context.Context, req analysis.Request) (*domain.GraphPayload, error)
}

// Options configures a Visualizer
type Options struct {
	Scene scene.Options
	// StreamInterval is the minimum spacing of frame events; zero disables them
	StreamInterval time.Duration
}

// InteractionQuery selects and orders interaction rows
type InteractionQuery struct {
	Filter    domain.InteractionFilter
	Sort      string
	Direction domain.SortDirection
}

// InteractionTable is the sidebar view of the current payload
type InteractionTable struct {
	Address   string                    `json:"address"`
	Summary   domain.InteractionSummary `json:"summary"`
	CallTypes []string                  `json:"call_types"`
	Rows      []domain.InteractionRow   `json:"rows"`
}

// Visualizer provides every operation on the live dependency graph
type Visualizer struct {
	loop     *loop.Loop
	stage    *scene.Stage
	fetcher  Fetcher
	eventBus *EventBus
	metrics  *metrics.Registry
	opts     Options
}

// NewVisualizer creates a visualizer whose stage runs on l. fetcher, eventBus
// and reg may be nil.
func NewVisualizer(l *loop.Loop, fetcher Fetcher, eventBus *EventBus, reg *metrics.Registry, opts Options) *Visualizer {
	v := &Visualizer{
		loop:     l,
		fetcher:  fetcher,
		eventBus: eventBus,
		metrics:  reg,
		opts:     opts,
	}

	var publisher scene.Publisher
	if eventBus != nil {
		publisher = eventBus
	}
	v.stage = scene.NewStage(l, opts.Scene, publisher)
	v.stage.OnLoaded(v.instrument)
	return v
}

// instrument attaches metrics and frame streaming to a new scene
func (v *Visualizer) instrument(s *scene.Scene) {
	if v.metrics != nil {
		v.metrics.RecordSceneLoaded(len(s.Graph.Nodes), len(s.Graph.Links))
		sim := s.Simulation()
		sim.OnTick(func() {
			v.metrics.RecordTick(sim.Alpha())
		})
	}

	if v.eventBus == nil || v.opts.StreamInterval <= 0 {
		return
	}

	last := time.Duration(-1)
	v.loop.EachFrame(func(now time.Duration) bool {
		if s.Closed() {
			return false
		}
		if last >= 0 && now-last < v.opts.StreamInterval {
			return true
		}
		last = now

		frame := s.Snapshot()
		v.eventBus.Publish(scene.Event{Type: scene.EventFrame, Payload: frame})
		if v.metrics != nil {
			v.metrics.RecordFrame(len(frame.Markers))
		}
		return true
	})
}

// call runs fn on the loop and returns its error
func (v *Visualizer) call(ctx context.Context, fn func() error) error {
	var err error
	if callErr := v.loop.Call(ctx, func() { err = fn() }); callErr != nil {
		return callErr
	}
	return err
}

// Fetch loads the dependency graph of an address from the analysis API
func (v *Visualizer) Fetch(ctx context.Context, req analysis.Request) (*scene.SceneLoaded, error) {
	if v.fetcher == nil {
		return nil, fmt.Errorf("fetch %s: no analysis client configured", req.Address)
	}

	payload, err := v.fetcher.Dependencies(ctx, req)
	if err != nil {
		return nil, err
	}
	return v.LoadPayload(ctx, payload)
}

// LoadPayload replaces the current scene with one built from payload
func (v *Visualizer) LoadPayload(ctx context.Context, payload *domain.GraphPayload) (*scene.SceneLoaded, error) {
	var loaded *scene.SceneLoaded
	err := v.call(ctx, func() error {
		s := v.stage.Load(payload)
		loaded = &scene.SceneLoaded{
			SceneID: s.ID,
			Address: s.Graph.Address,
			Nodes:   len(s.Graph.Nodes),
			Links:   len(s.Graph.Links),
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load payload: %w", err)
	}
	return loaded, nil
}

// Import decodes a JSON or YAML document, chosen by content type, and loads it
func (v *Visualizer) Import(ctx context.Context, contentType string, r io.Reader) (*scene.SceneLoaded, error) {
	payload, err := codec.ForContentType(contentType).Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return v.LoadPayload(ctx, payload)
}

// Export writes the current payload in the given format
func (v *Visualizer) Export(ctx context.Context, format string, w io.Writer) error {
	c, err := codec.ForFormat(format)
	if err != nil {
		return err
	}

	payload, err := v.Payload(ctx)
	if err != nil {
		return err
	}
	return c.Export(payload, w)
}

// Payload returns the payload of the current scene
func (v *Visualizer) Payload(ctx context.Context) (*domain.GraphPayload, error) {
	var payload *domain.GraphPayload
	err := v.call(ctx, func() error {
		var err error
		payload, err = v.stage.Payload()
		return err
	})
	return payload, err
}

// Snapshot copies the drawable state of the current scene
func (v *Visualizer) Snapshot(ctx context.Context) (*scene.Frame, error) {
	var frame *scene.Frame
	err := v.call(ctx, func() error {
		var err error
		frame, err = v.stage.Snapshot()
		return err
	})
	return frame, err
}

// RenderSVG draws the current scene
func (v *Visualizer) RenderSVG(ctx context.Context, w io.Writer) error {
	frame, err := v.Snapshot(ctx)
	if err != nil {
		return err
	}
	return render.SVG(w, frame)
}

// Interactions returns the interaction table of the current payload
func (v *Visualizer) Interactions(ctx context.Context, query InteractionQuery) (*InteractionTable, error) {
	payload, err := v.Payload(ctx)
	if err != nil {
		return nil, err
	}

	rows := domain.InteractionRows(payload)
	rows = domain.FilterInteractions(rows, query.Filter)
	rows = domain.SortInteractions(rows, query.Sort, query.Direction)

	return &InteractionTable{
		Address:   payload.Address,
		Summary:   domain.Summarize(payload),
		CallTypes: domain.CallTypes(payload),
		Rows:      rows,
	}, nil
}

// ZoomIn animates a zoom in about the canvas center
func (v *Visualizer) ZoomIn(ctx context.Context) error {
	return v.call(ctx, v.stage.ZoomIn)
}

// ZoomOut animates a zoom out about the canvas center
func (v *Visualizer) ZoomOut(ctx context.Context) error {
	return v.call(ctx, v.stage.ZoomOut)
}

// ResetZoom animates back to the identity transform
func (v *Visualizer) ResetZoom(ctx context.Context) error {
	return v.call(ctx, v.stage.ResetZoom)
}

// Pan shifts the view by a screen-space offset
func (v *Visualizer) Pan(ctx context.Context, dx, dy float64) error {
	return v.call(ctx, func() error { return v.stage.Pan(dx, dy) })
}

// Wheel zooms about a screen point
func (v *Visualizer) Wheel(ctx context.Context, x, y, delta float64) error {
	return v.call(ctx, func() error { return v.stage.Wheel(x, y, delta) })
}

// ToggleFlow flips flow marker visibility and returns the new state
func (v *Visualizer) ToggleFlow(ctx context.Context) (bool, error) {
	var visible bool
	err := v.call(ctx, func() error {
		var err error
		visible, err = v.stage.ToggleFlow()
		return err
	})
	return visible, err
}

// SetFlowVisible shows or hides the flow markers
func (v *Visualizer) SetFlowVisible(ctx context.Context, visible bool) error {
	return v.call(ctx, func() error { return v.stage.SetFlowVisible(visible) })
}

// SetHighlight focuses an address; empty clears the focus
func (v *Visualizer) SetHighlight(ctx context.Context, address string) error {
	return v.call(ctx, func() error { return v.stage.SetHighlight(address) })
}

// DragStart pins a node and reheats the layout
func (v *Visualizer) DragStart(ctx context.Context, id string) error {
	return v.call(ctx, func() error { return v.stage.DragStart(id) })
}

// DragMove moves a dragged node to a screen point
func (v *Visualizer) DragMove(ctx context.Context, id string, x, y float64) error {
	return v.call(ctx, func() error { return v.stage.DragMove(id, x, y) })
}

// DragEnd releases a dragged node
func (v *Visualizer) DragEnd(ctx context.Context, id string) error {
	return v.call(ctx, func() error { return v.stage.DragEnd(id) })
}

// Click reports a click on a node
func (v *Visualizer) Click(ctx context.Context, id string) (*scene.NodeClicked, error) {
	var clicked *scene.NodeClicked
	err := v.call(ctx, func() error {
		var err error
		clicked, err = v.stage.Click(id)
		return err
	})
	return clicked, err
}

// Close stops the current scene
func (v *Visualizer) Close(ctx context.Context) error {
	return v.call(ctx, func() error {
		v.stage.Close()
		return nil
	})
}
