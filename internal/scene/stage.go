package scene

import (
	"fmt"

	"contractlens/internal/domain"
	"contractlens/internal/loop"
)

// Stage owns the current scene and replaces it when a new payload arrives.
// All methods must be called on the loop goroutine.
type Stage struct {
	loop      *loop.Loop
	opts      Options
	publisher Publisher

	current  *Scene
	onLoaded []func(*Scene)
}

// NewStage creates an empty stage. publisher may be nil.
func NewStage(l *loop.Loop, opts Options, publisher Publisher) *Stage {
	if opts.Width <= 0 || opts.Height <= 0 {
		def := DefaultOptions()
		opts.Width, opts.Height = def.Width, def.Height
	}
	return &Stage{
		loop:      l,
		opts:      opts,
		publisher: publisher,
	}
}

// OnLoaded registers fn to run for every new scene, just before it starts
func (st *Stage) OnLoaded(fn func(*Scene)) {
	st.onLoaded = append(st.onLoaded, fn)
}

// Load closes the current scene and starts a new one built from payload
func (st *Stage) Load(payload *domain.GraphPayload) *Scene {
	if st.current != nil {
		st.current.Close()
		st.current = nil
	}

	s := New(st.loop, payload, st.opts)
	st.current = s

	s.simulation.OnEnd(func() {
		st.publish(EventSimulationStopped, SimulationStopped{
			SceneID: s.ID,
			Ticks:   s.simulation.Ticks(),
			Alpha:   s.simulation.Alpha(),
		})
	})
	for _, fn := range st.onLoaded {
		fn(s)
	}

	st.publish(EventSceneLoaded, SceneLoaded{
		SceneID: s.ID,
		Address: s.Graph.Address,
		Nodes:   len(s.Graph.Nodes),
		Links:   len(s.Graph.Links),
	})

	s.Start(st.loop)
	return s
}

// Current returns the live scene
func (st *Stage) Current() (*Scene, error) {
	if st.current == nil || st.current.Closed() {
		return nil, ErrNoScene
	}
	return st.current, nil
}

// Close stops the current scene, leaving the stage empty
func (st *Stage) Close() {
	if st.current != nil {
		st.current.Close()
		st.current = nil
	}
}

// ZoomIn animates a zoom in about the canvas center
func (st *Stage) ZoomIn() error {
	s, err := st.Current()
	if err != nil {
		return err
	}
	s.viewport.ZoomIn()
	return nil
}

// ZoomOut animates a zoom out about the canvas center
func (st *Stage) ZoomOut() error {
	s, err := st.Current()
	if err != nil {
		return err
	}
	s.viewport.ZoomOut()
	return nil
}

// ResetZoom animates back to the identity transform
func (st *Stage) ResetZoom() error {
	s, err := st.Current()
	if err != nil {
		return err
	}
	s.viewport.ResetZoom()
	return nil
}

// Pan shifts the view by a screen-space offset
func (st *Stage) Pan(dx, dy float64) error {
	s, err := st.Current()
	if err != nil {
		return err
	}
	s.viewport.Pan(dx, dy)
	return nil
}

// Wheel zooms about a screen point
func (st *Stage) Wheel(px, py, delta float64) error {
	s, err := st.Current()
	if err != nil {
		return err
	}
	s.viewport.Wheel(px, py, delta)
	return nil
}

// SetFlowVisible shows or hides the flow markers
func (st *Stage) SetFlowVisible(visible bool) error {
	s, err := st.Current()
	if err != nil {
		return err
	}
	s.flow.SetVisible(visible)
	st.publish(EventFlowToggled, FlowToggled{SceneID: s.ID, Visible: visible})
	return nil
}

// ToggleFlow flips marker visibility and returns the new state
func (st *Stage) ToggleFlow() (bool, error) {
	s, err := st.Current()
	if err != nil {
		return false, err
	}
	visible := !s.flow.Visible()
	return visible, st.SetFlowVisible(visible)
}

// SetHighlight focuses an address; empty clears the focus
func (st *Stage) SetHighlight(address string) error {
	s, err := st.Current()
	if err != nil {
		return err
	}
	s.highlight.Apply(address)
	st.publish(EventHighlightChanged, HighlightChanged{SceneID: s.ID, Address: s.highlight.Focus()})
	return nil
}

// DragStart pins a node and reheats the layout
func (st *Stage) DragStart(id string) error {
	s, err := st.Current()
	if err != nil {
		return err
	}
	if !s.drag.Start(id) {
		return fmt.Errorf("drag start %s: %w", id, ErrUnknownNode)
	}
	return nil
}

// DragMove moves a dragged node to a screen point. The point is mapped
// through the inverse viewport transform into simulation space. Moving a node
// that is not being dragged is a no-op.
func (st *Stage) DragMove(id string, screenX, screenY float64) error {
	s, err := st.Current()
	if err != nil {
		return err
	}
	x, y := s.viewport.Transform().Invert(screenX, screenY)
	if !s.drag.Move(id, x, y) && s.Node(id) == nil {
		return fmt.Errorf("drag move %s: %w", id, ErrUnknownNode)
	}
	return nil
}

// DragEnd releases a dragged node. Ending a drag that is no longer active,
// such as one cancelled by a scene replacement, is a no-op.
func (st *Stage) DragEnd(id string) error {
	s, err := st.Current()
	if err != nil {
		return err
	}
	if !s.drag.End(id) && s.Node(id) == nil {
		return fmt.Errorf("drag end %s: %w", id, ErrUnknownNode)
	}
	return nil
}

// Click reports a click on a node
func (st *Stage) Click(id string) (*NodeClicked, error) {
	s, err := st.Current()
	if err != nil {
		return nil, err
	}
	node := s.Node(id)
	if node == nil {
		return nil, fmt.Errorf("click %s: %w", id, ErrUnknownNode)
	}

	event := &NodeClicked{SceneID: s.ID, ID: node.ID, Group: node.Group}
	st.publish(EventNodeClicked, *event)
	return event, nil
}

// Snapshot copies the drawable state of the current scene
func (st *Stage) Snapshot() (*Frame, error) {
	s, err := st.Current()
	if err != nil {
		return nil, err
	}
	return s.Snapshot(), nil
}

// Payload returns the payload of the current scene
func (st *Stage) Payload() (*domain.GraphPayload, error) {
	s, err := st.Current()
	if err != nil {
		return nil, err
	}
	return s.Payload, nil
}

func (st *Stage) publish(eventType EventType, payload any) {
	if st.publisher == nil {
		return
	}
	st.publisher.Publish(Event{Type: eventType, Payload: payload})
}
