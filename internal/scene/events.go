package scene

import "contractlens/internal/domain"

// EventType defines the type of event
type EventType string

const (
	EventSceneLoaded       EventType = "scene_loaded"
	EventNodeClicked       EventType = "node_clicked"
	EventSimulationStopped EventType = "simulation_stopped"
	EventHighlightChanged  EventType = "highlight_changed"
	EventFlowToggled       EventType = "flow_toggled"
	EventFrame             EventType = "frame"
)

// Event represents something that happened on the stage
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

// Publisher receives stage events. Publish is called on the loop goroutine
// and must not block.
type Publisher interface {
	Publish(event Event)
}

// SceneLoaded is the payload of EventSceneLoaded
type SceneLoaded struct {
	SceneID string `json:"scene_id"`
	Address string `json:"address"`
	Nodes   int    `json:"nodes"`
	Links   int    `json:"links"`
}

// NodeClicked is the payload of EventNodeClicked
type NodeClicked struct {
	SceneID string       `json:"scene_id"`
	ID      string       `json:"id"`
	Group   domain.Group `json:"group"`
}

// SimulationStopped is the payload of EventSimulationStopped
type SimulationStopped struct {
	SceneID string  `json:"scene_id"`
	Ticks   int     `json:"ticks"`
	Alpha   float64 `json:"alpha"`
}

// HighlightChanged is the payload of EventHighlightChanged
type HighlightChanged struct {
	SceneID string `json:"scene_id"`
	Address string `json:"address,omitempty"`
}

// FlowToggled is the payload of EventFlowToggled
type FlowToggled struct {
	SceneID string `json:"scene_id"`
	Visible bool   `json:"visible"`
}
