package scene

import (
	"contractlens/internal/domain"
	"contractlens/internal/flow"
	"contractlens/internal/highlight"
	"contractlens/internal/layout"
	"contractlens/internal/viewport"
)

// Node appearance
const (
	MainFill    = "#C5BAFF"
	OtherFill   = "#91b8ff"
	MainRadius  = 10.0
	OtherRadius = 5.0
)

// Frame is a point-in-time copy of everything needed to draw a scene
type Frame struct {
	SceneID     string             `json:"scene_id"`
	Address     string             `json:"address"`
	Width       float64            `json:"width"`
	Height      float64            `json:"height"`
	State       layout.State       `json:"state"`
	Alpha       float64            `json:"alpha"`
	Ticks       int                `json:"ticks"`
	Transform   viewport.Transform `json:"transform"`
	FlowVisible bool               `json:"flow_visible"`
	Focus       string             `json:"focus,omitempty"`
	Nodes       []NodeFrame        `json:"nodes"`
	Links       []LinkFrame        `json:"links"`
	Markers     []flow.Marker      `json:"markers"`
}

// NodeFrame is a node as drawn
type NodeFrame struct {
	ID     string              `json:"id"`
	Label  string              `json:"label"`
	Group  domain.Group        `json:"group"`
	X      float64             `json:"x"`
	Y      float64             `json:"y"`
	Radius float64             `json:"radius"`
	Fill   string              `json:"fill"`
	Pinned bool                `json:"pinned"`
	Style  highlight.NodeStyle `json:"style"`
}

// LinkFrame is a link as drawn; unresolved endpoints sit at the origin
type LinkFrame struct {
	ID     string              `json:"id"`
	Source string              `json:"source"`
	Target string              `json:"target"`
	Type   string              `json:"type"`
	Count  int                 `json:"count"`
	X1     float64             `json:"x1"`
	Y1     float64             `json:"y1"`
	X2     float64             `json:"x2"`
	Y2     float64             `json:"y2"`
	Width  float64             `json:"width"`
	Style  highlight.LinkStyle `json:"style"`
}

// Snapshot copies the drawable state of the scene
func (s *Scene) Snapshot() *Frame {
	frame := &Frame{
		SceneID:     s.ID,
		Address:     s.Graph.Address,
		Width:       s.width,
		Height:      s.height,
		State:       s.simulation.State(),
		Alpha:       s.simulation.Alpha(),
		Ticks:       s.simulation.Ticks(),
		Transform:   s.viewport.Transform(),
		FlowVisible: s.flow.Visible(),
		Focus:       s.highlight.Focus(),
		Nodes:       make([]NodeFrame, 0, len(s.Graph.Nodes)),
		Links:       make([]LinkFrame, 0, len(s.Graph.Links)),
		Markers:     s.flow.Markers(),
	}
	if frame.Markers == nil {
		frame.Markers = make([]flow.Marker, 0)
	}

	for _, node := range s.Graph.Nodes {
		nf := NodeFrame{
			ID:     node.ID,
			Label:  s.Graph.Label(node.ID),
			Group:  node.Group,
			X:      node.X,
			Y:      node.Y,
			Radius: OtherRadius,
			Fill:   OtherFill,
			Pinned: node.Pinned(),
			Style:  s.highlight.NodeStyle(node.ID),
		}
		if node.IsMain() {
			nf.Radius = MainRadius
			nf.Fill = MainFill
		}
		frame.Nodes = append(frame.Nodes, nf)
	}

	for _, link := range s.Graph.Links {
		lf := LinkFrame{
			ID:     link.ID,
			Source: link.Source,
			Target: link.Target,
			Type:   link.Type,
			Count:  link.Count,
			Width:  link.StrokeWidth(),
			Style:  s.highlight.LinkStyle(link.ID),
		}
		lf.X1, lf.Y1 = link.SourcePosition()
		lf.X2, lf.Y2 = link.TargetPosition()
		frame.Links = append(frame.Links, lf)
	}

	return frame
}
