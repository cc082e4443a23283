// Package highlight computes the emphasis styles used when a contract is
// focused: everything dims except the focused node and its links, and links
// are colored by whether they touch the queried contract.
package highlight

import (
	"contractlens/internal/domain"
)

// Colors and opacities of the graph view
const (
	LinkColor       = "#999"
	DirectColor     = "#ff6666"
	TransitiveColor = "#ff9933"

	NodeOpacity      = 1.0
	NodeStrokeWidth  = 1.5
	LinkOpacity      = 0.6
	DimNodeOpacity   = 0.2
	DimLinkOpacity   = 0.1
	FocusStrokeWidth = 3.0
	FocusLinkOpacity = 1.0
)

// NodeStyle is how a node circle is drawn
type NodeStyle struct {
	Opacity     float64 `json:"opacity"`
	StrokeWidth float64 `json:"stroke_width"`
}

// LinkStyle is how a link line is drawn
type LinkStyle struct {
	Stroke  string  `json:"stroke"`
	Opacity float64 `json:"opacity"`
}

// Engine holds the focused address of a graph
type Engine struct {
	graph *domain.Graph
	focus string
}

// New creates an engine with nothing focused
func New(graph *domain.Graph) *Engine {
	return &Engine{graph: graph}
}

// Apply focuses an address; an empty address clears the focus
func (e *Engine) Apply(focus string) {
	e.focus = domain.NormalizeAddress(focus)
}

// Focus returns the focused address in lowercase, or ""
func (e *Engine) Focus() string {
	return e.focus
}

// NodeStyle returns the style for a node
func (e *Engine) NodeStyle(id string) NodeStyle {
	if e.focus == "" {
		return NodeStyle{Opacity: NodeOpacity, StrokeWidth: NodeStrokeWidth}
	}
	if domain.NormalizeAddress(id) == e.focus {
		return NodeStyle{Opacity: NodeOpacity, StrokeWidth: FocusStrokeWidth}
	}
	return NodeStyle{Opacity: DimNodeOpacity, StrokeWidth: NodeStrokeWidth}
}

// LinkStyle returns the style for a link. Unknown links get the default
// style for the current focus.
func (e *Engine) LinkStyle(id string) LinkStyle {
	if e.focus == "" {
		return LinkStyle{Stroke: LinkColor, Opacity: LinkOpacity}
	}

	link := e.graph.Link(id)
	if link == nil || !link.Touches(e.focus) {
		return LinkStyle{Stroke: LinkColor, Opacity: DimLinkOpacity}
	}

	color := TransitiveColor
	if e.graph.IsRoot(link.Source) || e.graph.IsRoot(link.Target) {
		color = DirectColor
	}
	return LinkStyle{Stroke: color, Opacity: FocusLinkOpacity}
}
