package domain

import "math"

// Group classifies a node relative to the queried contract
type Group string

const (
	GroupMain  Group = "main"
	GroupOther Group = "other"
)

// Node represents a contract in the rendered graph.
//
// X/Y/VX/VY are owned by the layout engine once a simulation starts. FX/FY pin
// the node: while set, the simulation holds the node at the pinned coordinates.
type Node struct {
	ID    string `json:"id"`
	Key   string `json:"key"`
	Group Group  `json:"group"`
	Index int    `json:"index"`

	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	VX float64 `json:"vx"`
	VY float64 `json:"vy"`

	FX *float64 `json:"fx,omitempty"`
	FY *float64 `json:"fy,omitempty"`

	placed bool
}

// NewNode creates a node for an address
func NewNode(id string, group Group) *Node {
	return &Node{
		ID:    id,
		Key:   NormalizeAddress(id),
		Group: group,
	}
}

// IsMain returns true for the queried contract
func (n *Node) IsMain() bool {
	return n.Group == GroupMain
}

// Pin fixes the node at the given coordinates
func (n *Node) Pin(x, y float64) {
	n.FX = &x
	n.FY = &y
}

// Unpin releases a pinned node
func (n *Node) Unpin() {
	n.FX = nil
	n.FY = nil
}

// Pinned reports whether the node is held at fixed coordinates
func (n *Node) Pinned() bool {
	return n.FX != nil && n.FY != nil
}

// Placed reports whether the node has been given an initial position
func (n *Node) Placed() bool {
	return n.placed
}

// Place sets the node position and marks it as placed
func (n *Node) Place(x, y float64) {
	n.X = x
	n.Y = y
	n.placed = true
}

// Finite reports whether the node coordinates are usable
func (n *Node) Finite() bool {
	return !math.IsNaN(n.X) && !math.IsInf(n.X, 0) && !math.IsNaN(n.Y) && !math.IsInf(n.Y, 0)
}
