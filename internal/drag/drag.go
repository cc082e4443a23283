// Package drag pins nodes under the pointer while the simulation keeps
// running around them.
package drag

import (
	"contractlens/internal/domain"
)

// Registry resolves node IDs in the current scene
type Registry interface {
	Node(id string) *domain.Node
}

// Heater controls the simulation temperature
type Heater interface {
	SetAlphaTarget(target float64)
	Restart()
}

// Controller tracks active drags. The first drag to start reheats the
// simulation and the last one to end lets it cool, so overlapping gestures
// do not fight over alphaTarget.
type Controller struct {
	registry Registry
	heater   Heater
	target   float64
	active   map[string]*domain.Node
}

// New creates a drag controller. reheat is the alphaTarget held while any
// drag is active.
func New(registry Registry, heater Heater, reheat float64) *Controller {
	return &Controller{
		registry: registry,
		heater:   heater,
		target:   reheat,
		active:   make(map[string]*domain.Node),
	}
}

// Start pins a node where it is. Returns false for unknown nodes.
func (c *Controller) Start(id string) bool {
	node := c.registry.Node(id)
	if node == nil {
		return false
	}

	if len(c.active) == 0 && c.heater != nil {
		c.heater.SetAlphaTarget(c.target)
		c.heater.Restart()
	}

	node.Pin(node.X, node.Y)
	c.active[node.Key] = node
	return true
}

// Move pins a dragged node at simulation-space coordinates
func (c *Controller) Move(id string, x, y float64) bool {
	node := c.lookup(id)
	if node == nil {
		return false
	}
	node.Pin(x, y)
	return true
}

// End releases a dragged node
func (c *Controller) End(id string) bool {
	node := c.lookup(id)
	if node == nil {
		return false
	}

	delete(c.active, node.Key)
	node.Unpin()

	if len(c.active) == 0 && c.heater != nil {
		c.heater.SetAlphaTarget(0)
	}
	return true
}

// Dragging reports whether a node is being dragged
func (c *Controller) Dragging(id string) bool {
	return c.lookup(id) != nil
}

// Active returns the number of drags in progress
func (c *Controller) Active() int {
	return len(c.active)
}

// Cancel releases every drag without touching the simulation
func (c *Controller) Cancel() {
	for key, node := range c.active {
		node.Unpin()
		delete(c.active, key)
	}
}

// lookup returns the dragged node for id, provided it is still in the scene
func (c *Controller) lookup(id string) *domain.Node {
	node := c.registry.Node(id)
	if node == nil {
		return nil
	}
	if c.active[node.Key] != node {
		return nil
	}
	return node
}
