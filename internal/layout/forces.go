package layout

import (
	"math"
	"math/rand"

	"contractlens/internal/domain"
)

// Force contributes velocity (or position, for centering) changes on each tick
type Force interface {
	Initialize(nodes []*domain.Node, links []*domain.Link, rng *rand.Rand)
	Apply(alpha float64)
}

// jiggle breaks ties between coincident points
func jiggle(rng *rand.Rand) float64 {
	return (rng.Float64() - 0.5) * 1e-6
}

// LinkForce pulls linked nodes towards a fixed separation. Strength is
// 1/min(degree) of the endpoints so hubs are not dragged around by every leaf;
// the correction is split between endpoints in proportion to their degree.
type LinkForce struct {
	Distance   float64
	Iterations int

	links    []*domain.Link
	strength []float64
	bias     []float64
	rng      *rand.Rand
}

// NewLinkForce creates a spring force with a target separation
func NewLinkForce(distance float64, iterations int) *LinkForce {
	if iterations < 1 {
		iterations = 1
	}
	return &LinkForce{Distance: distance, Iterations: iterations}
}

// Initialize computes per-link strength and bias from node degrees.
// Links with an unresolved endpoint are dropped.
func (f *LinkForce) Initialize(nodes []*domain.Node, links []*domain.Link, rng *rand.Rand) {
	f.rng = rng
	f.links = f.links[:0]
	degree := make(map[*domain.Node]int, len(nodes))
	for _, link := range links {
		if !link.Active() {
			continue
		}
		source, target := link.Endpoints()
		degree[source]++
		degree[target]++
		f.links = append(f.links, link)
	}

	f.strength = make([]float64, len(f.links))
	f.bias = make([]float64, len(f.links))
	for i, link := range f.links {
		source, target := link.Endpoints()
		s, t := float64(degree[source]), float64(degree[target])
		f.strength[i] = 1 / math.Min(s, t)
		f.bias[i] = s / (s + t)
	}
}

// Apply nudges endpoint velocities towards the target distance
func (f *LinkForce) Apply(alpha float64) {
	for k := 0; k < f.Iterations; k++ {
		for i, link := range f.links {
			source, target := link.Endpoints()
			x := target.X + target.VX - source.X - source.VX
			if x == 0 {
				x = jiggle(f.rng)
			}
			y := target.Y + target.VY - source.Y - source.VY
			if y == 0 {
				y = jiggle(f.rng)
			}

			l := math.Sqrt(x*x + y*y)
			l = (l - f.Distance) / l * alpha * f.strength[i]
			x *= l
			y *= l

			b := f.bias[i]
			target.VX -= x * b
			target.VY -= y * b
			b = 1 - b
			source.VX += x * b
			source.VY += y * b
		}
	}
}

// ManyBodyForce repels every pair of nodes. The pairwise sum is exact; graphs
// here are small enough that an approximation is not needed.
type ManyBodyForce struct {
	Strength     float64
	DistanceMin2 float64

	nodes []*domain.Node
	rng   *rand.Rand
}

// NewManyBodyForce creates a charge force; negative strength repels
func NewManyBodyForce(strength float64) *ManyBodyForce {
	return &ManyBodyForce{Strength: strength, DistanceMin2: 1}
}

// Initialize records the node set
func (f *ManyBodyForce) Initialize(nodes []*domain.Node, links []*domain.Link, rng *rand.Rand) {
	f.nodes = nodes
	f.rng = rng
}

// Apply accumulates charge between all node pairs into velocities
func (f *ManyBodyForce) Apply(alpha float64) {
	for i, node := range f.nodes {
		for j, other := range f.nodes {
			if i == j {
				continue
			}
			x := other.X - node.X
			y := other.Y - node.Y
			if x == 0 {
				x = jiggle(f.rng)
			}
			if y == 0 {
				y = jiggle(f.rng)
			}

			l := x*x + y*y
			if l < f.DistanceMin2 {
				l = math.Sqrt(f.DistanceMin2 * l)
			}

			w := f.Strength * alpha / l
			node.VX += x * w
			node.VY += y * w
		}
	}
}

// CenterForce translates the whole node set so its mean sits on a point.
// It moves positions directly and does not depend on alpha.
type CenterForce struct {
	X, Y     float64
	Strength float64

	nodes []*domain.Node
}

// NewCenterForce creates a centering force for a point
func NewCenterForce(x, y, strength float64) *CenterForce {
	return &CenterForce{X: x, Y: y, Strength: strength}
}

// Initialize records the node set
func (f *CenterForce) Initialize(nodes []*domain.Node, links []*domain.Link, rng *rand.Rand) {
	f.nodes = nodes
}

// Apply shifts all nodes by the offset of their centroid
func (f *CenterForce) Apply(alpha float64) {
	n := len(f.nodes)
	if n == 0 {
		return
	}

	var sx, sy float64
	for _, node := range f.nodes {
		sx += node.X
		sy += node.Y
	}
	sx = (sx/float64(n) - f.X) * f.Strength
	sy = (sy/float64(n) - f.Y) * f.Strength

	for _, node := range f.nodes {
		node.X -= sx
		node.Y -= sy
	}
}
