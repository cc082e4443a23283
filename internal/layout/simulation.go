// Package layout computes node positions for a dependency graph with a
// velocity Verlet force simulation.
//
// A Simulation is not safe for concurrent use. Once started it ticks from the
// frame callbacks of a loop.Loop and must only be touched from that loop.
package layout

import (
	"math"
	"math/rand"
	"time"

	"contractlens/internal/domain"
	"contractlens/internal/loop"
)

const (
	initialRadius = 10
	// DragAlphaTarget keeps the layout warm while a node is being dragged
	DragAlphaTarget = 0.3
)

var initialAngle = math.Pi * (3 - math.Sqrt(5))

// Simulation moves the nodes of a graph until they settle
type Simulation struct {
	cfg Config

	nodes  []*domain.Node
	links  []*domain.Link
	forces []Force

	lastX []float64
	lastY []float64

	alpha       float64
	alphaTarget float64
	alphaDecay  float64
	state       State
	ticks       int

	rng   *rand.Rand
	loop  *loop.Loop
	frame *loop.Handle

	onTick []func()
	onEnd  []func()
}

// New builds a simulation over a graph. Links are resolved against the graph's
// node set; nodes without a position are placed on a phyllotaxis spiral.
func New(graph *domain.Graph, cfg Config) *Simulation {
	cfg.ApplyDefaults()

	s := &Simulation{
		cfg:        cfg,
		alpha:      1,
		alphaDecay: cfg.AlphaDecay,
		state:      Idle,
		rng:        rand.New(rand.NewSource(cfg.Seed)),
	}
	if graph != nil {
		graph.ResolveLinks()
		s.nodes = graph.Nodes
		s.links = graph.Links
	}

	s.initializeNodes()

	s.forces = []Force{
		NewLinkForce(cfg.LinkDistance, cfg.LinkIterations),
		NewManyBodyForce(cfg.ChargeStrength),
		NewCenterForce(cfg.Width/2, cfg.Height/2, cfg.CenterStrength),
	}
	for _, force := range s.forces {
		force.Initialize(s.nodes, s.links, s.rng)
	}

	return s
}

func (s *Simulation) initializeNodes() {
	s.lastX = make([]float64, len(s.nodes))
	s.lastY = make([]float64, len(s.nodes))

	for i, node := range s.nodes {
		node.Index = i
		if node.FX != nil {
			node.X = *node.FX
		}
		if node.FY != nil {
			node.Y = *node.FY
		}
		if !node.Placed() || !node.Finite() {
			radius := initialRadius * math.Sqrt(0.5+float64(i))
			angle := float64(i) * initialAngle
			node.Place(radius*math.Cos(angle), radius*math.Sin(angle))
		}
		if math.IsNaN(node.VX) || math.IsNaN(node.VY) {
			node.VX, node.VY = 0, 0
		}
		s.lastX[i] = node.X
		s.lastY[i] = node.Y
	}
}

// Nodes returns the simulated nodes
func (s *Simulation) Nodes() []*domain.Node {
	return s.nodes
}

// Links returns all links, including unresolved ones
func (s *Simulation) Links() []*domain.Link {
	return s.links
}

// Config returns the constants in effect
func (s *Simulation) Config() Config {
	return s.cfg
}

// Alpha returns the current temperature
func (s *Simulation) Alpha() float64 {
	return s.alpha
}

// AlphaTarget returns the temperature alpha is moving towards
func (s *Simulation) AlphaTarget() float64 {
	return s.alphaTarget
}

// SetAlphaTarget sets the temperature alpha decays towards
func (s *Simulation) SetAlphaTarget(target float64) {
	if target < 0 || math.IsNaN(target) {
		target = 0
	}
	s.alphaTarget = target
}

// State returns the lifecycle phase
func (s *Simulation) State() State {
	return s.state
}

// Ticks returns the number of ticks computed so far
func (s *Simulation) Ticks() int {
	return s.ticks
}

// OnTick registers fn to run after every frame tick
func (s *Simulation) OnTick(fn func()) {
	s.onTick = append(s.onTick, fn)
}

// OnEnd registers fn to run when the simulation settles and stops
func (s *Simulation) OnEnd(fn func()) {
	s.onEnd = append(s.onEnd, fn)
}

// Start begins ticking once per frame of l. A graph without nodes stops
// immediately.
func (s *Simulation) Start(l *loop.Loop) {
	s.loop = l
	if len(s.nodes) == 0 {
		s.state = Stopped
		s.fireEnd()
		return
	}
	s.state = s.classify()
	if s.state == Stopped {
		s.state = Running
	}
	s.schedule()
}

// Restart resumes ticking after a stop or while cooling
func (s *Simulation) Restart() {
	if s.loop == nil || len(s.nodes) == 0 {
		return
	}
	s.state = Running
	s.schedule()
}

// Stop halts ticking. Alpha is kept so Restart continues where it left off.
func (s *Simulation) Stop() {
	s.frame.Cancel()
	s.frame = nil
	if s.state != Idle {
		s.state = Stopped
	}
}

func (s *Simulation) schedule() {
	if s.frame.Active() {
		return
	}
	s.frame = s.loop.EachFrame(func(time.Duration) bool {
		return s.step()
	})
}

// step runs one frame: a tick, the state transition and callbacks. It
// returns false once the simulation has stopped.
func (s *Simulation) step() bool {
	s.Tick()

	s.state = s.classify()
	for _, fn := range s.onTick {
		fn()
	}

	if s.state == Stopped {
		s.frame = nil
		s.fireEnd()
		return false
	}
	return true
}

func (s *Simulation) classify() State {
	if s.alphaTarget == 0 && s.alpha < s.cfg.StopThreshold {
		return Stopped
	}
	if s.alphaTarget > 0 || s.alpha >= s.cfg.CoolingThreshold {
		return Running
	}
	return Cooling
}

func (s *Simulation) fireEnd() {
	for _, fn := range s.onEnd {
		fn()
	}
}

// Tick advances the simulation by one step without touching the state
// machine or firing callbacks
func (s *Simulation) Tick() {
	s.ticks++
	s.alpha += (s.alphaTarget - s.alpha) * s.alphaDecay

	for _, force := range s.forces {
		force.Apply(s.alpha)
	}

	decay := 1 - s.cfg.VelocityDecay
	for i, node := range s.nodes {
		if node.FX == nil {
			node.VX *= decay
			node.X += node.VX
		} else {
			node.X = *node.FX
			node.VX = 0
		}
		if node.FY == nil {
			node.VY *= decay
			node.Y += node.VY
		} else {
			node.Y = *node.FY
			node.VY = 0
		}

		if !node.Finite() || math.IsNaN(node.VX) || math.IsNaN(node.VY) {
			node.X, node.Y = s.lastX[i], s.lastY[i]
			node.VX, node.VY = 0, 0
		}
		s.lastX[i] = node.X
		s.lastY[i] = node.Y
	}
}

// RunToCompletion ticks synchronously until the simulation would stop or
// maxTicks is reached, and returns the number of ticks run
func (s *Simulation) RunToCompletion(maxTicks int) int {
	if len(s.nodes) == 0 {
		s.state = Stopped
		return 0
	}

	n := 0
	for n < maxTicks {
		s.Tick()
		n++
		if s.classify() == Stopped {
			break
		}
	}

	s.state = s.classify()
	if s.state == Stopped {
		s.frame.Cancel()
		s.frame = nil
	}
	return n
}
