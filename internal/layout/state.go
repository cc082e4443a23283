package layout

import "fmt"

// State is the lifecycle phase of a simulation
type State int

const (
	// Idle: built but never started
	Idle State = iota
	// Running: alpha is high or a gesture holds alphaTarget above zero
	Running
	// Cooling: still ticking, movement is settling
	Cooling
	// Stopped: no further ticks until Restart
	Stopped
)

var stateNames = map[State]string{
	Idle:    "idle",
	Running: "running",
	Cooling: "cooling",
	Stopped: "stopped",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// MarshalText encodes the state by name
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Active reports whether the simulation is still producing ticks
func (s State) Active() bool {
	return s == Running || s == Cooling
}
