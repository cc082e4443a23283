package scene

import "errors"

var (
	// ErrNoScene is returned when an operation needs a loaded graph
	ErrNoScene = errors.New("no scene loaded")
	// ErrUnknownNode is returned for node IDs that are not in the current scene
	ErrUnknownNode = errors.New("unknown node")
)
