package core

// Action represents the result of a node activation that determines flow control.
// Each node declares the closed set of actions it may emit.
type Action string

// Common actions
const (
	// ActionDefault is the normal/successful transition out of a node.
	ActionDefault Action = "default"

	// ActionDone explicitly terminates a flow run. It is the only action
	// that may legally have no registered successor.
	ActionDone Action = "done"
)
