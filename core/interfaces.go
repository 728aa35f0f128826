package core

import "context"

// BaseNode defines the core interface for all nodes in the workflow.
// This follows the three-phase execution model: Prep -> Exec -> Post.
type BaseNode[State any, PrepResult any, ExecResult any] interface {
	// Name identifies the node in logs and error messages.
	Name() string

	// Prep extracts the inputs Exec needs from shared state. It performs no
	// external calls and fails only when a required field is absent, in
	// which case it returns an error wrapping ErrMissingInput.
	Prep(state *State) (PrepResult, error)

	// Exec performs the node's effect, usually an external call. It is the
	// only phase allowed to fail due to a collaborator error and the only
	// phase the node-level retry policy re-invokes. It must not touch
	// shared state.
	Exec(ctx context.Context, prepResult PrepResult) (ExecResult, error)

	// Post writes results back into shared state and returns the action
	// naming the next edge to follow.
	Post(state *State, prepResult PrepResult, execResult ExecResult) (Action, error)
}

// Workflow represents a unit of execution that can be connected to other
// workflows. Both Node and Flow implement it, so flows compose.
type Workflow[State any] interface {
	// Run executes the workflow logic and returns an action for routing.
	// Any error from the three phases propagates out unhandled.
	Run(ctx context.Context, state *State) (Action, error)

	// GetSuccessor returns the successor workflow for a given action.
	GetSuccessor(action Action) Workflow[State]

	// AddSuccessor connects a successor workflow for a specific action.
	// With no action given the default edge is used.
	AddSuccessor(successor Workflow[State], action ...Action) Workflow[State]
}
