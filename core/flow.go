package core

import (
	"context"

	"github.com/pkg/errors"
)

// Flow drives node activations along the edge graph until a node emits
// ActionDone with no matching edge. Flows implement Workflow themselves and
// can therefore appear as nodes inside larger flows.
type Flow[State any] struct {
	startNode  Workflow[State]
	successors map[Action]Workflow[State]
}

// NewFlow creates a new flow starting at the given workflow.
func NewFlow[State any](startNode Workflow[State]) *Flow[State] {
	return &Flow[State]{
		startNode:  startNode,
		successors: make(map[Action]Workflow[State]),
	}
}

// Run walks the graph: activate the current workflow, look up the edge for
// the returned action, continue at its target. There is no iteration bound;
// bounded retry loops are the responsibility of the nodes that create them.
//
// ActionDone with no registered edge ends the run cleanly. Any other action
// without an edge is a wiring bug and returns ErrNoRoute. Errors raised
// inside a node's phases propagate out unhandled.
func (f *Flow[State]) Run(ctx context.Context, state *State) (Action, error) {
	current := f.startNode
	if current == nil {
		return "", errors.Wrap(ErrNoRoute, "flow has no start node")
	}

	for {
		action, err := current.Run(ctx, state)
		if err != nil {
			return action, err
		}

		next := current.GetSuccessor(action)
		if next == nil {
			// Fall back to flow-level successors so a nested flow can
			// hand control back to its parent graph.
			next = f.GetSuccessor(action)
		}
		if next == nil {
			if action == ActionDone {
				return action, nil
			}
			return action, errors.Wrapf(ErrNoRoute, "action %q", action)
		}
		current = next
	}
}

// GetSuccessor returns the flow-level successor for an action, or nil.
func (f *Flow[State]) GetSuccessor(action Action) Workflow[State] {
	return f.successors[action]
}

// AddSuccessor connects a flow-level successor for an action. With no action
// given the default edge is used. Nil successors are ignored.
func (f *Flow[State]) AddSuccessor(successor Workflow[State], action ...Action) Workflow[State] {
	if f.successors == nil {
		f.successors = make(map[Action]Workflow[State])
	}
	if successor == nil {
		return successor
	}
	if len(action) == 0 {
		f.successors[ActionDefault] = successor
		return successor
	}
	f.successors[action[0]] = successor
	return successor
}
