package core

import (
	"context"

	"github.com/pkg/errors"
)

// Node wraps a BaseNode with routing and exec-retry behavior and implements
// Workflow. A node activation (Prep -> Exec -> Post) is atomic from the
// Flow's perspective: no partial state writes are visible between phases.
type Node[State any, PrepResult any, ExecResult any] struct {
	node       BaseNode[State, PrepResult, ExecResult]
	maxRetries int
	successors map[Action]Workflow[State]
}

// NewNode creates a new node. maxRetries is the number of additional Exec
// attempts after the first one fails; Prep and Post are never retried.
func NewNode[State any, PrepResult any, ExecResult any](basenode BaseNode[State, PrepResult, ExecResult], maxRetries int) *Node[State, PrepResult, ExecResult] {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Node[State, PrepResult, ExecResult]{
		node:       basenode,
		maxRetries: maxRetries,
		successors: make(map[Action]Workflow[State]),
	}
}

// executeWithRetry handles the retry logic for the Exec phase.
func (n *Node[State, PrepResult, ExecResult]) executeWithRetry(ctx context.Context, input PrepResult) (ExecResult, error) {
	var execResult ExecResult
	var err error

	for i := 0; i < n.maxRetries+1; i++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return execResult, ctxErr
		}
		execResult, err = n.node.Exec(ctx, input)
		if err == nil {
			return execResult, nil
		}
	}
	return execResult, err
}

// Run implements the Workflow interface and drives the three-phase execution
// model strictly in order. Errors from any phase abort the activation and
// unwind to the flow's caller.
func (n *Node[State, PrepResult, ExecResult]) Run(ctx context.Context, state *State) (Action, error) {
	prepRes, err := n.node.Prep(state)
	if err != nil {
		return "", errors.Wrapf(err, "%s: prep", n.node.Name())
	}

	execRes, err := n.executeWithRetry(ctx, prepRes)
	if err != nil {
		return "", errors.Wrapf(err, "%s: exec", n.node.Name())
	}

	action, err := n.node.Post(state, prepRes, execRes)
	if err != nil {
		return "", errors.Wrapf(err, "%s: post", n.node.Name())
	}
	return action, nil
}

// SetMaxRetries updates the maximum Exec retry count.
func (n *Node[State, PrepResult, ExecResult]) SetMaxRetries(retries int) {
	if retries < 0 {
		retries = 0
	}
	n.maxRetries = retries
}

// AddSuccessor connects a successor workflow for an action. With no action
// given the default edge is used. Nil successors are ignored.
func (n *Node[State, PrepResult, ExecResult]) AddSuccessor(successor Workflow[State], action ...Action) Workflow[State] {
	if successor == nil {
		return successor
	}
	if len(action) == 0 {
		n.successors[ActionDefault] = successor
		return successor
	}
	n.successors[action[0]] = successor
	return successor
}

// GetSuccessor gets the next workflow for an action, or nil.
func (n *Node[State, PrepResult, ExecResult]) GetSuccessor(action Action) Workflow[State] {
	return n.successors[action]
}
