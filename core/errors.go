package core

import "github.com/pkg/errors"

// Sentinel errors for the failure taxonomy. Callers match them with errors.Is.
var (
	// ErrMissingInput is returned by a node's Prep phase when a required
	// state field has not been populated by an upstream node. Given a
	// correctly wired graph this is unreachable; it is never retried.
	ErrMissingInput = errors.New("required state field not populated")

	// ErrNoRoute is returned by Flow.Run when a node emits an action other
	// than ActionDone and no successor is registered for it. This is a
	// graph-wiring bug, not a legitimate termination.
	ErrNoRoute = errors.New("no successor registered for action")

	// ErrRetryBudget is returned when a bounded retry loop in the graph has
	// been re-entered more times than its configured budget allows.
	ErrRetryBudget = errors.New("retry budget exhausted")
)
