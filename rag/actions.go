package rag

import "github.com/cadforge/cadforge/core"

// Transition labels for the pipeline's conditional edges. The success path
// uses core.ActionDefault and the terminal node emits core.ActionDone.
const (
	// ActionInsufficientContext loops Evaluate back to Retrieve.
	ActionInsufficientContext core.Action = "insufficient_context"

	// ActionInvalidCode loops Verify back to Generate.
	ActionInvalidCode core.Action = "invalid_code"
)
