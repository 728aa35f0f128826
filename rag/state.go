// Package rag implements the CadQuery code-generation pipeline: a flow of
// nodes that analyze a request, retrieve reference passages from a vector
// store, generate CadQuery code with an LLM, judge the result, and persist
// it into a Jupyter notebook.
package rag

// PipelineState is the typed record threaded through a single pipeline run.
// Each field is written by exactly one node; the retry back-edges overwrite
// Context, Sources and CodeResponse on re-entry. Nothing is ever cleared.
type PipelineState struct {
	// Query is the original request, set once before the run.
	Query string

	QueryType         string
	TaskSteps         string
	Context           string
	Sources           []string
	ContextEvaluation string
	CodeResponse      string
	CodeVerification  string

	// Retry counters for the two back-edges. They only grow; when a
	// counter reaches its budget the corresponding judgment node fails
	// the run instead of looping again.
	ContextRetries int
	CodeRetries    int
}
