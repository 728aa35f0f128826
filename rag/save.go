package rag

import (
	"context"
	"log"
	"strings"

	"github.com/pkg/errors"

	"github.com/cadforge/cadforge/core"
	"github.com/cadforge/cadforge/notebook"
)

type saveInput struct {
	query string
	code  string
}

// SaveNode appends the generated code to the notebook document. This is the
// pipeline's only durable side effect; runs that fail earlier never touch
// the file.
type SaveNode struct {
	notebookPath string
}

func NewSaveNode(notebookPath string) *SaveNode {
	return &SaveNode{notebookPath: notebookPath}
}

func (n *SaveNode) Name() string { return "save" }

func (n *SaveNode) Prep(state *PipelineState) (saveInput, error) {
	if state.Query == "" {
		return saveInput{}, errors.Wrap(core.ErrMissingInput, "query")
	}
	if state.CodeResponse == "" {
		return saveInput{}, errors.Wrap(core.ErrMissingInput, "code_response")
	}
	return saveInput{query: state.Query, code: state.CodeResponse}, nil
}

func (n *SaveNode) Exec(ctx context.Context, input saveInput) (string, error) {
	code := strings.ReplaceAll(input.code, "```python", "")
	code = strings.ReplaceAll(code, "```", "")
	code = strings.TrimSpace(code)

	nb, _, err := notebook.Load(n.notebookPath)
	if err != nil {
		return "", err
	}
	nb.AppendCode(input.query, code)
	if err := nb.Save(n.notebookPath); err != nil {
		return "", err
	}
	return code, nil
}

func (n *SaveNode) Post(state *PipelineState, _ saveInput, _ string) (core.Action, error) {
	log.Printf("Response: %s\n\nSources: %v", state.CodeResponse, state.Sources)
	return core.ActionDone, nil
}
