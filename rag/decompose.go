package rag

import (
	"context"

	"github.com/pkg/errors"

	"github.com/cadforge/cadforge/core"
	"github.com/cadforge/cadforge/llm"
)

// DecomposeNode breaks a complex modeling request into ordered steps.
type DecomposeNode struct {
	provider llm.LLMProvider
}

func NewDecomposeNode(provider llm.LLMProvider) *DecomposeNode {
	return &DecomposeNode{provider: provider}
}

func (n *DecomposeNode) Name() string { return "decompose" }

func (n *DecomposeNode) Prep(state *PipelineState) (string, error) {
	if state.Query == "" {
		return "", errors.Wrap(core.ErrMissingInput, "query")
	}
	return state.Query, nil
}

func (n *DecomposeNode) Exec(ctx context.Context, query string) (string, error) {
	response, err := n.provider.CallLLM(ctx, []llm.Message{
		{Role: llm.RoleUser, Content: buildDecomposePrompt(query)},
	})
	if err != nil {
		return "", err
	}
	return response.Content, nil
}

func (n *DecomposeNode) Post(state *PipelineState, _ string, steps string) (core.Action, error) {
	state.TaskSteps = steps
	return core.ActionDefault, nil
}
