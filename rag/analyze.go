package rag

import (
	"context"

	"github.com/pkg/errors"

	"github.com/cadforge/cadforge/core"
	"github.com/cadforge/cadforge/llm"
)

// AnalyzeNode classifies the incoming request so downstream prompts can be
// tuned to the query type.
type AnalyzeNode struct {
	provider llm.LLMProvider
}

func NewAnalyzeNode(provider llm.LLMProvider) *AnalyzeNode {
	return &AnalyzeNode{provider: provider}
}

func (n *AnalyzeNode) Name() string { return "analyze" }

func (n *AnalyzeNode) Prep(state *PipelineState) (string, error) {
	if state.Query == "" {
		return "", errors.Wrap(core.ErrMissingInput, "query")
	}
	return state.Query, nil
}

func (n *AnalyzeNode) Exec(ctx context.Context, query string) (string, error) {
	response, err := n.provider.CallLLM(ctx, []llm.Message{
		{Role: llm.RoleUser, Content: buildAnalyzePrompt(query)},
	})
	if err != nil {
		return "", err
	}
	return response.Content, nil
}

func (n *AnalyzeNode) Post(state *PipelineState, _ string, analysis string) (core.Action, error) {
	state.QueryType = analysis
	return core.ActionDefault, nil
}
