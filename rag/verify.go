package rag

import (
	"context"
	"log"
	"strings"

	"github.com/pkg/errors"

	"github.com/cadforge/cadforge/core"
	"github.com/cadforge/cadforge/llm"
	"github.com/cadforge/cadforge/metrics"
	"github.com/cadforge/cadforge/structured"
)

// CodeVerdict is the structured judgment Verify asks the model for.
type CodeVerdict struct {
	Verdict string `yaml:"verdict" description:"either \"valid\" or \"invalid\""`
	Issues  string `yaml:"issues" description:"problems found, or \"none\""`
}

// VerifyNode judges the generated code. When gating is on, an invalid
// verdict loops back to Generate until the retry budget runs out.
type VerifyNode struct {
	provider   llm.LLMProvider
	maxRetries int
	gate       bool
}

func NewVerifyNode(provider llm.LLMProvider, maxRetries int, gate bool) *VerifyNode {
	return &VerifyNode{provider: provider, maxRetries: maxRetries, gate: gate}
}

func (n *VerifyNode) Name() string { return "verify" }

func (n *VerifyNode) Prep(state *PipelineState) (string, error) {
	if state.CodeResponse == "" {
		return "", errors.Wrap(core.ErrMissingInput, "code_response")
	}
	return state.CodeResponse, nil
}

func (n *VerifyNode) Exec(ctx context.Context, code string) (string, error) {
	response, err := n.provider.CallLLM(ctx, []llm.Message{
		{Role: llm.RoleUser, Content: buildVerifyPrompt(code)},
	})
	if err != nil {
		return "", err
	}
	return response.Content, nil
}

func (n *VerifyNode) Post(state *PipelineState, _ string, verification string) (core.Action, error) {
	state.CodeVerification = verification

	if !n.gate {
		return core.ActionDefault, nil
	}

	verdict, err := structured.ParseResponse[CodeVerdict](verification)
	if err != nil {
		log.Printf("verify: unparseable verdict, proceeding: %v", err)
		return core.ActionDefault, nil
	}
	if !strings.EqualFold(strings.TrimSpace(verdict.Verdict), "invalid") {
		return core.ActionDefault, nil
	}

	if state.CodeRetries >= n.maxRetries {
		return "", errors.Wrapf(core.ErrRetryBudget,
			"code still invalid after %d generations: %s", state.CodeRetries+1, verdict.Issues)
	}
	state.CodeRetries++
	metrics.CodeRetries.Inc()
	log.Printf("verify: invalid code (%s), regenerating (%d/%d)",
		verdict.Issues, state.CodeRetries, n.maxRetries)
	return ActionInvalidCode, nil
}
