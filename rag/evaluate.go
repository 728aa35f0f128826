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

// ContextVerdict is the structured judgment Evaluate asks the model for.
type ContextVerdict struct {
	Verdict string `yaml:"verdict" description:"either \"sufficient\" or \"insufficient\""`
	Reason  string `yaml:"reason" description:"one sentence explaining the rating"`
}

type evaluateInput struct {
	query   string
	context string
}

// EvaluateNode judges whether the retrieved context is relevant enough for
// generation. When gating is on, an insufficient verdict loops back to
// Retrieve until the retry budget runs out; the run then fails rather than
// looping forever.
type EvaluateNode struct {
	provider   llm.LLMProvider
	maxRetries int
	gate       bool
}

func NewEvaluateNode(provider llm.LLMProvider, maxRetries int, gate bool) *EvaluateNode {
	return &EvaluateNode{provider: provider, maxRetries: maxRetries, gate: gate}
}

func (n *EvaluateNode) Name() string { return "evaluate" }

func (n *EvaluateNode) Prep(state *PipelineState) (evaluateInput, error) {
	if state.Query == "" {
		return evaluateInput{}, errors.Wrap(core.ErrMissingInput, "query")
	}
	if state.Context == "" {
		return evaluateInput{}, errors.Wrap(core.ErrMissingInput, "context")
	}
	return evaluateInput{query: state.Query, context: state.Context}, nil
}

func (n *EvaluateNode) Exec(ctx context.Context, input evaluateInput) (string, error) {
	response, err := n.provider.CallLLM(ctx, []llm.Message{
		{Role: llm.RoleUser, Content: buildEvaluatePrompt(input.query, input.context)},
	})
	if err != nil {
		return "", err
	}
	return response.Content, nil
}

func (n *EvaluateNode) Post(state *PipelineState, _ evaluateInput, evaluation string) (core.Action, error) {
	state.ContextEvaluation = evaluation

	if !n.gate {
		return core.ActionDefault, nil
	}

	verdict, err := structured.ParseResponse[ContextVerdict](evaluation)
	if err != nil {
		log.Printf("evaluate: unparseable verdict, proceeding: %v", err)
		return core.ActionDefault, nil
	}
	if !strings.EqualFold(strings.TrimSpace(verdict.Verdict), "insufficient") {
		return core.ActionDefault, nil
	}

	if state.ContextRetries >= n.maxRetries {
		return "", errors.Wrapf(core.ErrRetryBudget,
			"context still insufficient after %d retrievals: %s", state.ContextRetries+1, verdict.Reason)
	}
	state.ContextRetries++
	metrics.ContextRetries.Inc()
	log.Printf("evaluate: insufficient context (%s), retrieving again (%d/%d)",
		verdict.Reason, state.ContextRetries, n.maxRetries)
	return ActionInsufficientContext, nil
}
