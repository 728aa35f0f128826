package rag

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/cadforge/cadforge/core"
	"github.com/cadforge/cadforge/llm"
	"github.com/cadforge/cadforge/vectorstore"
)

// ProviderFactory builds an LLM provider pinned to a temperature. The
// judgment nodes use 0 for deterministic verdicts, analysis and
// decomposition use low values, and generation uses the configured higher
// value for more varied attempts.
type ProviderFactory func(temperature float32) (llm.LLMProvider, error)

// NewPipeline wires the CadQuery flow:
//
//	analyze -> decompose -> retrieve -> evaluate -> generate -> verify -> save
//
// with evaluate looping back to retrieve on insufficient context and verify
// looping back to generate on invalid code.
func NewPipeline(config *Config, newProvider ProviderFactory, searcher vectorstore.Searcher) (*core.Flow[PipelineState], error) {
	analyzeLLM, err := newProvider(0.1)
	if err != nil {
		return nil, errors.Wrap(err, "analyze provider")
	}
	decomposeLLM, err := newProvider(0.3)
	if err != nil {
		return nil, errors.Wrap(err, "decompose provider")
	}
	judgeLLM, err := newProvider(0.0)
	if err != nil {
		return nil, errors.Wrap(err, "judgment provider")
	}
	generateLLM, err := newProvider(config.Generation.Temperature)
	if err != nil {
		return nil, errors.Wrap(err, "generation provider")
	}

	gate := !config.DisableJudgmentGating

	analyze := core.NewNode(NewAnalyzeNode(analyzeLLM), 0)
	decompose := core.NewNode(NewDecomposeNode(decomposeLLM), 0)
	retrieve := core.NewNode(NewRetrieveNode(searcher, config.Retrieval.TopK), 0)
	evaluate := core.NewNode(NewEvaluateNode(judgeLLM, config.Retrieval.MaxRetries, gate), 0)
	generate := core.NewNode(NewGenerateNode(generateLLM, config.Generation.GuidelinesPath), 0)
	verify := core.NewNode(NewVerifyNode(judgeLLM, config.Generation.MaxRetries, gate), 0)
	save := core.NewNode(NewSaveNode(config.NotebookPath), 0)

	analyze.AddSuccessor(decompose)
	decompose.AddSuccessor(retrieve)
	retrieve.AddSuccessor(evaluate)
	evaluate.AddSuccessor(generate)
	evaluate.AddSuccessor(retrieve, ActionInsufficientContext)
	generate.AddSuccessor(verify)
	verify.AddSuccessor(save)
	verify.AddSuccessor(generate, ActionInvalidCode)

	return core.NewFlow[PipelineState](analyze), nil
}

// Run executes the pipeline once for a query. Failures are logged and
// returned; the caller decides whether to continue. On failure no notebook
// entry has been written, since Save is the terminal node.
func Run(ctx context.Context, flow *core.Flow[PipelineState], query string) (*PipelineState, error) {
	runID := uuid.NewString()
	state := &PipelineState{Query: query}

	log.Printf("[run %s] starting pipeline", runID)
	if _, err := flow.Run(ctx, state); err != nil {
		log.Printf("[run %s] pipeline failed: %v", runID, err)
		return state, err
	}
	log.Printf("[run %s] pipeline complete, %d sources used", runID, len(state.Sources))
	return state, nil
}
