package rag

import (
	"context"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/cadforge/cadforge/core"
	"github.com/cadforge/cadforge/vectorstore"
)

// RetrieveNode performs the similarity search and assembles the reference
// context for generation. On the insufficient-context back-edge it runs
// again and overwrites Context and Sources.
type RetrieveNode struct {
	searcher vectorstore.Searcher
	topK     int
}

func NewRetrieveNode(searcher vectorstore.Searcher, topK int) *RetrieveNode {
	return &RetrieveNode{searcher: searcher, topK: topK}
}

func (n *RetrieveNode) Name() string { return "retrieve" }

func (n *RetrieveNode) Prep(state *PipelineState) (string, error) {
	if state.Query == "" {
		return "", errors.Wrap(core.ErrMissingInput, "query")
	}
	return state.Query, nil
}

func (n *RetrieveNode) Exec(ctx context.Context, query string) ([]vectorstore.Hit, error) {
	return n.searcher.Search(ctx, query, n.topK)
}

// Post records sources in the order the searcher returned them, then
// reorders the passages by ascending score so the most relevant passage
// ends up closest to the question in the final prompt.
func (n *RetrieveNode) Post(state *PipelineState, _ string, hits []vectorstore.Hit) (core.Action, error) {
	sources := make([]string, len(hits))
	for i, hit := range hits {
		sources[i] = hit.ID
	}

	ordered := make([]vectorstore.Hit, len(hits))
	copy(ordered, hits)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Score < ordered[j].Score
	})

	var builder strings.Builder
	builder.WriteString(basePreamble)
	for _, hit := range ordered {
		builder.WriteString("\n\n---\n\n")
		builder.WriteString(hit.Content)
	}

	state.Context = builder.String()
	state.Sources = sources
	return core.ActionDefault, nil
}
