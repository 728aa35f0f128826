package rag

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadforge/cadforge/core"
	"github.com/cadforge/cadforge/llm"
	"github.com/cadforge/cadforge/notebook"
	"github.com/cadforge/cadforge/vectorstore"
)

// fakeSearcher returns fixed hits and counts searches.
type fakeSearcher struct {
	hits     []vectorstore.Hit
	searches int
}

func (f *fakeSearcher) Search(ctx context.Context, query string, topK int) ([]vectorstore.Hit, error) {
	f.searches++
	return f.hits, nil
}

func testConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		Retrieval:    RetrievalConfig{TopK: 3, MaxRetries: 2},
		Generation:   GenerationConfig{GuidelinesPath: "does-not-exist.md", MaxRetries: 2, Temperature: 0.6},
		NotebookPath: filepath.Join(t.TempDir(), "query", "result.ipynb"),
	}
}

func mockFactory(patterns map[string]string) ProviderFactory {
	return func(temperature float32) (llm.LLMProvider, error) {
		provider := llm.NewMockProvider("mock")
		provider.SetResponsePattern(patterns)
		return provider, nil
	}
}

func happyPatterns() map[string]string {
	return map[string]string{
		"analyze the type":               "simple creation query",
		"break down this cadquery task":  "1. create a cylinder\n2. hollow it out",
		"rate how relevant this context": "```yaml\nverdict: sufficient\nreason: passages cover the request\n```",
		"generate cadquery code":         "```python\nimport x\n```",
		"verify the validity":            "```yaml\nverdict: valid\nissues: none\n```",
	}
}

func TestPipelineEndToEnd(t *testing.T) {
	config := testConfig(t)
	searcher := &fakeSearcher{hits: []vectorstore.Hit{
		{ID: "doc-1", Content: "Use circle().extrude() to build cylinders.", Score: 0.8},
	}}

	flow, err := NewPipeline(config, mockFactory(happyPatterns()), searcher)
	require.NoError(t, err)

	state, err := Run(context.Background(), flow, "hollow cylinder")
	require.NoError(t, err)

	assert.Equal(t, "simple creation query", state.QueryType)
	assert.NotEmpty(t, state.TaskSteps)
	assert.Equal(t, []string{"doc-1"}, state.Sources)
	assert.Contains(t, state.Context, "Use circle().extrude()")
	assert.Equal(t, 1, searcher.searches)

	nb, recovered, err := notebook.Load(config.NotebookPath)
	require.NoError(t, err)
	assert.False(t, recovered)
	require.Len(t, nb.Cells, 1)

	source := strings.Join(nb.Cells[0].Source, "")
	assert.Equal(t, "###hollow cylinder\nimport x", source)
}

func TestPipelineAppendsAcrossRuns(t *testing.T) {
	config := testConfig(t)
	searcher := &fakeSearcher{hits: []vectorstore.Hit{{ID: "doc-1", Content: "passage", Score: 0.5}}}

	flow, err := NewPipeline(config, mockFactory(happyPatterns()), searcher)
	require.NoError(t, err)

	_, err = Run(context.Background(), flow, "first query")
	require.NoError(t, err)
	_, err = Run(context.Background(), flow, "second query")
	require.NoError(t, err)

	nb, _, err := notebook.Load(config.NotebookPath)
	require.NoError(t, err)
	require.Len(t, nb.Cells, 2)
	assert.Equal(t, "###first query\nimport x", strings.Join(nb.Cells[0].Source, ""))
	assert.Equal(t, "###second query\nimport x", strings.Join(nb.Cells[1].Source, ""))
}

func TestRetrieveOrdering(t *testing.T) {
	node := NewRetrieveNode(nil, 3)
	state := &PipelineState{Query: "q"}

	hits := []vectorstore.Hit{
		{ID: "docA", Content: "content-A", Score: 0.9},
		{ID: "docB", Content: "content-B", Score: 0.3},
		{ID: "docC", Content: "content-C", Score: 0.6},
	}

	action, err := node.Post(state, "q", hits)
	require.NoError(t, err)
	assert.Equal(t, core.ActionDefault, action)

	// Sources keep the searcher's order; the context reorders passages by
	// ascending score so the best one sits closest to the question.
	assert.Equal(t, []string{"docA", "docB", "docC"}, state.Sources)

	posA := strings.Index(state.Context, "content-A")
	posB := strings.Index(state.Context, "content-B")
	posC := strings.Index(state.Context, "content-C")
	require.True(t, posA >= 0 && posB >= 0 && posC >= 0)
	assert.Less(t, posB, posC)
	assert.Less(t, posC, posA)
	assert.Less(t, strings.Index(state.Context, "Example 1"), posB)
}

func TestInsufficientContextRetriesThenFails(t *testing.T) {
	config := testConfig(t)
	searcher := &fakeSearcher{hits: []vectorstore.Hit{{ID: "doc-1", Content: "irrelevant", Score: 0.1}}}

	patterns := happyPatterns()
	patterns["rate how relevant this context"] = "```yaml\nverdict: insufficient\nreason: nothing about cylinders\n```"

	flow, err := NewPipeline(config, mockFactory(patterns), searcher)
	require.NoError(t, err)

	_, err = Run(context.Background(), flow, "hollow cylinder")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrRetryBudget)
	assert.Equal(t, config.Retrieval.MaxRetries+1, searcher.searches)

	// Save was never reached, so no notebook exists.
	_, recovered, err := notebook.Load(config.NotebookPath)
	require.NoError(t, err)
	assert.False(t, recovered)
}

func TestInvalidCodeRetriesThenFails(t *testing.T) {
	config := testConfig(t)
	searcher := &fakeSearcher{hits: []vectorstore.Hit{{ID: "doc-1", Content: "passage", Score: 0.8}}}

	patterns := happyPatterns()
	patterns["verify the validity"] = "```yaml\nverdict: invalid\nissues: undefined variable\n```"

	flow, err := NewPipeline(config, mockFactory(patterns), searcher)
	require.NoError(t, err)

	state, err := Run(context.Background(), flow, "hollow cylinder")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrRetryBudget)
	assert.Equal(t, config.Generation.MaxRetries, state.CodeRetries)
}

func TestGatingDisabledTakesDefaultPath(t *testing.T) {
	config := testConfig(t)
	config.DisableJudgmentGating = true
	searcher := &fakeSearcher{hits: []vectorstore.Hit{{ID: "doc-1", Content: "irrelevant", Score: 0.1}}}

	patterns := happyPatterns()
	patterns["rate how relevant this context"] = "```yaml\nverdict: insufficient\nreason: nothing useful\n```"
	patterns["verify the validity"] = "```yaml\nverdict: invalid\nissues: broken\n```"

	flow, err := NewPipeline(config, mockFactory(patterns), searcher)
	require.NoError(t, err)

	state, err := Run(context.Background(), flow, "hollow cylinder")
	require.NoError(t, err)
	assert.Equal(t, 1, searcher.searches)
	assert.Zero(t, state.ContextRetries)
	assert.Zero(t, state.CodeRetries)

	nb, _, err := notebook.Load(config.NotebookPath)
	require.NoError(t, err)
	require.Len(t, nb.Cells, 1)
}

func TestUnparseableVerdictProceeds(t *testing.T) {
	config := testConfig(t)
	searcher := &fakeSearcher{hits: []vectorstore.Hit{{ID: "doc-1", Content: "passage", Score: 0.8}}}

	patterns := happyPatterns()
	patterns["rate how relevant this context"] = "Looks fine to me."

	flow, err := NewPipeline(config, mockFactory(patterns), searcher)
	require.NoError(t, err)

	state, err := Run(context.Background(), flow, "hollow cylinder")
	require.NoError(t, err)
	assert.Equal(t, "Looks fine to me.", state.ContextEvaluation)
}
