// Package vectorstore provides semantic retrieval over a pgvector-backed
// document corpus, with OpenAI embeddings and an optional Redis cache in
// front of the embedding API.
package vectorstore

import "context"

// Hit is a single retrieved passage with its relevance score. Scores are
// cosine similarity in [0, 1]; higher is more relevant.
type Hit struct {
	ID      string
	Content string
	Score   float64
}

// Searcher retrieves the topK most relevant passages for a query. Results
// are ordered by descending relevance.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]Hit, error)
}

// Embedder converts text into a dense vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
