// Package schemaindex stores schema documents in a Qdrant collection and
// retrieves the nearest ones to a natural-language question by cosine
// distance over an embedding vector.
package schemaindex

import "context"

// Embedder turns text into a dense vector. The LLM engine package provides
// the concrete implementation backed by an OpenAI-compatible endpoint; the
// index only depends on this interface so it never imports llmengine.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
}

// RetrievalHit is one scored result of a schema index query.
type RetrievalHit struct {
	TableName string
	Body      string
	Distance  float32
}
