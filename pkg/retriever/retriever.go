// Package retriever turns a natural-language question into the schema
// context text handed to the LLM engine, by querying the schema index for
// the nearest tables and concatenating their bodies.
package retriever

import (
	"context"
	"fmt"
	"strings"

	"github.com/sqlpilot/orchestrator/pkg/schemaindex"
)

// DefaultTopK is the number of schema documents retrieved per question when
// the caller does not override it.
const DefaultTopK = 5

// Index is the subset of schemaindex.Index the retriever depends on.
type Index interface {
	Query(ctx context.Context, text string, k int) ([]schemaindex.RetrievalHit, error)
}

// Retriever resolves a question to schema context text.
type Retriever struct {
	index Index
	topK  int
}

// New builds a Retriever over index, retrieving topK documents per
// question. A non-positive topK falls back to DefaultTopK.
func New(index Index, topK int) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{index: index, topK: topK}
}

// Retrieve returns the concatenated body text of the nearest schema
// documents to question, separated by blank lines, nearest first. An empty
// index yields an empty string rather than an error, so the pipeline can
// still attempt generation in a degraded mode.
func (r *Retriever) Retrieve(ctx context.Context, question string) (string, error) {
	hits, err := r.index.Query(ctx, question, r.topK)
	if err != nil {
		return "", fmt.Errorf("retriever: query: %w", err)
	}
	if len(hits) == 0 {
		return "", nil
	}

	bodies := make([]string, 0, len(hits))
	for _, h := range hits {
		bodies = append(bodies, strings.TrimSpace(h.Body))
	}
	return strings.Join(bodies, "\n\n"), nil
}
