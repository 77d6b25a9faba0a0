package retriever

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlpilot/orchestrator/pkg/schemaindex"
)

type fakeIndex struct {
	hits []schemaindex.RetrievalHit
	err  error
	gotK int
}

func (f *fakeIndex) Query(_ context.Context, _ string, k int) ([]schemaindex.RetrievalHit, error) {
	f.gotK = k
	return f.hits, f.err
}

func TestRetrieve_ConcatenatesBodiesNearestFirst(t *testing.T) {
	idx := &fakeIndex{hits: []schemaindex.RetrievalHit{
		{TableName: "orders", Body: "Table orders\n"},
		{TableName: "users", Body: "Table users\n"},
	}}
	r := New(idx, 5)

	ctx, err := r.Retrieve(context.Background(), "who placed the most orders")
	require.NoError(t, err)
	assert.Equal(t, "Table orders\n\nTable users", ctx)
	assert.Equal(t, 5, idx.gotK)
}

func TestRetrieve_EmptyIndexYieldsEmptyContext(t *testing.T) {
	idx := &fakeIndex{hits: nil}
	r := New(idx, 5)

	out, err := r.Retrieve(context.Background(), "anything")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRetrieve_DefaultsTopK(t *testing.T) {
	idx := &fakeIndex{}
	r := New(idx, 0)

	_, _ = r.Retrieve(context.Background(), "x")
	assert.Equal(t, DefaultTopK, idx.gotK)
}

func TestRetrieve_PropagatesQueryError(t *testing.T) {
	idx := &fakeIndex{err: errors.New("qdrant down")}
	r := New(idx, 5)

	_, err := r.Retrieve(context.Background(), "x")
	assert.Error(t, err)
}
