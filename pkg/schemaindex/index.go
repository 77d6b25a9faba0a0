package schemaindex

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/qdrant/go-client/qdrant"
	"golang.org/x/sync/errgroup"

	"github.com/sqlpilot/orchestrator/pkg/catalog"
)

// payloadBodyKey is the payload field holding the document body text, so a
// query result can be rendered without a second round trip to the catalog.
const payloadBodyKey = "__body__"

// embedBatchSize bounds how many documents are embedded in one Embed call.
const embedBatchSize = 32

// Index is a Qdrant-backed store of SchemaDocument embeddings for one
// collection. It holds no catalog state of its own: Upsert and Reset always
// take the current document set from the caller.
type Index struct {
	client     *qdrant.Client
	embedder   Embedder
	collection string
}

// New binds an Index to an existing Qdrant client and collection name. The
// collection is not created until EnsureCollection or Reset runs.
func New(client *qdrant.Client, embedder Embedder, collection string) *Index {
	return &Index{client: client, embedder: embedder, collection: collection}
}

// EnsureCollection creates the backing collection with cosine distance if it
// does not already exist. Safe to call on every process start.
func (idx *Index) EnsureCollection(ctx context.Context) error {
	exists, err := idx.client.CollectionExists(ctx, idx.collection)
	if err != nil {
		return fmt.Errorf("schemaindex: check collection: %w", err)
	}
	if exists {
		return nil
	}

	err = idx.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: idx.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(idx.embedder.Dimensions()),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("schemaindex: create collection %s: %w", idx.collection, err)
	}
	return nil
}

// Reset drops the collection, if present, and recreates it empty. Used by
// the schema reindex endpoint when the catalog has changed shape.
func (idx *Index) Reset(ctx context.Context) error {
	exists, err := idx.client.CollectionExists(ctx, idx.collection)
	if err != nil {
		return fmt.Errorf("schemaindex: check collection: %w", err)
	}
	if exists {
		if err := idx.client.DeleteCollection(ctx, idx.collection); err != nil {
			return fmt.Errorf("schemaindex: delete collection %s: %w", idx.collection, err)
		}
	}
	return idx.EnsureCollection(ctx)
}

// Count returns the number of points currently stored in the collection.
func (idx *Index) Count(ctx context.Context) (int, error) {
	count, err := idx.client.Count(ctx, &qdrant.CountPoints{CollectionName: idx.collection})
	if err != nil {
		return 0, fmt.Errorf("schemaindex: count: %w", err)
	}
	return int(count), nil
}

// Upsert embeds and stores every document, replacing any existing point with
// the same ID. Documents are embedded in batches of embedBatchSize.
// upsertConcurrency bounds how many embed-and-upsert batches run at once,
// since each batch makes its own round trip to the embedding endpoint and
// to Qdrant.
const upsertConcurrency = 4

func (idx *Index) Upsert(ctx context.Context, docs []catalog.SchemaDocument) error {
	if len(docs) == 0 {
		return nil
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(upsertConcurrency)

	for start := 0; start < len(docs); start += embedBatchSize {
		end := min(start+embedBatchSize, len(docs))
		batch := docs[start:end]

		group.Go(func() error {
			return idx.upsertBatch(groupCtx, batch)
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	slog.Info("schema index upsert complete", "collection", idx.collection, "documents", len(docs))
	return nil
}

func (idx *Index) upsertBatch(ctx context.Context, batch []catalog.SchemaDocument) error {
	bodies := make([]string, len(batch))
	for i, d := range batch {
		bodies[i] = d.Body
	}

	vectors, err := idx.embedder.Embed(ctx, bodies)
	if err != nil {
		return fmt.Errorf("schemaindex: embed batch: %w", err)
	}
	if len(vectors) != len(batch) {
		return fmt.Errorf("schemaindex: embedder returned %d vectors for %d documents", len(vectors), len(batch))
	}

	points := make([]*qdrant.PointStruct, len(batch))
	for i, d := range batch {
		payload, err := qdrant.TryValueMap(map[string]any{
			"table_name":    d.Metadata.TableName,
			"table_comment": d.Metadata.TableComment,
			"column_count":  d.Metadata.ColumnCount,
		})
		if err != nil {
			return fmt.Errorf("schemaindex: build payload for %s: %w", d.ID, err)
		}
		bodyValue, err := qdrant.NewValue(d.Body)
		if err != nil {
			return fmt.Errorf("schemaindex: build body value for %s: %w", d.ID, err)
		}
		payload[payloadBodyKey] = bodyValue

		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(stableID(d.ID)),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: payload,
		}
	}

	_, err = idx.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: idx.collection,
		Points:         points,
		Wait:           boolPtr(true),
	})
	if err != nil {
		return fmt.Errorf("schemaindex: upsert batch: %w", err)
	}
	return nil
}

// Query embeds text and returns the k nearest documents by cosine distance,
// ordered nearest-first. k is clamped to the collection's current size; an
// empty collection returns no hits without contacting the embedder twice.
func (idx *Index) Query(ctx context.Context, text string, k int) ([]RetrievalHit, error) {
	count, err := idx.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 || k <= 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	vectors, err := idx.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("schemaindex: embed query: %w", err)
	}

	points, err := idx.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: idx.collection,
		Query:          qdrant.NewQuery(vectors[0]...),
		Limit:          uint64Ptr(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("schemaindex: query: %w", err)
	}

	hits := make([]RetrievalHit, 0, len(points))
	for _, p := range points {
		hit := RetrievalHit{Distance: p.GetScore()}
		if payload := p.GetPayload(); payload != nil {
			if tn, ok := payload["table_name"]; ok {
				hit.TableName = tn.GetStringValue()
			}
			if body, ok := payload[payloadBodyKey]; ok {
				hit.Body = body.GetStringValue()
			}
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// stableID derives a deterministic uint64 point ID from a table name so
// re-extracting the same catalog always overwrites the same points instead
// of accumulating duplicates.
func stableID(name string) uint64 {
	var h uint64 = 14695981039346656037
	for i := 0; i < len(name); i++ {
		h ^= uint64(name[i])
		h *= 1099511628211
	}
	return h
}

func boolPtr(b bool) *bool       { return &b }
func uint64Ptr(v uint64) *uint64 { return &v }
