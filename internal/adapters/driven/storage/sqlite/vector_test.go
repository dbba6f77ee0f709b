package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/linuxrag/internal/core/domain"
	"github.com/custodia-labs/linuxrag/internal/core/ports/driven"
)

func seedCorpus(t *testing.T, store *Store) {
	t.Helper()
	ctx := context.Background()
	docs := []struct {
		id        string
		content   string
		embedding []float32
		metadata  map[string]any
	}{
		{"d1", "kernel passage", []float32{1, 0}, map[string]any{"source": "kernel.md"}},
		{"d2", "kernel duplicate", []float32{1, 0}, map[string]any{"source": "kernel-copy.md"}},
		{"d3", "license passage", []float32{0.6, 0.8}, nil},
	}
	for _, d := range docs {
		require.NoError(t, store.AddDocument(ctx, "llm_corpus", d.id, d.content, d.embedding, d.metadata))
	}
}

func TestRetrieveStrictMissingCollection(t *testing.T) {
	store := newTestStore(t)
	seedCorpus(t, store)
	v := store.VectorStore()

	_, err := v.Retrieve(context.Background(), []float32{1, 0}, driven.RetrieveOptions{
		Collection: "nope",
		K:          4,
		Policy:     driven.CollectionStrict,
	})

	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "nope", notFound.Collection)
	assert.Equal(t, store.Path(), notFound.Path)
	assert.Equal(t, []string{"llm_corpus"}, notFound.Available)
}

func TestRetrievePermissiveAutoCreates(t *testing.T) {
	store := newTestStore(t)
	v := store.VectorStore()
	ctx := context.Background()

	docs, err := v.Retrieve(ctx, []float32{1, 0}, driven.RetrieveOptions{
		Collection: "fresh",
		K:          4,
		Policy:     driven.CollectionPermissive,
	})
	require.NoError(t, err)
	assert.Empty(t, docs)

	infos, err := v.Collections(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "fresh", infos[0].Name)
	assert.Zero(t, infos[0].Count)
}

func TestRetrieveEmptyCollectionIsNotAnError(t *testing.T) {
	store := newTestStore(t)
	_, err := store.createCollection(context.Background(), "llm_corpus")
	require.NoError(t, err)

	docs, err := store.VectorStore().Retrieve(context.Background(), []float32{1, 0},
		driven.RetrieveOptions{Collection: "llm_corpus", K: 4})
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestRetrievePureRelevanceOrder(t *testing.T) {
	store := newTestStore(t)
	seedCorpus(t, store)

	// Lambda 1 reduces to plain nearest-neighbour order.
	docs, err := store.VectorStore().Retrieve(context.Background(), []float32{1, 0},
		driven.RetrieveOptions{Collection: "llm_corpus", K: 2, FetchK: 3, Lambda: 1})
	require.NoError(t, err)

	require.Len(t, docs, 2)
	for _, d := range docs {
		assert.NotEqual(t, "license passage", d.Content)
	}
}

func TestRetrieveDiversitySelection(t *testing.T) {
	store := newTestStore(t)
	seedCorpus(t, store)

	// Lambda 0 maximises diversity: the second pick must not be the
	// near-duplicate of the first.
	docs, err := store.VectorStore().Retrieve(context.Background(), []float32{1, 0},
		driven.RetrieveOptions{Collection: "llm_corpus", K: 2, FetchK: 3, Lambda: 0})
	require.NoError(t, err)

	require.Len(t, docs, 2)
	assert.Equal(t, "license passage", docs[1].Content)
}

func TestRetrieveBackfillsIDMetadata(t *testing.T) {
	store := newTestStore(t)
	seedCorpus(t, store)

	docs, err := store.VectorStore().Retrieve(context.Background(), []float32{0.6, 0.8},
		driven.RetrieveOptions{Collection: "llm_corpus", K: 1, Lambda: 1})
	require.NoError(t, err)

	require.Len(t, docs, 1)
	assert.Equal(t, "license passage", docs[0].Content)
	assert.Equal(t, "d3", docs[0].Metadata[domain.MetaID])
}

func TestRetrieveKeepsExplicitIDMetadata(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.AddDocument(context.Background(), "llm_corpus",
		"row-1", "passage", []float32{1, 0}, map[string]any{"id": "logical-id"}))

	docs, err := store.VectorStore().Retrieve(context.Background(), []float32{1, 0},
		driven.RetrieveOptions{Collection: "llm_corpus", K: 1, Lambda: 1})
	require.NoError(t, err)

	require.Len(t, docs, 1)
	assert.Equal(t, "logical-id", docs[0].Metadata[domain.MetaID])
}

func TestRetrieveClampsKToCorpusSize(t *testing.T) {
	store := newTestStore(t)
	seedCorpus(t, store)

	docs, err := store.VectorStore().Retrieve(context.Background(), []float32{1, 0},
		driven.RetrieveOptions{Collection: "llm_corpus", K: 12, FetchK: 30, Lambda: 0.5})
	require.NoError(t, err)
	assert.Len(t, docs, 3)
}

func TestCollectionsInventory(t *testing.T) {
	store := newTestStore(t)
	seedCorpus(t, store)
	ctx := context.Background()
	_, err := store.createCollection(ctx, "empty")
	require.NoError(t, err)

	infos, err := store.VectorStore().Collections(ctx)
	require.NoError(t, err)

	assert.Equal(t, []driven.CollectionInfo{
		{Name: "empty", Count: 0},
		{Name: "llm_corpus", Count: 3},
	}, infos)
}

func TestCountMissingCollection(t *testing.T) {
	store := newTestStore(t)

	count, err := store.VectorStore().Count(context.Background(), "nope")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSelectMMRBounds(t *testing.T) {
	pool := []candidate{
		{embedding: []float32{1, 0}, similarity: 1},
		{embedding: []float32{0, 1}, similarity: 0.5},
	}
	assert.Len(t, selectMMR([]float32{1, 0}, pool, 5, 0.5), 2)
	assert.Empty(t, selectMMR([]float32{1, 0}, pool, 0, 0.5))
	assert.Empty(t, selectMMR([]float32{1, 0}, pool, -1, 0.5))
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1, cosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)

	// Degenerate inputs score zero instead of failing.
	assert.Zero(t, cosineSimilarity([]float32{1, 0}, []float32{1}))
	assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{1, 0}))
	assert.Zero(t, cosineSimilarity(nil, nil))
}
