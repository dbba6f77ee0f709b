package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewStoreRejectsEmptyPath(t *testing.T) {
	_, err := NewStore("")
	require.Error(t, err)
}

func TestNewStoreCreatesDirectory(t *testing.T) {
	dir := t.TempDir() + "/nested/data"
	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, dir, store.Path())
}

func TestMigrationsAreIdempotent(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.AddDocument(context.Background(),
		"llm_corpus", "doc-1", "content", []float32{1, 0}, nil))
	require.NoError(t, store.Close())

	// Reopening must not re-run applied migrations or lose data.
	store, err = NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	count, err := store.VectorStore().Count(context.Background(), "llm_corpus")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAddDocumentUpserts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddDocument(ctx, "llm_corpus", "doc-1", "old", []float32{1, 0}, nil))
	require.NoError(t, store.AddDocument(ctx, "llm_corpus", "doc-1", "new", []float32{0, 1}, nil))

	count, err := store.VectorStore().Count(ctx, "llm_corpus")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	var content string
	require.NoError(t, store.db.QueryRow(
		"SELECT content FROM documents WHERE id = ?", "doc-1").Scan(&content))
	assert.Equal(t, "new", content)
}

func TestFloat32BlobRoundTrip(t *testing.T) {
	in := []float32{0, 1, -1, 0.5, 3.14159, -2.71828}
	assert.Equal(t, in, bytesToFloat32Slice(float32SliceToBytes(in)))
	assert.Nil(t, bytesToFloat32Slice(nil))
	assert.Empty(t, float32SliceToBytes(nil))
}
