package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draycott/ingestkit/core"
	"github.com/draycott/ingestkit/storage"
)

func TestAddDocuments(t *testing.T) {
	store := NewStore()
	defer store.Close()

	docs := []core.Document{
		core.NewDocument("first", map[string]any{core.MetadataKeyNamespace: "ns"}),
		core.NewDocument("second", nil),
	}

	ids, err := store.AddDocuments(context.Background(), docs)
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])

	stored := store.Documents()
	require.Len(t, stored, 2)
	assert.Equal(t, "first", stored[0].PageContent)
	assert.Equal(t, "ns", stored[0].Namespace())
	assert.Equal(t, []int{2}, store.BatchSizes())
}

func TestAddDocumentsStoresCopies(t *testing.T) {
	store := NewStore()
	defer store.Close()

	doc := core.NewDocument("text", map[string]any{core.MetadataKeySource: "a.txt"})
	_, err := store.AddDocuments(context.Background(), []core.Document{doc})
	require.NoError(t, err)

	doc.Metadata[core.MetadataKeySource] = "mutated"
	assert.Equal(t, "a.txt", store.Documents()[0].Metadata[core.MetadataKeySource])
}

func TestDuplicateContentKeptSeparate(t *testing.T) {
	store := NewStore()
	defer store.Close()

	doc := core.NewDocument("same text", nil)
	_, err := store.AddDocuments(context.Background(), []core.Document{doc})
	require.NoError(t, err)
	_, err = store.AddDocuments(context.Background(), []core.Document{doc})
	require.NoError(t, err)

	assert.Equal(t, 2, store.Len())
}

func TestAddAfterClose(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Close())

	_, err := store.AddDocuments(context.Background(), []core.Document{core.NewDocument("x", nil)})
	require.ErrorIs(t, err, storage.ErrStoreClosed)
}

func TestEntriesAndUpdateVector(t *testing.T) {
	store := NewStore()
	defer store.Close()

	ids, err := store.AddDocuments(context.Background(), []core.Document{
		core.NewDocument("a", nil),
		core.NewDocument("b", nil),
	})
	require.NoError(t, err)

	require.NoError(t, store.UpdateVector(context.Background(), ids[1], []float32{1, 0}))
	require.ErrorIs(t, store.UpdateVector(context.Background(), "missing", nil), storage.ErrNotFound)

	seen := map[string][]float32{}
	for entry, err := range store.Entries(context.Background()) {
		require.NoError(t, err)
		seen[entry.Document.PageContent] = entry.Vector
	}
	assert.Len(t, seen, 2)
	assert.Nil(t, seen["a"])
	assert.Equal(t, []float32{1, 0}, seen["b"])
}

func TestAddDocumentsCancelledContext(t *testing.T) {
	store := NewStore()
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.AddDocuments(ctx, []core.Document{core.NewDocument("x", nil)})
	require.ErrorIs(t, err, context.Canceled)
}
