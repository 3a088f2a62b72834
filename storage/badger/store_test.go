package badger

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draycott/ingestkit/ai/mock"
	"github.com/draycott/ingestkit/core"
	"github.com/draycott/ingestkit/storage"
)

func newTestStore(t *testing.T, opts ...StoreOption) *Store {
	t.Helper()
	store, err := NewMemoryStore(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAddAndGet(t *testing.T) {
	store := newTestStore(t)

	docs := []core.Document{
		core.NewDocument("first chunk", map[string]any{core.MetadataKeyNamespace: "ns1"}),
		core.NewDocument("second chunk", map[string]any{core.MetadataKeyNamespace: "ns1"}),
	}

	ids, err := store.AddDocuments(context.Background(), docs)
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])

	entry, err := store.Get(context.Background(), ids[0])
	require.NoError(t, err)
	assert.Equal(t, "first chunk", entry.Document.PageContent)
	assert.Equal(t, "ns1", entry.Document.Namespace())
}

func TestGetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "999999")
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = store.Get(context.Background(), "not-a-number")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestListNamespace(t *testing.T) {
	store := newTestStore(t)

	for _, ns := range []string{"alpha", "beta", "alpha"} {
		_, err := store.AddDocuments(context.Background(), []core.Document{
			core.NewDocument("text for "+ns, map[string]any{core.MetadataKeyNamespace: ns}),
		})
		require.NoError(t, err)
	}

	entries, err := store.ListNamespace(context.Background(), "alpha")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, entry := range entries {
		assert.Equal(t, "alpha", entry.Document.Namespace())
	}

	entries, err = store.ListNamespace(context.Background(), "gamma")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDuplicateContentKeptSeparate(t *testing.T) {
	store := newTestStore(t)

	doc := core.NewDocument("same text", map[string]any{core.MetadataKeyNamespace: "ns"})
	ids1, err := store.AddDocuments(context.Background(), []core.Document{doc})
	require.NoError(t, err)
	ids2, err := store.AddDocuments(context.Background(), []core.Document{doc})
	require.NoError(t, err)

	assert.NotEqual(t, ids1[0], ids2[0])

	entries, err := store.ListNamespace(context.Background(), "ns")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestAddDocumentsWithEmbedder(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	store := newTestStore(t, WithEmbedder(embedder))

	ids, err := store.AddDocuments(context.Background(), []core.Document{
		core.NewDocument("embed me", nil),
	})
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, 1, embedder.CallCount())

	entry, err := store.Get(context.Background(), ids[0])
	require.NoError(t, err)
	assert.NotEmpty(t, entry.Vector)
}

func TestEntries(t *testing.T) {
	store := newTestStore(t)

	for i := range 3 {
		_, err := store.AddDocuments(context.Background(), []core.Document{
			core.NewDocument(fmt.Sprintf("chunk %d", i), map[string]any{core.MetadataKeyNamespace: "ns"}),
		})
		require.NoError(t, err)
	}

	var contents []string
	for entry, err := range store.Entries(context.Background()) {
		require.NoError(t, err)
		contents = append(contents, entry.Document.PageContent)
	}
	assert.ElementsMatch(t, []string{"chunk 0", "chunk 1", "chunk 2"}, contents)
}

func TestEntriesEarlyBreak(t *testing.T) {
	store := newTestStore(t)

	_, err := store.AddDocuments(context.Background(), []core.Document{
		core.NewDocument("a", nil),
		core.NewDocument("b", nil),
	})
	require.NoError(t, err)

	count := 0
	for _, err := range store.Entries(context.Background()) {
		require.NoError(t, err)
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestUpdateVector(t *testing.T) {
	store := newTestStore(t)

	ids, err := store.AddDocuments(context.Background(), []core.Document{
		core.NewDocument("text", nil),
	})
	require.NoError(t, err)

	vector := []float32{0.1, 0.2, 0.3}
	require.NoError(t, store.UpdateVector(context.Background(), ids[0], vector))

	entry, err := store.Get(context.Background(), ids[0])
	require.NoError(t, err)
	assert.Equal(t, vector, entry.Vector)

	err = store.UpdateVector(context.Background(), "424242", vector)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAddDocumentsCancelledContext(t *testing.T) {
	store := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.AddDocuments(ctx, []core.Document{core.NewDocument("x", nil)})
	require.ErrorIs(t, err, context.Canceled)
}
