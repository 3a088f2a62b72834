package ingestion

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draycott/ingestkit/core"
	"github.com/draycott/ingestkit/parsers"
	"github.com/draycott/ingestkit/splitters"
	"github.com/draycott/ingestkit/storage"
	"github.com/draycott/ingestkit/storage/memory"
)

// stubParser yields a fixed set of documents, or an error.
type stubParser struct {
	docs []core.Document
	err  error
}

func (s *stubParser) Parse(ctx context.Context, blob core.Blob) iter.Seq2[core.Document, error] {
	return func(yield func(core.Document, error) bool) {
		if s.err != nil {
			yield(core.Document{}, s.err)
			return
		}
		for _, doc := range s.docs {
			if !yield(doc, nil) {
				return
			}
		}
	}
}

// identitySplitter returns each document as a single chunk.
type identitySplitter struct{}

func (identitySplitter) Split(doc core.Document) ([]core.Document, error) {
	return []core.Document{doc.Clone()}, nil
}

// fanoutSplitter returns n chunks per document.
type fanoutSplitter struct{ n int }

func (f fanoutSplitter) Split(doc core.Document) ([]core.Document, error) {
	chunks := make([]core.Document, f.n)
	for i := range chunks {
		chunks[i] = doc.Clone()
		chunks[i].PageContent = fmt.Sprintf("%s [%d]", doc.PageContent, i)
	}
	return chunks, nil
}

// failingStore fails every AddDocuments call.
type failingStore struct {
	calls int
	err   error
}

func (f *failingStore) AddDocuments(ctx context.Context, docs []core.Document) ([]string, error) {
	f.calls++
	return nil, f.err
}

func (f *failingStore) Close() error { return nil }

func makeDocs(n int) []core.Document {
	docs := make([]core.Document, n)
	for i := range docs {
		docs[i] = core.NewDocument(fmt.Sprintf("document %d", i), nil)
	}
	return docs
}

func textBlob(text string) core.Blob {
	return core.NewBlob([]byte(text), "input.txt", "text/plain")
}

func TestIngestBlobTrailingChunksAreFlushed(t *testing.T) {
	store := memory.NewStore()
	defer store.Close()

	parser := &stubParser{docs: makeDocs(7)}
	ids, err := IngestBlob(context.Background(), textBlob("x"), parser, identitySplitter{}, store, "ns", 3)
	require.NoError(t, err)

	assert.Len(t, ids, 7)
	assert.Equal(t, 7, store.Len())
	assert.Equal(t, []int{3, 3, 1}, store.BatchSizes())
}

func TestIngestBlobExactMultipleOfBatchSize(t *testing.T) {
	store := memory.NewStore()
	defer store.Close()

	parser := &stubParser{docs: makeDocs(9)}
	ids, err := IngestBlob(context.Background(), textBlob("x"), parser, identitySplitter{}, store, "ns", 3)
	require.NoError(t, err)

	assert.Len(t, ids, 9)
	assert.Equal(t, []int{3, 3, 3}, store.BatchSizes(), "an exact multiple needs exactly k writes")
}

func TestIngestBlobOversizedBufferFlushedWhole(t *testing.T) {
	store := memory.NewStore()
	defer store.Close()

	// 2 chunks per doc with batch size 3: the buffer passes the
	// threshold at 4 and is written in full.
	parser := &stubParser{docs: makeDocs(4)}
	ids, err := IngestBlob(context.Background(), textBlob("x"), parser, fanoutSplitter{n: 2}, store, "ns", 3)
	require.NoError(t, err)

	assert.Len(t, ids, 8)
	assert.Equal(t, []int{4, 4}, store.BatchSizes())
}

func TestIngestBlobTagsEveryChunkWithNamespace(t *testing.T) {
	store := memory.NewStore()
	defer store.Close()

	in := makeDocs(5)
	for i := range in {
		// A stale namespace carried by the parsed document must lose to
		// the namespace the caller ingests under.
		in[i].Metadata[core.MetadataKeyNamespace] = "stale"
	}

	parser := &stubParser{docs: in}
	_, err := IngestBlob(context.Background(), textBlob("x"), parser, fanoutSplitter{n: 3}, store, "tenant-a", 4)
	require.NoError(t, err)

	docs := store.Documents()
	require.Len(t, docs, 15)
	for _, doc := range docs {
		assert.Equal(t, "tenant-a", doc.Namespace())
	}
}

func TestIngestBlobEmptyNamespace(t *testing.T) {
	store := memory.NewStore()
	defer store.Close()

	parser := &stubParser{docs: makeDocs(3)}
	_, err := IngestBlob(context.Background(), textBlob("x"), parser, identitySplitter{}, store, "", 3)
	require.ErrorIs(t, err, core.ErrNamespaceRequired)
	assert.Zero(t, store.Len(), "validation failures must not reach the store")
}

func TestIngestBlobMissingCollaborators(t *testing.T) {
	store := memory.NewStore()
	defer store.Close()
	parser := &stubParser{docs: makeDocs(1)}

	_, err := IngestBlob(context.Background(), textBlob("x"), nil, identitySplitter{}, store, "ns", 3)
	require.ErrorIs(t, err, ErrParserRequired)

	_, err = IngestBlob(context.Background(), textBlob("x"), parser, nil, store, "ns", 3)
	require.ErrorIs(t, err, ErrSplitterRequired)

	_, err = IngestBlob(context.Background(), textBlob("x"), parser, identitySplitter{}, nil, "ns", 3)
	require.ErrorIs(t, err, ErrStoreRequired)
}

func TestIngestBlobDefaultBatchSize(t *testing.T) {
	store := memory.NewStore()
	defer store.Close()

	parser := &stubParser{docs: makeDocs(DefaultBatchSize + 5)}
	ids, err := IngestBlob(context.Background(), textBlob("x"), parser, identitySplitter{}, store, "ns", 0)
	require.NoError(t, err)

	assert.Len(t, ids, DefaultBatchSize+5)
	assert.Equal(t, []int{DefaultBatchSize, 5}, store.BatchSizes())
}

func TestIngestBlobStoreErrorAborts(t *testing.T) {
	storeErr := errors.New("disk full")
	store := &failingStore{err: storeErr}

	parser := &stubParser{docs: makeDocs(6)}
	_, err := IngestBlob(context.Background(), textBlob("x"), parser, identitySplitter{}, store, "ns", 3)
	require.ErrorIs(t, err, storeErr)
	assert.Equal(t, 1, store.calls, "ingestion stops at the first failed write")
}

func TestIngestBlobParserErrorPropagates(t *testing.T) {
	store := memory.NewStore()
	defer store.Close()

	parser := &stubParser{err: parsers.ErrNotPlainText}
	_, err := IngestBlob(context.Background(), textBlob("x"), parser, identitySplitter{}, store, "ns", 3)
	require.ErrorIs(t, err, parsers.ErrNotPlainText)
	assert.Zero(t, store.Len())
}

func TestIngestBlobReingestDoubles(t *testing.T) {
	store := memory.NewStore()
	defer store.Close()

	parser := &stubParser{docs: makeDocs(4)}
	for range 2 {
		_, err := IngestBlob(context.Background(), textBlob("x"), parser, identitySplitter{}, store, "ns", 10)
		require.NoError(t, err)
	}

	assert.Equal(t, 8, store.Len(), "identical content is stored again, not deduplicated")
}

func TestIngestBlobEndToEnd(t *testing.T) {
	store := memory.NewStore()
	defer store.Close()

	blob := textBlob("This is a test file.")
	splitter := splitters.NewRecursiveCharacter(splitters.DefaultChunkSize, splitters.DefaultChunkOverlap)

	ids, err := IngestBlob(context.Background(), blob, parsers.NewDefaultRegistry(), splitter, store, "test1", DefaultBatchSize)
	require.NoError(t, err)

	require.Len(t, ids, 1)
	docs := store.Documents()
	require.Len(t, docs, 1)
	assert.Equal(t, "This is a test file.", docs[0].PageContent)
	assert.Equal(t, "test1", docs[0].Namespace())
}

func TestPipelineIngest(t *testing.T) {
	store := memory.NewStore()
	defer store.Close()

	pipeline, err := NewPipeline(&stubParser{docs: makeDocs(5)}, identitySplitter{}, store, WithBatchSize(2))
	require.NoError(t, err)
	defer pipeline.Release()

	ids, err := pipeline.Ingest(context.Background(), textBlob("x"), "ns")
	require.NoError(t, err)
	assert.Len(t, ids, 5)
	assert.Equal(t, []int{2, 2, 1}, store.BatchSizes())
}

func TestPipelineIngestAsync(t *testing.T) {
	store := memory.NewStore()
	defer store.Close()

	pipeline, err := NewPipeline(&stubParser{docs: makeDocs(3)}, identitySplitter{}, store, WithPoolSize(2))
	require.NoError(t, err)
	defer pipeline.Release()

	var wg sync.WaitGroup
	wg.Add(1)

	var gotIDs []string
	var gotErr error
	err = pipeline.IngestAsync(context.Background(), textBlob("x"), "ns", func(ids []string, err error) {
		gotIDs = ids
		gotErr = err
		wg.Done()
	})
	require.NoError(t, err)

	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
	case <-time.After(5 * time.Second):
		t.Fatal("async ingestion did not complete")
	}

	require.NoError(t, gotErr)
	assert.Len(t, gotIDs, 3)
	assert.Equal(t, 3, store.Len())
}

func TestPipelineIngestAsyncMatchesSync(t *testing.T) {
	syncStore := memory.NewStore()
	defer syncStore.Close()
	asyncStore := memory.NewStore()
	defer asyncStore.Close()

	docs := makeDocs(7)

	syncPipeline, err := NewPipeline(&stubParser{docs: docs}, identitySplitter{}, syncStore, WithBatchSize(3))
	require.NoError(t, err)
	defer syncPipeline.Release()

	asyncPipeline, err := NewPipeline(&stubParser{docs: docs}, identitySplitter{}, asyncStore, WithBatchSize(3))
	require.NoError(t, err)
	defer asyncPipeline.Release()

	_, err = syncPipeline.Ingest(context.Background(), textBlob("x"), "ns")
	require.NoError(t, err)

	done := make(chan error, 1)
	err = asyncPipeline.IngestAsync(context.Background(), textBlob("x"), "ns", func(_ []string, err error) {
		done <- err
	})
	require.NoError(t, err)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("async ingestion did not complete")
	}

	assert.Equal(t, syncStore.BatchSizes(), asyncStore.BatchSizes(), "both paths share the batching logic")
}

func TestNewPipelineValidation(t *testing.T) {
	store := memory.NewStore()
	defer store.Close()
	parser := &stubParser{}

	_, err := NewPipeline(nil, identitySplitter{}, store)
	require.ErrorIs(t, err, ErrParserRequired)

	_, err = NewPipeline(parser, nil, store)
	require.ErrorIs(t, err, ErrSplitterRequired)

	_, err = NewPipeline(parser, identitySplitter{}, nil)
	require.ErrorIs(t, err, ErrStoreRequired)

	_, err = NewPipeline(parser, identitySplitter{}, store, WithBatchSize(0))
	require.ErrorIs(t, err, core.ErrInvalidBatchSize)
}

var _ storage.VectorStore = (*failingStore)(nil)
