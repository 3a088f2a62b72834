package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/draycott/ingestkit/ai"
	"github.com/draycott/ingestkit/storage"
)

// BatchProcessor handles embedding generation for batches of stored entries.
type BatchProcessor struct {
	updater        storage.VectorUpdater
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(updater storage.VectorUpdater, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		updater:        updater,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process generates embeddings for a batch of entries and writes the
// new vectors back to the store. Vectors are normalized after embedding
// to ensure compatibility with cosine similarity.
func (bp *BatchProcessor) Process(ctx context.Context, entries []*storage.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	texts := make([]string, len(entries))
	for i, entry := range entries {
		texts[i] = entry.Document.PageContent
	}

	var vectors [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		vectors, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)

	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(vectors) != len(entries) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(entries), len(vectors))
	}

	for i, entry := range entries {
		vector := NormalizeVector(vectors[i])
		if err := bp.updater.UpdateVector(ctx, entry.ID, vector); err != nil {
			return fmt.Errorf("failed to update entry %s: %w", entry.ID, err)
		}
	}

	return nil
}
