// Copyright 2026 Draycott Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reembed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/draycott/ingestkit/ai"
	"github.com/draycott/ingestkit/storage"
)

// ChunkStore is the storage surface re-embedding needs: scanning all
// entries and writing vectors back.
type ChunkStore interface {
	storage.EntrySource
	storage.VectorUpdater
}

// Config holds configuration for the re-embedding operation.
type Config struct {
	// BatchSize is the number of entries to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of entries)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder orchestrates the re-embedding of all chunks in a store.
type Reembedder struct {
	store     ChunkStore
	embedder  ai.Embedder
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	iterator  *EntryIterator
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(store ChunkStore, embedder ai.Embedder, config *Config, progress io.Writer) *Reembedder {
	if config == nil {
		config = DefaultConfig()
	}

	return &Reembedder{
		store:     store,
		embedder:  embedder,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(store, embedder, config.MaxRetries, config.RetryDelay),
		iterator:  NewEntryIterator(store, config.BatchSize),
	}
}

// Run executes the re-embedding operation. Every chunk in the store is
// embedded with the configured embedder and its vector rewritten.
// Progress is reported to the configured writer.
func (r *Reembedder) Run(ctx context.Context) error {
	totalChunks := 0
	for _, err := range r.store.Entries(ctx) {
		if err != nil {
			return fmt.Errorf("failed to scan store: %w", err)
		}
		totalChunks++
	}

	if totalChunks == 0 {
		fmt.Fprintf(r.progress, "No chunks found in store (0 chunks)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting re-embedding of %d chunks (batch size: %d)\n",
		totalChunks, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, totalChunks, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	err := r.iterator.ForEach(ctx, func(entries []*storage.Entry) error {
		if err := r.processor.Process(ctx, entries); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}

		processed += len(entries)
		tracker.Update(processed)
		return nil
	})
	if err != nil {
		return err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Re-embedding complete. Processed %d chunks in %v (%.1f chunks/sec)\n",
		totalChunks, elapsed.Round(time.Second), float64(totalChunks)/elapsed.Seconds())

	return nil
}
