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

	"github.com/draycott/ingestkit/storage"
)

const (
	// DefaultBatchSize is the default number of entries to process in each batch
	DefaultBatchSize = 100
)

// EntryIterator iterates over all stored entries in batches.
type EntryIterator struct {
	source    storage.EntrySource
	batchSize int
}

// NewEntryIterator creates a new entry iterator.
// batchSize: number of entries in each batch (must be > 0)
func NewEntryIterator(source storage.EntrySource, batchSize int) *EntryIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &EntryIterator{
		source:    source,
		batchSize: batchSize,
	}
}

// ForEach iterates over all stored entries, calling fn for each batch.
// Iteration stops on the first error from fn or from the source.
// Context cancellation is checked between batches.
func (it *EntryIterator) ForEach(ctx context.Context, fn func([]*storage.Entry) error) error {
	batch := make([]*storage.Entry, 0, it.batchSize)

	for entry, err := range it.source.Entries(ctx) {
		if err != nil {
			return err
		}

		batch = append(batch, entry)
		if len(batch) < it.batchSize {
			continue
		}

		if err := fn(batch); err != nil {
			return err
		}
		batch = batch[:0]

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	if len(batch) > 0 {
		return fn(batch)
	}
	return nil
}
