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


// Package memory provides an in-memory VectorStore used in tests and
// as a lightweight default backend.
package memory

import (
	"context"
	"iter"
	"sync"

	"github.com/google/uuid"

	"github.com/draycott/ingestkit/core"
	"github.com/draycott/ingestkit/storage"
)

// Store keeps all entries in process memory. Safe for concurrent use.
type Store struct {
	mu         sync.Mutex
	entries    []storage.Entry
	batchSizes []int
	closed     bool
}

var (
	_ storage.VectorStore   = (*Store)(nil)
	_ storage.EntrySource   = (*Store)(nil)
	_ storage.VectorUpdater = (*Store)(nil)
)

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{}
}

// AddDocuments stores the documents and returns generated UUIDs.
func (s *Store) AddDocuments(ctx context.Context, docs []core.Document) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, storage.ErrStoreClosed
	}

	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		id := uuid.NewString()
		s.entries = append(s.entries, storage.Entry{
			ID:       id,
			Document: doc.Clone(),
		})
		ids = append(ids, id)
	}
	s.batchSizes = append(s.batchSizes, len(docs))

	return ids, nil
}

// Close marks the store as closed. Subsequent writes fail.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Entries returns a lazy sequence over snapshots of all stored entries.
func (s *Store) Entries(ctx context.Context) iter.Seq2[*storage.Entry, error] {
	s.mu.Lock()
	snapshot := make([]storage.Entry, len(s.entries))
	copy(snapshot, s.entries)
	s.mu.Unlock()

	return func(yield func(*storage.Entry, error) bool) {
		for i := range snapshot {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			entry := snapshot[i]
			entry.Document = entry.Document.Clone()
			if !yield(&entry, nil) {
				return
			}
		}
	}
}

// UpdateVector replaces the vector of the entry with the given ID.
func (s *Store) UpdateVector(ctx context.Context, id string, vector []float32) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrStoreClosed
	}
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries[i].Vector = vector
			return nil
		}
	}
	return storage.ErrNotFound
}

// Documents returns a snapshot of all stored documents in insertion order.
func (s *Store) Documents() []core.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := make([]core.Document, 0, len(s.entries))
	for _, entry := range s.entries {
		docs = append(docs, entry.Document.Clone())
	}
	return docs
}

// Len returns the number of stored documents.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// BatchSizes returns the size of each AddDocuments call in order.
func (s *Store) BatchSizes() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	sizes := make([]int, len(s.batchSizes))
	copy(sizes, s.batchSizes)
	return sizes
}
