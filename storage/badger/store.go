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


// Package badger implements a BadgerDB-backed VectorStore.
package badger

import (
	"context"
	"fmt"
	"iter"
	"strconv"

	"github.com/dgraph-io/badger/v4"

	"github.com/draycott/ingestkit/ai"
	"github.com/draycott/ingestkit/core"
	"github.com/draycott/ingestkit/storage"
)

// Store implements storage.VectorStore on top of BadgerDB.
type Store struct {
	backend  *Backend
	idSeq    *badger.Sequence
	embedder ai.Embedder
}

var (
	_ storage.VectorStore   = (*Store)(nil)
	_ storage.EntrySource   = (*Store)(nil)
	_ storage.VectorUpdater = (*Store)(nil)
)

// StoreOption configures a Store.
type StoreOption func(*Store) error

// WithEmbedder attaches an embedder so persisted chunks carry vectors.
// Without one, chunks are stored text-only.
func WithEmbedder(embedder ai.Embedder) StoreOption {
	return func(s *Store) error {
		s.embedder = embedder
		return nil
	}
}

// NewStore opens a BadgerDB-backed store at the given path.
//
// Returns storage.VectorStore interface to enforce abstraction.
func NewStore(path string, opts ...StoreOption) (storage.VectorStore, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	return newStore(backend, opts...)
}

func newStore(backend *Backend, opts ...StoreOption) (*Store, error) {
	idSeq, err := backend.GetSequence(chunkIDSeq)
	if err != nil {
		backend.Close()
		return nil, err
	}

	store := &Store{
		backend: backend,
		idSeq:   idSeq,
	}
	for _, opt := range opts {
		if err := opt(store); err != nil {
			idSeq.Release()
			backend.Close()
			return nil, err
		}
	}
	return store, nil
}

// AddDocuments persists the documents and returns their assigned IDs.
func (s *Store) AddDocuments(ctx context.Context, docs []core.Document) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.backend.IsClosed() {
		return nil, storage.ErrStoreClosed
	}

	var vectors [][]float32
	if s.embedder != nil && len(docs) > 0 {
		texts := make([]string, len(docs))
		for i, doc := range docs {
			texts[i] = doc.PageContent
		}
		var err error
		vectors, err = s.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embedding batch: %w", err)
		}
	}

	ids := make([]string, 0, len(docs))

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		for i, doc := range docs {
			nextID, err := s.idSeq.Next()
			if err != nil {
				return err
			}
			// BadgerDB sequences can return 0 on first call, so we skip it
			if nextID == 0 {
				nextID, err = s.idSeq.Next()
				if err != nil {
					return err
				}
			}

			entry := &storage.Entry{
				ID:       strconv.FormatUint(nextID, 10),
				Document: doc,
			}
			if vectors != nil {
				entry.Vector = vectors[i]
			}

			value, err := storage.MarshalEntry(entry)
			if err != nil {
				return err
			}
			if err := tx.Set(makeChunkKey(nextID), value); err != nil {
				return err
			}

			if ns := doc.Namespace(); ns != "" {
				nsKey := makeNamespaceKey(ns, nextID)
				if err := tx.Set(nsKey, []byte(entry.ID)); err != nil {
					return err
				}
			}

			ids = append(ids, entry.ID)
		}
		return tx.Commit()
	}, true)

	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Get retrieves a stored entry by ID.
func (s *Store) Get(ctx context.Context, id string) (*storage.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	numID, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return nil, storage.ErrNotFound
	}

	var entry *storage.Entry
	err = s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeChunkKey(numID))
		if err == badger.ErrKeyNotFound {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			entry, err = storage.UnmarshalEntry(val)
			return err
		})
	}, false)

	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ListNamespace retrieves all entries tagged with the given namespace,
// in insertion order.
func (s *Store) ListNamespace(ctx context.Context, namespace string) ([]*storage.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entries []*storage.Entry
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialNamespaceKey(namespace)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var id string
			err := iter.Item().Value(func(val []byte) error {
				id = string(val)
				return nil
			})
			if err != nil {
				return err
			}

			numID, err := strconv.ParseUint(id, 10, 64)
			if err != nil {
				continue
			}
			item, err := tx.Get(makeChunkKey(numID))
			if err == badger.ErrKeyNotFound {
				continue
			}
			if err != nil {
				return err
			}
			err = item.Value(func(val []byte) error {
				entry, err := storage.UnmarshalEntry(val)
				if err != nil {
					return err
				}
				entries = append(entries, entry)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Entries returns a lazy sequence over all stored entries.
func (s *Store) Entries(ctx context.Context) iter.Seq2[*storage.Entry, error] {
	return func(yield func(*storage.Entry, error) bool) {
		err := s.backend.WithTx(func(tx *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = []byte(chunkPrefix + ":")
			iterator := tx.NewIterator(opts)
			defer iterator.Close()

			for iterator.Rewind(); iterator.Valid(); iterator.Next() {
				if err := ctx.Err(); err != nil {
					return err
				}

				var entry *storage.Entry
				err := iterator.Item().Value(func(val []byte) error {
					var err error
					entry, err = storage.UnmarshalEntry(val)
					return err
				})
				if err != nil {
					return err
				}
				if !yield(entry, nil) {
					return nil
				}
			}
			return nil
		}, false)
		if err != nil {
			yield(nil, err)
		}
	}
}

// UpdateVector replaces the vector of the entry with the given ID.
func (s *Store) UpdateVector(ctx context.Context, id string, vector []float32) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	numID, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return storage.ErrNotFound
	}

	return s.backend.WithTx(func(tx *badger.Txn) error {
		key := makeChunkKey(numID)
		item, err := tx.Get(key)
		if err == badger.ErrKeyNotFound {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}

		var entry *storage.Entry
		if err := item.Value(func(val []byte) error {
			entry, err = storage.UnmarshalEntry(val)
			return err
		}); err != nil {
			return err
		}

		entry.Vector = vector
		value, err := storage.MarshalEntry(entry)
		if err != nil {
			return err
		}
		if err := tx.Set(key, value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Close releases the ID sequence and closes the database.
func (s *Store) Close() error {
	if err := s.idSeq.Release(); err != nil {
		s.backend.Close()
		return err
	}
	return s.backend.Close()
}
