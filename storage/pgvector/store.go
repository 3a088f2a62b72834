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


// Package pgvector implements a Postgres/pgvector-backed VectorStore.
package pgvector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	pgv "github.com/pgvector/pgvector-go"

	"github.com/draycott/ingestkit/ai"
	"github.com/draycott/ingestkit/core"
	"github.com/draycott/ingestkit/storage"
)

// Config holds the connection and schema settings for the store.
type Config struct {
	// ConnString is the Postgres connection string.
	ConnString string

	// TableName is the table chunks are written to. Defaults to "chunks".
	TableName string

	// VectorDim is the embedding dimensionality. Defaults to 1536.
	VectorDim int
}

// Store implements storage.VectorStore on Postgres with the pgvector
// extension. Every chunk is embedded before insert.
type Store struct {
	config   Config
	pool     *pgxpool.Pool
	embedder ai.Embedder
	logger   *slog.Logger
}

var _ storage.VectorStore = (*Store)(nil)

// NewStore connects to Postgres, ensures the schema exists, and returns
// the store. The embedder is required: pgvector rows always carry a vector.
//
// Returns storage.VectorStore interface to enforce abstraction.
func NewStore(ctx context.Context, config Config, embedder ai.Embedder) (storage.VectorStore, error) {
	if embedder == nil {
		return nil, errors.New("pgvector store requires an embedder")
	}
	if config.ConnString == "" {
		return nil, errors.New("pgvector store requires a connection string")
	}
	if config.TableName == "" {
		config.TableName = "chunks"
	}
	if config.VectorDim == 0 {
		config.VectorDim = 1536
	}

	pool, err := pgxpool.New(ctx, config.ConnString)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	store := &Store{
		config:   config,
		pool:     pool,
		embedder: embedder,
		logger:   slog.Default().With("component", "pgvector-store"),
	}

	if err := store.initialize(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) initialize(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("creating vector extension: %w", err)
	}

	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			namespace TEXT NOT NULL,
			content TEXT,
			embedding vector(%d),
			metadata JSONB
		)`, s.config.TableName, s.config.VectorDim)
	if _, err := s.pool.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("creating table: %w", err)
	}

	createIndex := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS %s_embedding_idx
		ON %s
		USING ivfflat (embedding vector_cosine_ops)
		WITH (lists = 100)`,
		s.config.TableName, s.config.TableName)
	if _, err := s.pool.Exec(ctx, createIndex); err != nil {
		return fmt.Errorf("creating index: %w", err)
	}

	return nil
}

// AddDocuments embeds and inserts the documents in a single transaction.
func (s *Store) AddDocuments(ctx context.Context, docs []core.Document) ([]string, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.PageContent
	}
	vectors, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding batch: %w", err)
	}
	if len(vectors) != len(docs) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d documents", len(vectors), len(docs))
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	stmt := fmt.Sprintf(`
		INSERT INTO %s (id, namespace, content, embedding, metadata)
		VALUES ($1, $2, $3, $4, $5)`,
		s.config.TableName)

	ids := make([]string, 0, len(docs))
	for i, doc := range docs {
		id := uuid.NewString()

		metadata, err := json.Marshal(doc.Metadata)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", storage.ErrSerializationFailed, err)
		}

		_, err = tx.Exec(ctx, stmt,
			id,
			doc.Namespace(),
			doc.PageContent,
			pgv.NewVector(vectors[i]),
			metadata,
		)
		if err != nil {
			return nil, fmt.Errorf("inserting chunk: %w", err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	s.logger.Debug("stored chunk batch", "count", len(ids), "table", s.config.TableName)
	return ids, nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
