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


package ingestion

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/panjf2000/ants/v2"

	"github.com/draycott/ingestkit/core"
	"github.com/draycott/ingestkit/parsers"
	"github.com/draycott/ingestkit/splitters"
	"github.com/draycott/ingestkit/storage"
)

// Pipeline binds a parser, splitter, and store together and runs blob
// ingestion over them, synchronously or on a worker pool.
type Pipeline struct {
	parser    parsers.Parser
	splitter  splitters.Splitter
	store     storage.VectorStore
	pool      *ants.Pool
	batchSize int
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for asynchronous ingestion.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithBatchSize sets the number of chunks buffered before a store write.
// Default is DefaultBatchSize.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if err := core.ValidateBatchSize(size); err != nil {
			return err
		}
		p.batchSize = size
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates an ingestion pipeline over the given collaborators.
func NewPipeline(
	parser parsers.Parser,
	splitter splitters.Splitter,
	store storage.VectorStore,
	opts ...Option,
) (*Pipeline, error) {
	if parser == nil {
		return nil, ErrParserRequired
	}
	if splitter == nil {
		return nil, ErrSplitterRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		parser:    parser,
		splitter:  splitter,
		store:     store,
		pool:      pool,
		batchSize: DefaultBatchSize,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Ingest runs blob ingestion synchronously and returns the stored chunk IDs.
func (p *Pipeline) Ingest(ctx context.Context, blob core.Blob, namespace string) ([]string, error) {
	return IngestBlob(ctx, blob, p.parser, p.splitter, p.store, namespace, p.batchSize)
}

// IngestAsync submits blob ingestion to the worker pool. The done
// callback, if non-nil, receives the stored chunk IDs or the error.
// With a nil callback, failures are logged instead.
func (p *Pipeline) IngestAsync(ctx context.Context, blob core.Blob, namespace string, done func([]string, error)) error {
	return p.pool.Submit(func() {
		ids, err := p.Ingest(ctx, blob, namespace)
		if done != nil {
			done(ids, err)
			return
		}
		if err != nil {
			p.logger.Error("error ingesting blob", "source", blob.Filename(), "namespace", namespace, "err", err)
		}
	})
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
