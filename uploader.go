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


package ingestkit

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/draycott/ingestkit/core"
	"github.com/draycott/ingestkit/ingestion"
	"github.com/draycott/ingestkit/parsers"
	"github.com/draycott/ingestkit/splitters"
	"github.com/draycott/ingestkit/storage"
)

// ErrInvalidPayload indicates that the input payload could not be decoded.
var ErrInvalidPayload = errors.New("invalid payload")

// IngestionInput is the request payload for document ingestion.
type IngestionInput struct {
	// Base64File is the document content, standard base64 encoded.
	Base64File string `json:"base64_file"`

	// Filename is the original file name, used for source metadata.
	Filename string `json:"filename,omitempty"`
}

// IngestionOutput is the response payload for document ingestion.
type IngestionOutput struct {
	Success bool `json:"success"`
}

// Uploader decodes incoming payloads and runs them through the
// ingestion pipeline into a vector store under a fixed namespace.
type Uploader struct {
	registry  *parsers.Registry
	splitter  splitters.Splitter
	store     storage.VectorStore
	namespace string
	batchSize int
	poolSize  int
	pipeline  *ingestion.Pipeline
	logger    *slog.Logger
}

// UploaderOption configures an Uploader.
type UploaderOption func(*Uploader) error

// WithNamespace sets the namespace stamped onto every ingested chunk.
func WithNamespace(namespace string) UploaderOption {
	return func(u *Uploader) error {
		u.namespace = namespace
		return nil
	}
}

// WithBatchSize sets the chunk batch size for store writes.
// Default is ingestion.DefaultBatchSize.
func WithBatchSize(size int) UploaderOption {
	return func(u *Uploader) error {
		if err := core.ValidateBatchSize(size); err != nil {
			return err
		}
		u.batchSize = size
		return nil
	}
}

// WithRegistry replaces the default parser registry.
func WithRegistry(registry *parsers.Registry) UploaderOption {
	return func(u *Uploader) error {
		if registry == nil {
			return errors.New("registry must not be nil")
		}
		u.registry = registry
		return nil
	}
}

// WithSplitter replaces the default recursive character splitter.
func WithSplitter(splitter splitters.Splitter) UploaderOption {
	return func(u *Uploader) error {
		if splitter == nil {
			return ingestion.ErrSplitterRequired
		}
		u.splitter = splitter
		return nil
	}
}

// WithPoolSize sets the worker pool size for asynchronous ingestion.
func WithPoolSize(size int) UploaderOption {
	return func(u *Uploader) error {
		if size < 1 {
			size = 1
		}
		u.poolSize = size
		return nil
	}
}

// WithUploaderLogger sets a custom logger.
func WithUploaderLogger(logger *slog.Logger) UploaderOption {
	return func(u *Uploader) error {
		if logger == nil {
			logger = slog.Default()
		}
		u.logger = logger
		return nil
	}
}

// NewUploader creates an Uploader over the given store. The namespace
// is fixed at construction and applied to every ingested chunk.
func NewUploader(store storage.VectorStore, opts ...UploaderOption) (*Uploader, error) {
	if store == nil {
		return nil, ingestion.ErrStoreRequired
	}

	u := &Uploader{
		registry:  parsers.NewDefaultRegistry(),
		splitter:  splitters.NewRecursiveCharacter(splitters.DefaultChunkSize, splitters.DefaultChunkOverlap),
		store:     store,
		batchSize: ingestion.DefaultBatchSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(u); err != nil {
			return nil, err
		}
	}

	pipelineOpts := []ingestion.Option{
		ingestion.WithBatchSize(u.batchSize),
		ingestion.WithLogger(u.logger),
	}
	if u.poolSize > 0 {
		pipelineOpts = append(pipelineOpts, ingestion.WithPoolSize(u.poolSize))
	}

	pipeline, err := ingestion.NewPipeline(u.registry, u.splitter, u.store, pipelineOpts...)
	if err != nil {
		return nil, err
	}
	u.pipeline = pipeline

	return u, nil
}

// Ingest decodes the payload, parses and splits it, and writes the
// chunks to the store. The namespace is validated before any work
// happens, so misconfiguration never touches the store.
func (u *Uploader) Ingest(ctx context.Context, input IngestionInput) (IngestionOutput, error) {
	if err := core.ValidateNamespace(u.namespace); err != nil {
		return IngestionOutput{}, err
	}

	blob, err := u.decodeInput(input)
	if err != nil {
		return IngestionOutput{}, err
	}

	ids, err := u.pipeline.Ingest(ctx, blob, u.namespace)
	if err != nil {
		return IngestionOutput{}, err
	}

	u.logger.Debug("ingested document", "source", blob.Filename(), "mime", blob.MimeType(), "chunks", len(ids))
	return IngestionOutput{Success: true}, nil
}

// IngestAsync decodes the payload synchronously, then submits the
// ingestion work to the pipeline's worker pool. The done callback, if
// non-nil, receives the stored chunk IDs or the error.
func (u *Uploader) IngestAsync(ctx context.Context, input IngestionInput, done func([]string, error)) error {
	if err := core.ValidateNamespace(u.namespace); err != nil {
		return err
	}

	blob, err := u.decodeInput(input)
	if err != nil {
		return err
	}

	return u.pipeline.IngestAsync(ctx, blob, u.namespace, done)
}

// decodeInput base64-decodes the payload and sniffs its content type.
func (u *Uploader) decodeInput(input IngestionInput) (core.Blob, error) {
	encoded := strings.Map(dropSpace, input.Base64File)
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return core.Blob{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	mimeType := core.DetectContentType(data)
	return core.NewBlob(data, input.Filename, mimeType), nil
}

// Close releases the pipeline's worker pool.
func (u *Uploader) Close() {
	u.pipeline.Release()
}

func dropSpace(r rune) rune {
	switch r {
	case ' ', '\t', '\n', '\r':
		return -1
	}
	return r
}
