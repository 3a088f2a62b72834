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

	"github.com/draycott/ingestkit/core"
	"github.com/draycott/ingestkit/parsers"
	"github.com/draycott/ingestkit/splitters"
	"github.com/draycott/ingestkit/storage"
)

// DefaultBatchSize is the number of chunks buffered before a store write.
const DefaultBatchSize = 100

// IngestBlob parses the blob, splits each parsed document into chunks,
// tags every chunk with the namespace, and writes chunks to the store
// in batches. Returns the IDs of all stored chunks in order.
//
// The buffer is flushed whenever it reaches batchSize after a parsed
// document, and unconditionally at the end, so no trailing chunks are
// lost. A batchSize <= 0 selects DefaultBatchSize. The first store or
// parse error aborts ingestion; chunks already flushed stay stored.
func IngestBlob(
	ctx context.Context,
	blob core.Blob,
	parser parsers.Parser,
	splitter splitters.Splitter,
	store storage.VectorStore,
	namespace string,
	batchSize int,
) ([]string, error) {
	if err := core.ValidateNamespace(namespace); err != nil {
		return nil, err
	}
	if parser == nil {
		return nil, ErrParserRequired
	}
	if splitter == nil {
		return nil, ErrSplitterRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	var (
		ids    []string
		buffer []core.Document
	)

	flush := func() error {
		if len(buffer) == 0 {
			return nil
		}
		batchIDs, err := store.AddDocuments(ctx, buffer)
		if err != nil {
			return err
		}
		ids = append(ids, batchIDs...)
		buffer = buffer[:0]
		return nil
	}

	for doc, err := range parser.Parse(ctx, blob) {
		if err != nil {
			return nil, err
		}

		chunks, err := splitter.Split(doc)
		if err != nil {
			return nil, err
		}
		for _, chunk := range chunks {
			buffer = append(buffer, tagNamespace(chunk, namespace))
		}

		if len(buffer) >= batchSize {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}

	if err := flush(); err != nil {
		return nil, err
	}

	return ids, nil
}

// tagNamespace stamps the namespace onto the chunk metadata.
func tagNamespace(doc core.Document, namespace string) core.Document {
	if doc.Metadata == nil {
		doc.Metadata = make(map[string]any, 1)
	}
	doc.Metadata[core.MetadataKeyNamespace] = namespace
	return doc
}
