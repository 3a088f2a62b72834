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


// Package storage provides the vector store abstraction for ingestkit.
//
// It defines the VectorStore interface that decouples the ingestion
// pipeline from the persistence backend, so BadgerDB, Postgres/pgvector,
// and in-memory implementations can be used interchangeably.
//
// # Constructor Return Type Pattern
//
// Backend packages return the storage.VectorStore interface from their
// public constructors:
//
//	store, err := badger.NewStore(path)  // returns storage.VectorStore
//
// This keeps consumers decoupled from backend specifics and lets tests
// substitute the in-memory store without modification.
//
// # Thread Safety
//
// All VectorStore implementations must be safe for concurrent use from
// multiple goroutines.
//
// # Context Support
//
// AddDocuments accepts a context.Context for cancellation and timeout
// support. Pass context.Background() for operations without specific
// timeout requirements.
package storage
