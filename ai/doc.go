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


// Package ai provides the embedding abstraction used by the vector
// store backends.
//
// The package defines the Embedder interface so storage backends depend
// on an abstraction rather than a concrete embedding client.
//
// # Implementation Packages
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//   - ai/mock: test doubles for unit testing without external services
//
// Public constructors (openai.NewEmbedder) return the ai.Embedder
// interface to enforce abstraction. Test utility constructors
// (mock.NewMockEmbedder) return concrete types to enable assertions and
// behavior injection.
package ai
