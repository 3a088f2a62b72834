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


// Package search provides similarity search over ingested chunks.
//
// The Searcher embeds a query, scans stored entries, and ranks them by
// cosine similarity against the query vector. Entries without vectors
// are skipped, so search only covers chunks ingested through an
// embedder-backed store.
package search
