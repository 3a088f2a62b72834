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


package core

// ValidateNamespace checks that a namespace is usable for ingestion.
// Namespaces partition vector-store content between callers; an empty one
// would silently mix tenants, so ingestion must refuse it before doing any
// work.
func ValidateNamespace(namespace string) error {
	if namespace == "" {
		return ErrNamespaceRequired
	}
	return nil
}

// ValidateBatchSize checks that a flush threshold is usable.
func ValidateBatchSize(batchSize int) error {
	if batchSize < 1 {
		return ErrInvalidBatchSize
	}
	return nil
}
