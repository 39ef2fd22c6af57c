// Copyright 2025 Poiesic Systems
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


// Package storage provides the storage abstraction layer for trendscout history.
//
// This package defines repository interfaces that decouple persistence of
// analysis results from the orchestration code.
//
// # Architecture
//
//   - SnapshotRepository: ranked results per taxonomy selection, newest first
//   - TrendCache: fetched series keyed by query fingerprint, with expiry
//
// The taxonomy itself is not stored here; it lives in a JSON document owned by
// the taxonomy package so it stays hand-editable.
//
// # Usage
//
//	backend, err := badger.OpenBackend("/path/to/history", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	snapshots := badger.NewSnapshotRepository(backend)
//	cache := badger.NewTrendCache(backend)
//
// Use in tests with in-memory storage:
//
//	snapshots, cache, backend, err := badger.NewMemoryRepositories()
//
// # Serialization
//
// Values are JSON encoded. IDs inside keys are 8 big-endian bytes so that
// lexicographic key order matches numeric order.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
