// Copyright 2026 Newsweave Authors
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


// Package store provides the storage abstraction layer for the pipeline.
//
// This package defines the interfaces through which the three pipeline
// stages communicate; they never call each other directly:
//
//   - SeenSet: monotonically growing URL dedup set
//   - Queue: FIFO hand-off of raw article payloads
//   - ArticleRepository: embedded article records
//   - SummaryRepository: immutable event summaries
//   - CycleLock: mutual exclusion for the clustering cycle
//
// # Backends
//
// Repository constructors return these interfaces rather than concrete
// types, to keep backends swappable:
//
//	seen, queue, lock   := redis-backed implementations (store/redis)
//	articles, summaries := document-store implementations (store/mongo)
//	everything          := in-process implementations (store/memory, tests)
//
// # Thread Safety
//
// All implementations must be thread-safe and support concurrent access
// from multiple goroutines.
//
// # Context Support
//
// All methods accept context.Context for cancellation and timeout support.
package store
