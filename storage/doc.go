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


// Package storage provides the relational storage abstraction for policysync.
//
// The PolicyRepository interface decouples the ingestion pipeline from the
// concrete backend. Two implementations ship with the module:
//
//   - storage/gormdb: GORM-backed repository (SQLite for local use and
//     tests, PostgreSQL for production)
//   - storage/memory: in-memory repository for tests and dry runs
//
// Public constructors return the interface type to keep consumers decoupled
// from backend specifics. Records are never deleted by this layer: ingestion
// has upsert-only semantics, and the absence of an input row across runs
// does not remove a stored record.
//
// All implementations must be thread-safe; every method accepts a
// context.Context for cancellation.
package storage
