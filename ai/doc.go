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


// Package ai abstracts the embedding service used for vector sync.
//
// The Embedder interface is the only AI dependency of the pipeline; the
// core and ingestion packages depend on it rather than on any concrete
// client.
//
// Two implementation sub-packages are provided:
//
//   - ai/openai: production implementation for OpenAI-compatible APIs
//   - ai/mock: deterministic test double, no external dependencies
//
// Public constructors (openai.NewEmbedder) return the interface type to
// enforce abstraction; mock constructors return concrete types so tests can
// inject behavior and assert call counts.
package ai
