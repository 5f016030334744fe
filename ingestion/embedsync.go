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


package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/policysync/ai"
	"github.com/poiesic/policysync/core"
	"github.com/poiesic/policysync/storage"
	"github.com/poiesic/policysync/vectorindex"
)

// EmbeddingSync derives a vector representation for an upserted record and
// keeps the vector index entry and the record's vector_id in step. It is
// shared by the ingestion pipeline and the resync sweep.
type EmbeddingSync struct {
	repo        storage.PolicyRepository
	embedder    ai.Embedder
	index       vectorindex.Index
	maxAttempts int
	baseDelay   time.Duration
	logger      *slog.Logger
}

// NewEmbeddingSync creates an embedding sync stage.
func NewEmbeddingSync(repo storage.PolicyRepository, embedder ai.Embedder, index vectorindex.Index, maxAttempts int, baseDelay time.Duration, logger *slog.Logger) (*EmbeddingSync, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if index == nil {
		return nil, ErrIndexRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EmbeddingSync{
		repo:        repo,
		embedder:    embedder,
		index:       index,
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		logger:      logger.With("stage", "embed-sync"),
	}, nil
}

// Sync embeds the record's deterministic text, upserts the vector keyed by
// the record's existing vector id (or a freshly generated one), and writes
// the id back onto the relational record. The relational write that
// preceded Sync is never rolled back on failure: a record may exist without
// a current vector id until the next successful pass.
func (s *EmbeddingSync) Sync(ctx context.Context, record *core.PolicyRecord) (string, error) {
	text := EmbeddingText(record)
	fingerprint := core.ContentFingerprint(text)

	var vector []float32
	err := RetryWithBackoff(ctx, func() error {
		var embedErr error
		vector, embedErr = s.embedder.EmbedText(ctx, text)
		return embedErr
	}, s.maxAttempts, s.baseDelay)
	if err != nil {
		s.logger.Error("embedding generation failed", "policy_number", record.PolicyNumber, "err", err)
		return "", fmt.Errorf("embed %s: %w", record.PolicyNumber, err)
	}

	// Reuse the existing id so the old entry is overwritten in place;
	// a fresh id would orphan it.
	vectorID := uuid.NewString()
	if record.VectorID != nil && *record.VectorID != "" {
		vectorID = *record.VectorID
	}

	entry := vectorindex.Entry{
		ID:       vectorID,
		Vector:   vector,
		Metadata: Metadata(record, fingerprint),
	}
	err = RetryWithBackoff(ctx, func() error {
		return s.index.UpsertVector(ctx, entry)
	}, s.maxAttempts, s.baseDelay)
	if err != nil {
		s.logger.Error("vector upsert failed", "policy_number", record.PolicyNumber, "vector_id", vectorID, "err", err)
		return "", fmt.Errorf("vector upsert %s: %w", record.PolicyNumber, err)
	}

	err = RetryWithBackoff(ctx, func() error {
		return s.repo.SetVectorID(ctx, record.PolicyNumber, vectorID)
	}, s.maxAttempts, s.baseDelay)
	if err != nil {
		s.logger.Error("vector id write-back failed", "policy_number", record.PolicyNumber, "vector_id", vectorID, "err", err)
		return "", fmt.Errorf("write back vector id for %s: %w", record.PolicyNumber, err)
	}

	record.VectorID = &vectorID
	s.logger.Debug("vector synced", "policy_number", record.PolicyNumber, "vector_id", vectorID)
	return vectorID, nil
}
