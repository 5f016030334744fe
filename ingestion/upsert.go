package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/policysync/core"
	"github.com/poiesic/policysync/storage"
)

// upsertCoordinator applies normalized records to the relational store with
// a bounded retry. Each single-record upsert is atomic at the store level;
// a failure after retries is the caller's to ledger, not to escalate.
type upsertCoordinator struct {
	repo        storage.PolicyRepository
	maxAttempts int
	baseDelay   time.Duration
	logger      *slog.Logger
}

func newUpsertCoordinator(repo storage.PolicyRepository, maxAttempts int, baseDelay time.Duration, logger *slog.Logger) *upsertCoordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &upsertCoordinator{
		repo:        repo,
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		logger:      logger.With("stage", "upsert"),
	}
}

// apply upserts one record. After a successful return, record.VectorID
// reflects the persisted value: the store never clobbers an existing vector
// id with nil, so re-ingesting an already-synced record keeps its vector
// entry addressable for the embedding stage.
func (c *upsertCoordinator) apply(ctx context.Context, record *core.PolicyRecord) error {
	err := RetryWithBackoff(ctx, func() error {
		return c.repo.Upsert(ctx, record)
	}, c.maxAttempts, c.baseDelay)
	if err != nil {
		c.logger.Error("upsert failed after retries", "policy_number", record.PolicyNumber, "err", err)
		return fmt.Errorf("upsert %s: %w", record.PolicyNumber, err)
	}

	c.logger.Debug("record upserted", "policy_number", record.PolicyNumber)
	return nil
}
