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


package resync

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/policysync/ai"
	"github.com/poiesic/policysync/core"
	"github.com/poiesic/policysync/ingestion"
	"github.com/poiesic/policysync/storage"
	"github.com/poiesic/policysync/vectorindex"
)

// Config holds configuration for a sweep.
type Config struct {
	// BatchSize is the number of records to fetch per page
	BatchSize int

	// ReportInterval is how often to report progress (number of records)
	ReportInterval int

	// MaxRetries is the maximum number of attempts for each external call
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Sweeper replays the embedding sync for every record that lacks a vector
// id. Failures are per record: a record that cannot be synced is logged and
// left for the next sweep while the rest of the page proceeds.
type Sweeper struct {
	repo     storage.PolicyRepository
	sync     *ingestion.EmbeddingSync
	config   *Config
	progress io.Writer
	logger   *slog.Logger
	iterator *PolicyIterator
}

// NewSweeper creates a sweeper over the given stores.
// progress: where to write progress output (typically os.Stderr)
func NewSweeper(repo storage.PolicyRepository, embedder ai.Embedder, index vectorindex.Index, config *Config, progress io.Writer, logger *slog.Logger) (*Sweeper, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}
	if logger == nil {
		logger = slog.Default()
	}

	sync, err := ingestion.NewEmbeddingSync(repo, embedder, index, config.MaxRetries, config.RetryDelay, logger)
	if err != nil {
		return nil, err
	}

	return &Sweeper{
		repo:     repo,
		sync:     sync,
		config:   config,
		progress: progress,
		logger:   logger.With("stage", "resync"),
		iterator: NewPolicyIterator(repo, config.BatchSize),
	}, nil
}

// Run executes one sweep over all records missing a vector id.
// Progress is reported to the configured writer.
func (s *Sweeper) Run(ctx context.Context) error {
	total, err := s.repo.CountMissingVectorID(ctx)
	if err != nil {
		return fmt.Errorf("count records missing a vector id: %w", err)
	}
	if total == 0 {
		fmt.Fprintf(s.progress, "Vector index is current (0 records missing a vector id)\n")
		return nil
	}

	fmt.Fprintf(s.progress, "Starting vector sync of %d records (batch size: %d)\n",
		total, s.config.BatchSize)

	tracker := NewProgressTracker(s.progress, int(total), s.config.ReportInterval)
	tracker.Start()

	processed := 0
	failed := 0

	err = s.iterator.ForEach(ctx, func(records []*core.PolicyRecord) error {
		for _, record := range records {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			if _, syncErr := s.sync.Sync(ctx, record); syncErr != nil {
				failed++
				s.logger.Error("sync failed, record left for the next sweep",
					"policy_number", record.PolicyNumber, "err", syncErr)
			}

			processed++
			tracker.Update(processed)
		}
		return nil
	})
	if err != nil {
		return err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(s.progress, "Vector sync complete. Processed %d records (%d failed) in %v (%.1f records/sec)\n",
		processed, failed, elapsed.Round(time.Second), float64(processed)/elapsed.Seconds())

	if processed > 0 && failed == processed {
		return fmt.Errorf("%w: %d records attempted", ErrAllSyncFailed, processed)
	}
	return nil
}
